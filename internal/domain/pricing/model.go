// Package pricing implements effective-dated variant prices and the
// recalculation engine that rewrites historical snapshots when a price
// is edited.
package pricing

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Epoch is the effective timestamp of seed entries. A variant's first
// recalculation seeds its history at the epoch with the live price, so no
// historical record is ever left without a resolvable price.
var Epoch = time.Unix(0, 0).UTC()

// HistoryEntry is one effective-dated price record. Entries are append-only
// except that re-pricing at an existing effective timestamp overwrites that
// entry: at most one entry exists per (variant, effective timestamp).
type HistoryEntry struct {
	ID        id.ID `db:"id" json:"id"`
	AccountID id.ID `db:"account_id" json:"accountId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	Price types.MinorUnits `db:"price" json:"price"`

	// EffectiveAt is the moment this price takes effect. It stays valid
	// until superseded by the next later entry.
	EffectiveAt time.Time `db:"effective_at" json:"effectiveAt"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewHistoryEntry creates a history entry.
func NewHistoryEntry(accountID, variantID id.ID, price types.MinorUnits, effectiveAt time.Time) *HistoryEntry {
	return &HistoryEntry{
		ID:          id.New(),
		AccountID:   accountID,
		VariantID:   variantID,
		Price:       price,
		EffectiveAt: effectiveAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
}

// RepriceResult reports how many stored snapshots a recalculation rewrote.
type RepriceResult struct {
	LinesRecalculated    int64 `json:"linesRecalculated"`
	PostingsRecalculated int64 `json:"postingsRecalculated"`
}
