package pricing

import (
	"context"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository persists price history and rewrites dependent snapshots.
type Repository interface {
	// HasHistory reports whether the variant has any history entry.
	HasHistory(ctx context.Context, accountID, variantID id.ID) (bool, error)

	// Upsert inserts the entry, overwriting any existing entry at the
	// same (variant, effective timestamp).
	Upsert(ctx context.Context, entry *HistoryEntry) error

	// PriceAt returns the price effective at the given moment: the latest
	// entry whose effective timestamp is not after at. ok is false when no
	// such entry exists.
	PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (price types.MinorUnits, ok bool, err error)

	// ListByVariant returns the variant's full history, newest first.
	ListByVariant(ctx context.Context, accountID, variantID id.ID) ([]HistoryEntry, error)

	// RecalculateLineSnapshots overwrites the unit-price snapshot of every
	// operation line for the variant occurring at or after from, using the
	// history entry effective at each line's own occurrence timestamp.
	// Returns the number of lines rewritten.
	RecalculateLineSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error)

	// RecalculatePostingSnapshots does the same for stock postings,
	// keyed by each posting's period.
	RecalculatePostingSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error)
}

// AccountLocker takes the per-account ledger write lock. Recalculation
// rewrites ledger rows, so it serializes against operation mutations.
type AccountLocker interface {
	LockAccount(ctx context.Context, accountID id.ID) error
}
