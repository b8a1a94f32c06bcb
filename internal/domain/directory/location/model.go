// Package location provides the Location catalog: named physical or virtual
// places stock can sit in (warehouse, sold-to-customer, blogger, scrap).
package location

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
)

// Kind defines the category of a location.
type Kind string

const (
	// KindWarehouse is a physical storage location
	KindWarehouse Kind = "warehouse"
	// KindSold is the virtual location for goods sold to customers
	KindSold Kind = "sold"
	// KindBlogger is a virtual location for goods at a blogger's hands,
	// tied to a counterparty
	KindBlogger Kind = "blogger"
	// KindScrap is the virtual location for written-off goods
	KindScrap Kind = "scrap"
)

// Location represents a place stock can be located.
type Location struct {
	entity.Catalog

	Kind Kind `db:"kind" json:"kind"`

	// PartyID ties a blogger location to its counterparty
	PartyID *id.ID `db:"party_id" json:"partyId,omitempty"`

	// IsDefault marks the account's default location of this kind
	IsDefault bool `db:"is_default" json:"isDefault"`

	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new Location.
func New(accountID id.ID, code, name string, kind Kind) *Location {
	return &Location{
		Catalog: entity.NewCatalog(accountID, code, name),
		Kind:    kind,
	}
}

// NewBlogger creates a blogger location tied to a counterparty. The code is
// derived from the counterparty id, keeping the location stable across
// repeated shipments to the same blogger.
func NewBlogger(accountID, partyID id.ID, name string) *Location {
	loc := New(accountID, "BLG-"+partyID.String()[:8], name, KindBlogger)
	loc.PartyID = &partyID
	return loc
}

// Validate implements entity.Validatable.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidKind(l.Kind) {
		return apperror.NewValidation("invalid location kind").
			WithDetail("field", "kind").
			WithDetail("value", string(l.Kind))
	}

	if l.Kind == KindBlogger && l.PartyID == nil {
		return apperror.NewValidation("blogger location requires a counterparty").
			WithDetail("field", "partyId")
	}

	return nil
}

func isValidKind(k Kind) bool {
	switch k {
	case KindWarehouse, KindSold, KindBlogger, KindScrap:
		return true
	}
	return false
}
