package location

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// GetDefaultByKind returns the account's default location of a kind.
	GetDefaultByKind(ctx context.Context, accountID id.ID, kind Kind) (*Location, error)

	// GetBloggerByParty returns the blogger location tied to a counterparty,
	// or a not-found error.
	GetBloggerByParty(ctx context.Context, accountID, partyID id.ID) (*Location, error)
}
