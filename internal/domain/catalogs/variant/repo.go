package variant

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

// Repository defines the interface for Variant persistence.
type Repository interface {
	domain.CatalogRepository[*Variant]

	// UpdatePrice overwrites the cached current price.
	// Called by the price recalculation engine inside its transaction.
	UpdatePrice(ctx context.Context, accountID, variantID id.ID, price types.MinorUnits) error
}
