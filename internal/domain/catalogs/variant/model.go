// Package variant provides the product variant catalog.
// A variant is the unit of stock keeping: one sellable configuration of a
// product with its own price, cost and serialization flag.
package variant

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Variant represents one stock-keeping product configuration.
type Variant struct {
	entity.Catalog

	SKU     *string `db:"sku" json:"sku,omitempty"`
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Price is the cached current unit price, maintained by the price
	// recalculation engine. Historical truth lives in price history.
	Price types.MinorUnits `db:"price" json:"price"`

	// Cost is the unit acquisition cost, frozen into lines and postings
	Cost types.MinorUnits `db:"cost" json:"cost"`

	// Serialized indicates the variant is tracked by individual unit codes
	Serialized bool `db:"serialized" json:"serialized"`
}

// New creates a new Variant.
func New(accountID id.ID, code, name string) *Variant {
	return &Variant{
		Catalog: entity.NewCatalog(accountID, code, name),
	}
}

// Validate implements entity.Validatable.
func (v *Variant) Validate(ctx context.Context) error {
	if err := v.Catalog.Validate(ctx); err != nil {
		return err
	}

	if v.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	if v.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}

	return nil
}
