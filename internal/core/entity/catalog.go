package entity

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// Catalog is the base type for reference data.
// Examples: Location, Party, Variant.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique within account)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(accountID id.ID, code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(accountID),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if err := c.BaseEntity.Validate(ctx); err != nil {
		return err
	}

	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	// Code can be auto-generated, so it's optional at creation
	// but required at save time

	return nil
}
