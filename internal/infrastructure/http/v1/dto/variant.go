package dto

import (
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/variant"
)

// --- Request DTOs ---

// CreateVariantRequest creates a product variant.
type CreateVariantRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	SKU        *string `json:"sku,omitempty"`
	Barcode    *string `json:"barcode,omitempty"`
	Price      int64   `json:"price" binding:"gte=0"`
	Cost       int64   `json:"cost" binding:"gte=0"`
	Serialized bool    `json:"serialized,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateVariantRequest) ToEntity(accountID id.ID) *variant.Variant {
	v := variant.New(accountID, r.Code, r.Name)
	v.SKU = r.SKU
	v.Barcode = r.Barcode
	v.Price = types.MinorUnits(r.Price)
	v.Cost = types.MinorUnits(r.Cost)
	v.Serialized = r.Serialized
	return v
}

// UpdateVariantRequest updates a product variant. Price is deliberately
// absent: price changes go through the repricing endpoint so history and
// recorded snapshots stay consistent.
type UpdateVariantRequest struct {
	Code    *string `json:"code,omitempty"`
	Name    *string `json:"name,omitempty"`
	SKU     *string `json:"sku,omitempty"`
	Barcode *string `json:"barcode,omitempty"`
	Cost    *int64  `json:"cost,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateVariantRequest) ApplyTo(v *variant.Variant) {
	if r.Code != nil {
		v.Code = *r.Code
	}
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.SKU != nil {
		v.SKU = r.SKU
	}
	if r.Barcode != nil {
		v.Barcode = r.Barcode
	}
	if r.Cost != nil {
		v.Cost = types.MinorUnits(*r.Cost)
	}
}

// --- Response DTOs ---

// VariantResponse is the API view of a variant.
type VariantResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	SKU          *string `json:"sku,omitempty"`
	Barcode      *string `json:"barcode,omitempty"`
	Price        int64   `json:"price"`
	Cost         int64   `json:"cost"`
	Serialized   bool    `json:"serialized"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromVariant maps a variant to its API view.
func FromVariant(v *variant.Variant) VariantResponse {
	return VariantResponse{
		ID:           v.ID.String(),
		Code:         v.Code,
		Name:         v.Name,
		SKU:          v.SKU,
		Barcode:      v.Barcode,
		Price:        int64(v.Price),
		Cost:         int64(v.Cost),
		Serialized:   v.Serialized,
		DeletionMark: v.DeletionMark,
		Version:      v.Version,
	}
}
