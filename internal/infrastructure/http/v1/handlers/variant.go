package handlers

import (
	"stockbook/internal/core/id"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// VariantHandler serves the product variant catalog.
type VariantHandler = CatalogHandler[
	*variant.Variant,
	dto.CreateVariantRequest,
	dto.UpdateVariantRequest,
]

// NewVariantHandler creates a variant catalog handler.
func NewVariantHandler(base *BaseHandler, service *variant.Service) *VariantHandler {
	cfg := CatalogHandlerConfig[
		*variant.Variant,
		dto.CreateVariantRequest,
		dto.UpdateVariantRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "variant",

		MapCreateDTO: func(accountID id.ID, req dto.CreateVariantRequest) *variant.Variant {
			return req.ToEntity(accountID)
		},
		MapUpdateDTO: func(req dto.UpdateVariantRequest, existing *variant.Variant) *variant.Variant {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(v *variant.Variant) any {
			return dto.FromVariant(v)
		},
	}

	return NewCatalogHandler(base, cfg)
}
