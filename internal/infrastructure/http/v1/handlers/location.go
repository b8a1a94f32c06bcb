package handlers

import (
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/location"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// LocationHandler serves the location catalog.
type LocationHandler = CatalogHandler[
	*location.Location,
	dto.CreateLocationRequest,
	dto.UpdateLocationRequest,
]

// NewLocationHandler creates a location catalog handler.
func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	cfg := CatalogHandlerConfig[
		*location.Location,
		dto.CreateLocationRequest,
		dto.UpdateLocationRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "location",

		MapCreateDTO: func(accountID id.ID, req dto.CreateLocationRequest) *location.Location {
			return req.ToEntity(accountID)
		},
		MapUpdateDTO: func(req dto.UpdateLocationRequest, existing *location.Location) *location.Location {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(loc *location.Location) any {
			return dto.FromLocation(loc)
		},
	}

	return NewCatalogHandler(base, cfg)
}
