package handlers

import (
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/party"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// PartyHandler serves the counterparty catalog.
type PartyHandler = CatalogHandler[
	*party.Party,
	dto.CreatePartyRequest,
	dto.UpdatePartyRequest,
]

// NewPartyHandler creates a counterparty catalog handler.
func NewPartyHandler(base *BaseHandler, service *party.Service) *PartyHandler {
	cfg := CatalogHandlerConfig[
		*party.Party,
		dto.CreatePartyRequest,
		dto.UpdatePartyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "party",

		MapCreateDTO: func(accountID id.ID, req dto.CreatePartyRequest) *party.Party {
			return req.ToEntity(accountID)
		},
		MapUpdateDTO: func(req dto.UpdatePartyRequest, existing *party.Party) *party.Party {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(p *party.Party) any {
			return dto.FromParty(p)
		},
	}

	return NewCatalogHandler(base, cfg)
}
