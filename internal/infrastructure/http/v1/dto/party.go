package dto

import (
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/party"
)

// --- Request DTOs ---

// CreatePartyRequest creates a counterparty.
type CreatePartyRequest struct {
	Code    string  `json:"code" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Kind    string  `json:"kind" binding:"required"`
	Handle  *string `json:"handle,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreatePartyRequest) ToEntity(accountID id.ID) *party.Party {
	p := party.New(accountID, r.Code, r.Name, party.Kind(r.Kind))
	p.Handle = r.Handle
	p.Phone = r.Phone
	p.Email = r.Email
	p.Comment = r.Comment
	return p
}

// UpdatePartyRequest updates a counterparty.
type UpdatePartyRequest struct {
	Code    *string `json:"code,omitempty"`
	Name    *string `json:"name,omitempty"`
	Handle  *string `json:"handle,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdatePartyRequest) ApplyTo(p *party.Party) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Handle != nil {
		p.Handle = r.Handle
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
	if r.Email != nil {
		p.Email = r.Email
	}
	if r.Comment != nil {
		p.Comment = r.Comment
	}
}

// --- Response DTOs ---

// PartyResponse is the API view of a counterparty.
type PartyResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	Handle       *string `json:"handle,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Comment      *string `json:"comment,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromParty maps a counterparty to its API view.
func FromParty(p *party.Party) PartyResponse {
	return PartyResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		Kind:         string(p.Kind),
		Handle:       p.Handle,
		Phone:        p.Phone,
		Email:        p.Email,
		Comment:      p.Comment,
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
	}
}
