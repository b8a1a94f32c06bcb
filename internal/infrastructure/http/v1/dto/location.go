package dto

import (
	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/location"
)

// --- Request DTOs ---

// CreateLocationRequest creates a stock location.
type CreateLocationRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Kind      string  `json:"kind" binding:"required"`
	PartyID   *string `json:"partyId,omitempty"`
	IsDefault bool    `json:"isDefault,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateLocationRequest) ToEntity(accountID id.ID) *location.Location {
	loc := location.New(accountID, r.Code, r.Name, location.Kind(r.Kind))
	loc.IsDefault = r.IsDefault
	loc.Address = r.Address
	if r.PartyID != nil {
		if partyID, err := id.Parse(*r.PartyID); err == nil {
			loc.PartyID = &partyID
		}
	}
	return loc
}

// UpdateLocationRequest updates a stock location.
type UpdateLocationRequest struct {
	Code      *string `json:"code,omitempty"`
	Name      *string `json:"name,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateLocationRequest) ApplyTo(loc *location.Location) {
	if r.Code != nil {
		loc.Code = *r.Code
	}
	if r.Name != nil {
		loc.Name = *r.Name
	}
	if r.IsDefault != nil {
		loc.IsDefault = *r.IsDefault
	}
	if r.Address != nil {
		loc.Address = r.Address
	}
}

// --- Response DTOs ---

// LocationResponse is the API view of a location.
type LocationResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	PartyID      *string `json:"partyId,omitempty"`
	IsDefault    bool    `json:"isDefault"`
	Address      *string `json:"address,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromLocation maps a location to its API view.
func FromLocation(loc *location.Location) LocationResponse {
	resp := LocationResponse{
		ID:           loc.ID.String(),
		Code:         loc.Code,
		Name:         loc.Name,
		Kind:         string(loc.Kind),
		IsDefault:    loc.IsDefault,
		Address:      loc.Address,
		DeletionMark: loc.DeletionMark,
		Version:      loc.Version,
	}
	if loc.PartyID != nil {
		s := loc.PartyID.String()
		resp.PartyID = &s
	}
	return resp
}
