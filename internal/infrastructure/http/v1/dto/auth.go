package dto

import (
	"time"

	"stockbook/internal/domain/auth"
)

// RegisterRequest for account registration.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	BusinessName string `json:"businessName,omitempty"`
}

// LoginRequest for account login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	BusinessName string     `json:"businessName,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// FromAccount maps an account to its public view.
func FromAccount(a *auth.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID.String(),
		Email:        a.Email,
		BusinessName: a.BusinessName,
		IsActive:     a.IsActive,
		LastLoginAt:  a.LastLoginAt,
		CreatedAt:    a.CreatedAt,
	}
}
