// Package auth provides account registration and authentication.
// Every ledger row carries the account id issued here; all reads and
// writes are scoped to it.
package auth

import (
	"context"
	"regexp"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account represents one tenant of the ledger: a small business owner.
type Account struct {
	ID           id.ID      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	BusinessName string     `db:"business_name" json:"businessName,omitempty"`
	IsActive     bool       `db:"is_active" json:"isActive"`

	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	Version   int       `db:"version" json:"version"`
}

// NewAccount creates an account with a generated id.
func NewAccount(email, passwordHash, businessName string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		BusinessName: businessName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate checks account invariants.
func (a *Account) Validate(ctx context.Context) error {
	if a.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if !emailRE.MatchString(a.Email) {
		return apperror.NewValidation("email is malformed").WithDetail("field", "email")
	}
	return nil
}

// IsLocked reports whether the account is temporarily locked out.
func (a *Account) IsLocked() bool {
	if a.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*a.LockedUntil)
}

// CanLogin checks login preconditions.
func (a *Account) CanLogin() error {
	if !a.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if a.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter, locking the
// account once maxAttempts is reached.
func (a *Account) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	a.FailedLoginAttempts++
	if a.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		a.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (a *Account) RecordSuccessfulLogin() {
	a.FailedLoginAttempts = 0
	a.LockedUntil = nil
	now := time.Now().UTC()
	a.LastLoginAt = &now
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest for account registration.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName,omitempty"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
