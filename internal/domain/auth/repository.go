package auth

import (
	"context"

	"stockbook/internal/core/id"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	EmailExists(ctx context.Context, email string) (bool, error)
}
