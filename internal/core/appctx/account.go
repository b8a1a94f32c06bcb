package appctx

import (
	"context"

	"stockbook/internal/core/id"
)

// AccountContext contains the authenticated account attached to a request.
// The ledger core never reads it implicitly: handlers extract the account id
// here and pass it as an explicit parameter to every domain call.
type AccountContext struct {
	AccountID id.ID
	Email     string
	SessionID string
}

type accountContextKey struct{}

// WithAccount adds AccountContext to context.
func WithAccount(ctx context.Context, acc *AccountContext) context.Context {
	return context.WithValue(ctx, accountContextKey{}, acc)
}

// GetAccount returns AccountContext from context.
func GetAccount(ctx context.Context) *AccountContext {
	if v, ok := ctx.Value(accountContextKey{}).(*AccountContext); ok {
		return v
	}
	return nil
}

// GetAccountID returns the account id from context or the nil id.
func GetAccountID(ctx context.Context) id.ID {
	if a := GetAccount(ctx); a != nil {
		return a.AccountID
	}
	return id.Nil()
}
