// Package auth_repo provides PostgreSQL persistence for accounts.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/auth"
	"stockbook/internal/infrastructure/storage/postgres"
)

const accountTable = "sys_account"

// AccountRepo implements auth.Repository.
type AccountRepo struct {
	txManager *postgres.TxManager
	cols      []string
}

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[auth.Account](),
	}
}

func (r *AccountRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, account *auth.Account) error {
	data := postgres.StructToMap(account)

	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(accountTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("account", "email", account.Email)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*auth.Account, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(accountTable).
		Where(squirrel.Eq{"id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	account := &auth.Account{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), account, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", accountID.String())
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(accountTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	account := &auth.Account{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), account, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", email)
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

// Update rewrites the account with optimistic locking.
func (r *AccountRepo) Update(ctx context.Context, account *auth.Account) error {
	data := postgres.StructToMap(account)

	filtered := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		if col == "id" || col == "version" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update(accountTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": account.ID}).
		Where(squirrel.Eq{"version": account.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("account", account.ID.String())
	}

	account.Version++
	return nil
}

// EmailExists checks for an existing account with the email.
func (r *AccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(accountTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return true, nil
}
