// Package pricing_repo provides PostgreSQL persistence for effective-dated
// prices and the snapshot rewrites of the recalculation engine.
package pricing_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/pricing"
	"stockbook/internal/infrastructure/storage/postgres"
)

const historyTable = "price_history"

// PriceHistoryRepo implements pricing.Repository.
type PriceHistoryRepo struct {
	txManager *postgres.TxManager
	cols      []string
}

// NewPriceHistoryRepo creates a new price history repository.
func NewPriceHistoryRepo(txManager *postgres.TxManager) *PriceHistoryRepo {
	return &PriceHistoryRepo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[pricing.HistoryEntry](),
	}
}

func (r *PriceHistoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// HasHistory reports whether the variant has any history entry.
func (r *PriceHistoryRepo) HasHistory(ctx context.Context, accountID, variantID id.ID) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(historyTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"variant_id": variantID}).
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
		return false, fmt.Errorf("has history: %w", err)
	}
	return true, nil
}

// Upsert inserts the entry, overwriting the price of an existing entry at
// the same (variant, effective timestamp).
func (r *PriceHistoryRepo) Upsert(ctx context.Context, entry *pricing.HistoryEntry) error {
	sql := `
		INSERT INTO price_history (id, account_id, variant_id, price, effective_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, variant_id, effective_at) DO UPDATE SET
			price = EXCLUDED.price
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.AccountID, entry.VariantID, entry.Price, entry.EffectiveAt, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert history entry: %w", err)
	}
	return nil
}

// PriceAt returns the latest entry whose effective timestamp is not after at.
func (r *PriceHistoryRepo) PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (types.MinorUnits, bool, error) {
	sql, args, err := r.builder().
		Select("price").
		From(historyTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"variant_id": variantID}).
		Where(squirrel.LtOrEq{"effective_at": at}).
		OrderBy("effective_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var price types.MinorUnits
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&price)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("price at: %w", err)
	}
	return price, true, nil
}

// ListByVariant returns the variant's full history, newest first.
func (r *PriceHistoryRepo) ListByVariant(ctx context.Context, accountID, variantID id.ID) ([]pricing.HistoryEntry, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(historyTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"variant_id": variantID}).
		OrderBy("effective_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []pricing.HistoryEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// RecalculateLineSnapshots rewrites line price snapshots in one statement:
// each line gets the latest history entry effective at its operation's
// occurrence timestamp.
func (r *PriceHistoryRepo) RecalculateLineSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error) {
	sql := `
		UPDATE ledger_operation_line AS l
		SET unit_price = (
			SELECT p.price
			FROM price_history p
			WHERE p.account_id = l.account_id
			  AND p.variant_id = l.variant_id
			  AND p.effective_at <= o.occurred_at
			ORDER BY p.effective_at DESC
			LIMIT 1
		)
		FROM ledger_operation AS o
		WHERE o.id = l.operation_id
		  AND l.account_id = $1
		  AND l.variant_id = $2
		  AND o.occurred_at >= $3
	`

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, accountID, variantID, from)
	if err != nil {
		return 0, fmt.Errorf("recalculate line snapshots: %w", err)
	}
	return result.RowsAffected(), nil
}

// RecalculatePostingSnapshots does the same for stock postings, keyed by
// each posting's period.
func (r *PriceHistoryRepo) RecalculatePostingSnapshots(ctx context.Context, accountID, variantID id.ID, from time.Time) (int64, error) {
	sql := `
		UPDATE ledger_stock_posting AS sp
		SET unit_price = (
			SELECT p.price
			FROM price_history p
			WHERE p.account_id = sp.account_id
			  AND p.variant_id = sp.variant_id
			  AND p.effective_at <= sp.period
			ORDER BY p.effective_at DESC
			LIMIT 1
		)
		WHERE sp.account_id = $1
		  AND sp.variant_id = $2
		  AND sp.period >= $3
	`

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, accountID, variantID, from)
	if err != nil {
		return 0, fmt.Errorf("recalculate posting snapshots: %w", err)
	}
	return result.RowsAffected(), nil
}
