// Package register_repo provides read-side aggregation over the stock
// posting register.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/storage/postgres"
)

// StockRepo implements stock.Repository. On-hand quantities are never
// stored: every read sums signed postings at query time.
type StockRepo struct {
	txManager *postgres.TxManager
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

const signedSum = `
	COALESCE(SUM(CASE record_type
		WHEN 'receipt' THEN quantity
		WHEN 'expense' THEN -quantity
	END), 0)
`

// OnHand returns the signed posting sum for one (variant, location).
func (r *StockRepo) OnHand(ctx context.Context, accountID, variantID, locationID id.ID) (types.Quantity, error) {
	sql := `
		SELECT ` + signedSum + `
		FROM ledger_stock_posting
		WHERE account_id = $1 AND variant_id = $2 AND location_id = $3
	`

	var qty types.Quantity
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, accountID, variantID, locationID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("on hand: %w", err)
	}
	return qty, nil
}

// OnHandAt is OnHand bounded to postings with period <= at.
func (r *StockRepo) OnHandAt(ctx context.Context, accountID, variantID, locationID id.ID, at time.Time) (types.Quantity, error) {
	sql := `
		SELECT ` + signedSum + `
		FROM ledger_stock_posting
		WHERE account_id = $1 AND variant_id = $2 AND location_id = $3
		  AND period <= $4
	`

	var qty types.Quantity
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, accountID, variantID, locationID, at).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("on hand at: %w", err)
	}
	return qty, nil
}

// LocationBalances returns non-zero balances for every variant at a location.
func (r *StockRepo) LocationBalances(ctx context.Context, accountID, locationID id.ID) ([]stock.Balance, error) {
	sql := `
		SELECT variant_id, location_id, ` + signedSum + ` AS quantity
		FROM ledger_stock_posting
		WHERE account_id = $1 AND location_id = $2
		GROUP BY variant_id, location_id
		HAVING ` + signedSum + ` <> 0
		ORDER BY variant_id
	`

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, accountID, locationID); err != nil {
		return nil, fmt.Errorf("location balances: %w", err)
	}
	return balances, nil
}

// VariantBalances returns non-zero balances for a variant across locations.
func (r *StockRepo) VariantBalances(ctx context.Context, accountID, variantID id.ID) ([]stock.Balance, error) {
	sql := `
		SELECT variant_id, location_id, ` + signedSum + ` AS quantity
		FROM ledger_stock_posting
		WHERE account_id = $1 AND variant_id = $2
		GROUP BY variant_id, location_id
		HAVING ` + signedSum + ` <> 0
		ORDER BY location_id
	`

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, accountID, variantID); err != nil {
		return nil, fmt.Errorf("variant balances: %w", err)
	}
	return balances, nil
}

// Turnover aggregates receipts and expenses per (variant, location) over
// [from, to).
func (r *StockRepo) Turnover(ctx context.Context, accountID id.ID, from, to time.Time) ([]stock.TurnoverRow, error) {
	sql := `
		SELECT variant_id, location_id,
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) AS receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) AS expense
		FROM ledger_stock_posting
		WHERE account_id = $1 AND period >= $2 AND period < $3
		GROUP BY variant_id, location_id
		ORDER BY variant_id, location_id
	`

	var rows []stock.TurnoverRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, accountID, from, to); err != nil {
		return nil, fmt.Errorf("turnover: %w", err)
	}
	return rows, nil
}
