package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const markTable = "ledger_mark_code"

// MarkRepo implements ledger.MarkRepository.
type MarkRepo struct {
	txManager *postgres.TxManager
	cols      []string
}

// NewMarkRepo creates a new serialized-unit repository.
func NewMarkRepo(txManager *postgres.TxManager) *MarkRepo {
	return &MarkRepo{
		txManager: txManager,
		cols:      postgres.ExtractDBColumns[ledger.MarkCode](),
	}
}

func (r *MarkRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Upsert writes one unit record, keyed by (account, code). A known code is
// overwritten in place, last writer wins; a new one is created.
func (r *MarkRepo) Upsert(ctx context.Context, mark *ledger.MarkCode) error {
	sql := `
		INSERT INTO ledger_mark_code (
			id, account_id, code, variant_id, status, location_id,
			last_operation_id, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, code) DO UPDATE SET
			variant_id = EXCLUDED.variant_id,
			status = EXCLUDED.status,
			location_id = EXCLUDED.location_id,
			last_operation_id = EXCLUDED.last_operation_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		mark.ID, mark.AccountID, mark.Code, mark.VariantID, mark.Status,
		mark.LocationID, mark.LastOperationID, mark.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert mark code: %w", err)
	}
	return nil
}

// GetByCode returns the unit record for a code.
func (r *MarkRepo) GetByCode(ctx context.Context, accountID id.ID, code string) (*ledger.MarkCode, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(markTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	mark := &ledger.MarkCode{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), mark, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("mark code", code)
		}
		return nil, fmt.Errorf("get mark code: %w", err)
	}
	return mark, nil
}

// ListByOperation returns unit records last touched by the operation.
func (r *MarkRepo) ListByOperation(ctx context.Context, accountID, operationID id.ID) ([]ledger.MarkCode, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(markTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"last_operation_id": operationID}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var marks []ledger.MarkCode
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &marks, sql, args...); err != nil {
		return nil, fmt.Errorf("list mark codes: %w", err)
	}
	return marks, nil
}

// DeleteByOperation removes unit records last touched by the operation.
func (r *MarkRepo) DeleteByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error) {
	sql, args, err := r.builder().
		Delete(markTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"last_operation_id": operationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete mark codes: %w", err)
	}
	return result.RowsAffected(), nil
}

// ReleaseByOperation clears the back-reference of unit records last touched
// by the operation, leaving status and location as recorded.
func (r *MarkRepo) ReleaseByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error) {
	sql, args, err := r.builder().
		Update(markTable).
		Set("last_operation_id", nil).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"last_operation_id": operationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build release: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("release mark codes: %w", err)
	}
	return result.RowsAffected(), nil
}
