// Package ledger_repo provides PostgreSQL persistence for the operation
// ledger: headers, lines, stock postings and serialized-unit records.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	operationTable = "ledger_operation"
	lineTable      = "ledger_operation_line"
)

// OperationRepo implements ledger.OperationRepository.
type OperationRepo struct {
	txManager *postgres.TxManager

	headerCols []string
	lineCols   []string
}

// NewOperationRepo creates a new operation repository.
func NewOperationRepo(txManager *postgres.TxManager) *OperationRepo {
	return &OperationRepo{
		txManager:  txManager,
		headerCols: postgres.ExtractDBColumns[ledger.Operation](),
		lineCols:   postgres.ExtractDBColumns[ledger.OperationLine](),
	}
}

func (r *OperationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// LockAccount takes the per-account ledger write lock.
func (r *OperationRepo) LockAccount(ctx context.Context, accountID id.ID) error {
	return r.txManager.LockAccount(ctx, accountID)
}

// Create inserts the operation header.
func (r *OperationRepo) Create(ctx context.Context, op *ledger.Operation) error {
	data := postgres.StructToMap(op)

	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(operationTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// Update rewrites the header with optimistic locking. On success the
// in-memory version is bumped to match the stored row.
func (r *OperationRepo) Update(ctx context.Context, op *ledger.Operation) error {
	data := postgres.StructToMap(op)

	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if col == "id" || col == "account_id" || col == "version" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update(operationTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": op.ID}).
		Where(squirrel.Eq{"account_id": op.AccountID}).
		Where(squirrel.Eq{"version": op.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("operation", op.ID.String())
	}

	op.SetVersion(op.Version + 1)
	return nil
}

// GetByID loads the header and its lines.
func (r *OperationRepo) GetByID(ctx context.Context, accountID, operationID id.ID) (*ledger.Operation, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(operationTable).
		Where(squirrel.Eq{"id": operationID}).
		Where(squirrel.Eq{"account_id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	op := &ledger.Operation{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, op, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("operation", operationID.String())
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}

	lines, err := r.GetLines(ctx, accountID, operationID)
	if err != nil {
		return nil, err
	}
	op.Lines = lines

	return op, nil
}

// GetLines returns the operation's lines ordered by line number.
func (r *OperationRepo) GetLines(ctx context.Context, accountID, operationID id.ID) ([]ledger.OperationLine, error) {
	sql, args, err := r.builder().
		Select(r.lineCols...).
		From(lineTable).
		Where(squirrel.Eq{"operation_id": operationID}).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []ledger.OperationLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines inserts the operation's lines in one statement.
func (r *OperationRepo) SaveLines(ctx context.Context, accountID id.ID, lines []ledger.OperationLine) error {
	if len(lines) == 0 {
		return nil
	}

	cols := append([]string{"account_id"}, r.lineCols...)
	q := r.builder().Insert(lineTable).Columns(cols...)

	for i := range lines {
		data := postgres.StructToMap(&lines[i])
		row := make([]any, 0, len(cols))
		row = append(row, accountID)
		for _, col := range r.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// DeleteLines removes all lines of the operation.
func (r *OperationRepo) DeleteLines(ctx context.Context, accountID, operationID id.ID) error {
	sql, args, err := r.builder().
		Delete(lineTable).
		Where(squirrel.Eq{"operation_id": operationID}).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

// Delete removes the operation header.
func (r *OperationRepo) Delete(ctx context.Context, accountID, operationID id.ID) error {
	sql, args, err := r.builder().
		Delete(operationTable).
		Where(squirrel.Eq{"id": operationID}).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("operation", operationID.String())
	}
	return nil
}

// List returns operations matching the filter, newest first, without lines.
func (r *OperationRepo) List(ctx context.Context, accountID id.ID, filter ledger.OperationFilter) (domain.ListResult[*ledger.Operation], error) {
	result := domain.ListResult[*ledger.Operation]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.headerCols...).
		From(operationTable).
		Where(squirrel.Eq{"account_id": accountID})

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.PartyID != nil {
		q = q.Where(squirrel.Eq{"party_id": *filter.PartyID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"source_id": *filter.LocationID},
			squirrel.Eq{"destination_id": *filter.LocationID},
		})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"occurred_at": *filter.To})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"note": pattern},
		})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("occurred_at DESC", "number DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list operations: %w", err)
	}

	return result, nil
}
