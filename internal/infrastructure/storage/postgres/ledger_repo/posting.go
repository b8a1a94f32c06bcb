package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const postingTable = "ledger_stock_posting"

// postingCopyColumns is the column order used by the COPY protocol insert.
var postingCopyColumns = []string{
	"posting_id", "account_id", "recorder_id", "line_id", "recorder_version",
	"period", "record_type", "location_id", "variant_id",
	"quantity", "unit_price", "unit_cost", "created_at",
}

// PostingRepo implements ledger.PostingRepository. Postings are immutable:
// the only write paths are bulk insert and delete-by-recorder.
type PostingRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	cols      []string
}

// NewPostingRepo creates a new posting repository.
func NewPostingRepo(txManager *postgres.TxManager) *PostingRepo {
	return &PostingRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		cols:      postgres.ExtractDBColumns[ledger.StockPosting](),
	}
}

func (r *PostingRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreatePostings bulk-inserts postings with the COPY protocol.
func (r *PostingRepo) CreatePostings(ctx context.Context, postings []ledger.StockPosting) error {
	if len(postings) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(postings))
	for i := range postings {
		p := &postings[i]
		rows = append(rows, []any{
			p.PostingID, p.AccountID, p.RecorderID, p.LineID, p.RecorderVersion,
			p.Period, p.RecordType, p.LocationID, p.VariantID,
			p.Quantity, p.UnitPrice, p.UnitCost, p.CreatedAt,
		})
	}

	n, err := r.inserter.CopyFromSlice(ctx, postingTable, postingCopyColumns, rows)
	if err != nil {
		return fmt.Errorf("copy postings: %w", err)
	}
	if n != int64(len(postings)) {
		return fmt.Errorf("copy postings: inserted %d of %d rows", n, len(postings))
	}
	return nil
}

// DeleteByRecorder removes all postings created by the operation.
func (r *PostingRepo) DeleteByRecorder(ctx context.Context, accountID, recorderID id.ID) error {
	sql, args, err := r.builder().
		Delete(postingTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete postings: %w", err)
	}
	return nil
}

// GetByRecorder returns the operation's postings in creation order.
func (r *PostingRepo) GetByRecorder(ctx context.Context, accountID, recorderID id.ID) ([]ledger.StockPosting, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(postingTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("posting_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var postings []ledger.StockPosting
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &postings, sql, args...); err != nil {
		return nil, fmt.Errorf("get postings: %w", err)
	}
	return postings, nil
}
