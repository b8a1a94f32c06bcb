package ledger

import (
	"context"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// OperationFilter narrows operation listings.
type OperationFilter struct {
	domain.ListFilter

	Type       *OperationType
	PartyID    *id.ID
	LocationID *id.ID
	From       *time.Time
	To         *time.Time
}

// OperationRepository persists operation headers and their lines.
type OperationRepository interface {
	Create(ctx context.Context, op *Operation) error
	Update(ctx context.Context, op *Operation) error
	GetByID(ctx context.Context, accountID, operationID id.ID) (*Operation, error)
	Delete(ctx context.Context, accountID, operationID id.ID) error
	List(ctx context.Context, accountID id.ID, filter OperationFilter) (domain.ListResult[*Operation], error)

	GetLines(ctx context.Context, accountID, operationID id.ID) ([]OperationLine, error)
	SaveLines(ctx context.Context, accountID id.ID, lines []OperationLine) error
	DeleteLines(ctx context.Context, accountID, operationID id.ID) error

	// LockAccount takes the per-account ledger write lock for the duration
	// of the surrounding transaction. Mutations on the same account never
	// interleave their postings-and-marks phases.
	LockAccount(ctx context.Context, accountID id.ID) error
}

// PostingRepository persists immutable stock postings.
type PostingRepository interface {
	CreatePostings(ctx context.Context, postings []StockPosting) error
	DeleteByRecorder(ctx context.Context, accountID, recorderID id.ID) error
	GetByRecorder(ctx context.Context, accountID, recorderID id.ID) ([]StockPosting, error)
}

// MarkRepository persists serialized-unit records. Upsert is keyed by
// (account, code): a known code is overwritten, a new one is created.
type MarkRepository interface {
	Upsert(ctx context.Context, mark *MarkCode) error
	GetByCode(ctx context.Context, accountID id.ID, code string) (*MarkCode, error)
	ListByOperation(ctx context.Context, accountID, operationID id.ID) ([]MarkCode, error)

	// DeleteByOperation removes records last touched by the operation.
	// Used by replace, which recreates unit state from the new payload.
	DeleteByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error)

	// ReleaseByOperation clears the back-reference without touching
	// status or location. Used by delete.
	ReleaseByOperation(ctx context.Context, accountID, operationID id.ID) (int64, error)
}
