package ledger

import (
	"context"
	"strings"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// MarkStatus is the lifecycle state of one serialized unit.
type MarkStatus string

const (
	MarkInStock    MarkStatus = "in_stock"
	MarkAtBlogger  MarkStatus = "at_blogger"
	MarkSold       MarkStatus = "sold"
	MarkReturned   MarkStatus = "returned"
	MarkWrittenOff MarkStatus = "written_off"
	MarkUnknown    MarkStatus = "unknown"
)

// StatusFor maps an operation type to the mark status it implies.
// There is no transition table: any operation may move a unit to any
// status, last writer wins.
func StatusFor(t OperationType) MarkStatus {
	switch t {
	case TypeShipBlogger:
		return MarkAtBlogger
	case TypeSale:
		return MarkSold
	case TypeWriteOff:
		return MarkWrittenOff
	default:
		return MarkInStock
	}
}

// MarkCode is the persistent record of one individually tracked unit.
// A record is created on first sighting and kept forever; operations
// overwrite its status, location and back-reference.
type MarkCode struct {
	ID        id.ID `db:"id" json:"id"`
	AccountID id.ID `db:"account_id" json:"accountId"`

	Code      string `db:"code" json:"code"`
	VariantID id.ID  `db:"variant_id" json:"variantId"`

	Status     MarkStatus `db:"status" json:"status"`
	LocationID *id.ID     `db:"location_id" json:"locationId,omitempty"`

	// LastOperationID points at the operation that last touched this unit.
	// Replace deletes records with this back-reference; delete only clears it.
	LastOperationID *id.ID `db:"last_operation_id" json:"lastOperationId,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DeferredMarkingNote is appended to a line note when the caller skipped
// serialized-unit handling, so the line stays discoverable for manual fixup.
const DeferredMarkingNote = "[marking deferred]"

// AnnotateDeferred appends the deferred-marking marker to a line note.
func AnnotateDeferred(note string) string {
	if strings.Contains(note, DeferredMarkingNote) {
		return note
	}
	if note == "" {
		return DeferredMarkingNote
	}
	return note + " " + DeferredMarkingNote
}

// ValidateMarkCodes checks that a serialized line carries exactly qty
// distinct codes. Quantity must be whole: fractional serialized units
// make no sense.
func ValidateMarkCodes(codes []string, qtyUnits int) error {
	if len(codes) != qtyUnits {
		return apperror.NewMarkCountMismatch(qtyUnits, len(codes))
	}

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			return apperror.NewValidation("mark code must not be empty")
		}
		if _, dup := seen[code]; dup {
			return apperror.NewMarkDuplicate(code)
		}
		seen[code] = struct{}{}
	}
	return nil
}

// MarkTracker applies an operation's serialized lines to the unit records.
type MarkTracker struct {
	marks MarkRepository
}

func NewMarkTracker(marks MarkRepository) *MarkTracker {
	return &MarkTracker{marks: marks}
}

// Apply upserts one unit record per code on the line. The resulting status
// comes from the operation type, the location from the posting endpoint.
// Codes must already be validated.
func (t *MarkTracker) Apply(ctx context.Context, op *Operation, line *OperationLine) error {
	status := StatusFor(op.Type)
	locationID := op.PostingLocation()
	now := time.Now().UTC()

	for _, code := range line.MarkCodes {
		mark := &MarkCode{
			ID:              id.New(),
			AccountID:       op.AccountID,
			Code:            strings.TrimSpace(code),
			VariantID:       line.VariantID,
			Status:          status,
			LocationID:      locationID,
			LastOperationID: &op.ID,
			UpdatedAt:       now,
		}
		if err := t.marks.Upsert(ctx, mark); err != nil {
			return err
		}
	}
	return nil
}
