package ledger

import (
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// RecordType defines movement direction for stock postings.
type RecordType string

const (
	// RecordTypeReceipt increases the balance at a location
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases the balance at a location
	RecordTypeExpense RecordType = "expense"
)

// StockPosting is one signed quantity movement of a variant at a location,
// always originating from an operation line. Postings are immutable: a
// replace deletes and recreates them, never updates in place.
//
// On-hand quantity per (variant, location) is the running sum of signed
// postings. It is never stored independently.
type StockPosting struct {
	// PostingID is the unique identifier for this posting row (UUIDv7)
	PostingID id.ID `db:"posting_id" json:"postingId"`

	// AccountID scopes the posting to its owning account
	AccountID id.ID `db:"account_id" json:"accountId"`

	// RecorderID is the operation that created this posting
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// LineID is the operation line this posting derives from
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderVersion tracks which submit iteration created this posting
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business timestamp (the operation's OccurredAt)
	Period time.Time `db:"period" json:"period"`

	RecordType RecordType `db:"record_type" json:"recordType"`

	// Dimensions
	LocationID id.ID `db:"location_id" json:"locationId"`
	VariantID  id.ID `db:"variant_id" json:"variantId"`

	// Resources. Quantity is always positive; sign comes from RecordType.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Frozen snapshots, rewritten only by the price recalculation engine
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`
	UnitCost  types.MinorUnits `db:"unit_cost" json:"unitCost"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (p *StockPosting) SignedQuantity() types.Quantity {
	if p.RecordType == RecordTypeExpense {
		return p.Quantity.Neg()
	}
	return p.Quantity
}

// newPosting stamps the shared posting fields from the operation and line.
func newPosting(op *Operation, line *OperationLine, rt RecordType, locationID id.ID, qty types.Quantity) StockPosting {
	return StockPosting{
		PostingID:       id.New(),
		AccountID:       op.AccountID,
		RecorderID:      op.ID,
		LineID:          line.LineID,
		RecorderVersion: op.Version,
		Period:          op.OccurredAt,
		RecordType:      rt,
		LocationID:      locationID,
		VariantID:       line.VariantID,
		Quantity:        qty,
		UnitPrice:       line.UnitPrice,
		UnitCost:        line.UnitCost,
		CreatedAt:       time.Now().UTC(),
	}
}

// BuildPostings converts an operation's lines into stock postings according
// to the operation type. The operation must already have resolved endpoints.
//
// Shapes:
//   - inbound: one receipt at destination per line
//   - transfer-shaped types: an expense at source and a receipt at
//     destination per line, emitted as one pair so their signed sum is zero
//   - adjustment: one posting of arbitrary sign at whichever endpoint is
//     present; a zero delta is rejected as meaningless
func BuildPostings(op *Operation) ([]StockPosting, error) {
	postings := make([]StockPosting, 0, len(op.Lines)*2)

	for i := range op.Lines {
		line := &op.Lines[i]

		switch {
		case op.Type == TypeInbound:
			if op.DestinationID == nil {
				return nil, apperror.NewMissingEndpoint(string(op.Type), "destination")
			}
			postings = append(postings, newPosting(op, line, RecordTypeReceipt, *op.DestinationID, line.Quantity))

		case op.Type.IsTransferShaped():
			if op.SourceID == nil {
				return nil, apperror.NewMissingEndpoint(string(op.Type), "source")
			}
			if op.DestinationID == nil {
				return nil, apperror.NewMissingEndpoint(string(op.Type), "destination")
			}
			postings = append(postings,
				newPosting(op, line, RecordTypeExpense, *op.SourceID, line.Quantity),
				newPosting(op, line, RecordTypeReceipt, *op.DestinationID, line.Quantity),
			)

		case op.Type == TypeAdjustment:
			loc := op.PostingLocation()
			if loc == nil {
				return nil, apperror.NewMissingEndpoint(string(op.Type), "source or destination")
			}
			delta := line.AdjustmentDelta()
			if delta.IsZero() {
				return nil, &apperror.AppError{
					Code:       apperror.CodeZeroAdjustment,
					Message:    "adjustment delta of zero is meaningless",
					HTTPStatus: 400,
				}
			}
			rt := RecordTypeReceipt
			if delta.IsNegative() {
				rt = RecordTypeExpense
			}
			postings = append(postings, newPosting(op, line, rt, *loc, delta.Abs()))

		default:
			return nil, apperror.NewValidation("unknown operation type").
				WithDetail("type", string(op.Type))
		}
	}

	return postings, nil
}
