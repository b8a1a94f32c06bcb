package ledger

import (
	"testing"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

func testOperation(opType OperationType) *Operation {
	op := NewOperation(id.New(), opType, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
	op.Lines = []OperationLine{
		{
			LineID:    id.New(),
			LineNo:    1,
			VariantID: id.New(),
			Quantity:  types.NewQuantityFromInt(3),
			UnitPrice: 1500,
			UnitCost:  900,
		},
	}
	return op
}

func withEndpoints(op *Operation, source, dest bool) *Operation {
	if source {
		src := id.New()
		op.SourceID = &src
	}
	if dest {
		dst := id.New()
		op.DestinationID = &dst
	}
	return op
}

func TestBuildPostings_Inbound(t *testing.T) {
	op := withEndpoints(testOperation(TypeInbound), false, true)

	postings, err := BuildPostings(op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}

	p := postings[0]
	if p.RecordType != RecordTypeReceipt {
		t.Errorf("expected receipt, got %s", p.RecordType)
	}
	if p.LocationID != *op.DestinationID {
		t.Error("posting must land at the destination")
	}
	if p.Quantity != types.NewQuantityFromInt(3) {
		t.Errorf("quantity mismatch: %v", p.Quantity)
	}
	if p.UnitPrice != 1500 || p.UnitCost != 900 {
		t.Error("snapshots must be copied from the line")
	}
	if p.RecorderID != op.ID {
		t.Error("posting must reference the recorder operation")
	}
	if !p.Period.Equal(op.OccurredAt) {
		t.Error("period must be the operation business timestamp")
	}
}

func TestBuildPostings_TransferShapedConservation(t *testing.T) {
	for _, opType := range []OperationType{
		TypeTransfer, TypeShipBlogger, TypeReturnBlogger,
		TypeSale, TypeSaleReturn, TypeWriteOff,
	} {
		t.Run(string(opType), func(t *testing.T) {
			op := withEndpoints(testOperation(opType), true, true)

			postings, err := BuildPostings(op)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(postings) != 2 {
				t.Fatalf("expected expense/receipt pair, got %d postings", len(postings))
			}

			var sum types.Quantity
			for i := range postings {
				sum += postings[i].SignedQuantity()
			}
			if !sum.IsZero() {
				t.Errorf("signed sum must be zero, got %v", sum)
			}

			if postings[0].RecordType != RecordTypeExpense || postings[0].LocationID != *op.SourceID {
				t.Error("first posting must be the expense at source")
			}
			if postings[1].RecordType != RecordTypeReceipt || postings[1].LocationID != *op.DestinationID {
				t.Error("second posting must be the receipt at destination")
			}
		})
	}
}

func TestBuildPostings_TransferMissingEndpoint(t *testing.T) {
	op := withEndpoints(testOperation(TypeTransfer), true, false)

	_, err := BuildPostings(op)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeMissingEndpoint {
		t.Fatalf("expected missing endpoint error, got %v", err)
	}
}

func TestBuildPostings_AdjustmentSigns(t *testing.T) {
	negative := types.NewQuantityFromInt(-2)

	tests := []struct {
		name     string
		delta    *types.Quantity
		wantType RecordType
		wantQty  types.Quantity
	}{
		{"positive delta posts a receipt", nil, RecordTypeReceipt, types.NewQuantityFromInt(3)},
		{"negative delta posts an expense", &negative, RecordTypeExpense, types.NewQuantityFromInt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := withEndpoints(testOperation(TypeAdjustment), false, true)
			op.Lines[0].Delta = tt.delta

			postings, err := BuildPostings(op)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(postings) != 1 {
				t.Fatalf("expected 1 posting, got %d", len(postings))
			}
			if postings[0].RecordType != tt.wantType {
				t.Errorf("record type = %s, want %s", postings[0].RecordType, tt.wantType)
			}
			if postings[0].Quantity != tt.wantQty {
				t.Errorf("stored quantity must be the absolute delta, got %v", postings[0].Quantity)
			}
		})
	}
}

func TestBuildPostings_AdjustmentFallsBackToSource(t *testing.T) {
	op := withEndpoints(testOperation(TypeAdjustment), true, false)

	postings, err := BuildPostings(op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postings[0].LocationID != *op.SourceID {
		t.Error("adjustment without destination must post at source")
	}
}

func TestBuildPostings_ZeroAdjustmentRejected(t *testing.T) {
	zero := types.Quantity(0)
	op := withEndpoints(testOperation(TypeAdjustment), false, true)
	op.Lines[0].Delta = &zero

	_, err := BuildPostings(op)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeZeroAdjustment {
		t.Fatalf("expected zero adjustment error, got %v", err)
	}
}
