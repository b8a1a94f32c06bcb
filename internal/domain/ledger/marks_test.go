package ledger

import (
	"testing"

	"stockbook/internal/core/apperror"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		opType OperationType
		want   MarkStatus
	}{
		{TypeShipBlogger, MarkAtBlogger},
		{TypeSale, MarkSold},
		{TypeWriteOff, MarkWrittenOff},
		{TypeInbound, MarkInStock},
		{TypeTransfer, MarkInStock},
		{TypeReturnBlogger, MarkInStock},
		{TypeSaleReturn, MarkInStock},
		{TypeAdjustment, MarkInStock},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.opType); got != tt.want {
			t.Errorf("StatusFor(%s) = %s, want %s", tt.opType, got, tt.want)
		}
	}
}

func TestValidateMarkCodes(t *testing.T) {
	tests := []struct {
		name     string
		codes    []string
		qty      int
		wantCode string
	}{
		{"exact match passes", []string{"A1", "A2", "A3"}, 3, ""},
		{"too few codes", []string{"A1"}, 2, apperror.CodeMarkCountMismatch},
		{"too many codes", []string{"A1", "A2"}, 1, apperror.CodeMarkCountMismatch},
		{"duplicate code", []string{"A1", "A1"}, 2, apperror.CodeMarkDuplicate},
		{"empty code", []string{"A1", "  "}, 2, apperror.CodeValidation},
		{"zero quantity zero codes", nil, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMarkCodes(tt.codes, tt.qty)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestAnnotateDeferred(t *testing.T) {
	if got := AnnotateDeferred(""); got != DeferredMarkingNote {
		t.Errorf("empty note: got %q", got)
	}
	if got := AnnotateDeferred("damaged box"); got != "damaged box "+DeferredMarkingNote {
		t.Errorf("non-empty note: got %q", got)
	}
	// Annotating twice must not stack markers
	once := AnnotateDeferred("note")
	if got := AnnotateDeferred(once); got != once {
		t.Errorf("repeated annotation changed the note: %q", got)
	}
}
