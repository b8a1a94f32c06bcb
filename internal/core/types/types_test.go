package types

import (
	"encoding/json"
	"testing"
)

func TestQuantity_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Quantity
	}{
		{"whole number", "3", NewQuantityFromInt(3)},
		{"decimal", "1.5", Quantity(15000)},
		{"four digits kept", "0.1234", Quantity(1234)},
		{"extra digits truncated", "0.12349", Quantity(1234)},
		{"negative", "-2.25", Quantity(-22500)},
		{"string form", `"7.5"`, Quantity(75000)},
		{"null is zero", "null", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			if err := json.Unmarshal([]byte(tt.in), &q); err != nil {
				t.Fatalf("unmarshal %q: %v", tt.in, err)
			}
			if q != tt.want {
				t.Errorf("unmarshal %q = %d, want %d", tt.in, q, tt.want)
			}
		})
	}
}

func TestQuantity_Marshal(t *testing.T) {
	data, err := json.Marshal(Quantity(15000))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "1.5000" {
		t.Errorf("marshal = %s, want 1.5000", data)
	}

	data, _ = json.Marshal(Quantity(-22500))
	if string(data) != "-2.2500" {
		t.Errorf("marshal negative = %s, want -2.2500", data)
	}
}

func TestQuantity_WholeAndUnits(t *testing.T) {
	if !NewQuantityFromInt(5).IsWhole() {
		t.Error("5 must be whole")
	}
	if Quantity(15000).IsWhole() {
		t.Error("1.5 must not be whole")
	}
	if got := NewQuantityFromInt(5).Units(); got != 5 {
		t.Errorf("Units() = %d, want 5", got)
	}
}

func TestQuantity_SignHelpers(t *testing.T) {
	q := NewQuantityFromInt(-3)
	if !q.IsNegative() || q.IsPositive() || q.IsZero() {
		t.Error("sign predicates wrong for -3")
	}
	if q.Neg() != NewQuantityFromInt(3) {
		t.Error("Neg must flip the sign")
	}
	if q.Abs() != NewQuantityFromInt(3) {
		t.Error("Abs must drop the sign")
	}
}
