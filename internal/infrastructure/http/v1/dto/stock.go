package dto

import (
	"stockbook/internal/core/types"
	"stockbook/internal/domain/stock"
)

// OnHandResponse is the balance for one (variant, location) pair.
type OnHandResponse struct {
	VariantID  string         `json:"variantId"`
	LocationID string         `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
}

// BalanceResponse is one row of a balance report.
type BalanceResponse struct {
	VariantID  string         `json:"variantId"`
	LocationID string         `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
}

// FromBalances maps balance rows to their API view.
func FromBalances(balances []stock.Balance) []BalanceResponse {
	out := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = BalanceResponse{
			VariantID:  b.VariantID.String(),
			LocationID: b.LocationID.String(),
			Quantity:   b.Quantity,
		}
	}
	return out
}

// TurnoverRowResponse is one row of a turnover report.
type TurnoverRowResponse struct {
	VariantID  string         `json:"variantId"`
	LocationID string         `json:"locationId"`
	Receipt    types.Quantity `json:"receipt"`
	Expense    types.Quantity `json:"expense"`
	Net        types.Quantity `json:"net"`
}

// FromTurnover maps turnover rows to their API view.
func FromTurnover(rows []stock.TurnoverRow) []TurnoverRowResponse {
	out := make([]TurnoverRowResponse, len(rows))
	for i, r := range rows {
		out[i] = TurnoverRowResponse{
			VariantID:  r.VariantID.String(),
			LocationID: r.LocationID.String(),
			Receipt:    r.Receipt,
			Expense:    r.Expense,
			Net:        r.Net(),
		}
	}
	return out
}
