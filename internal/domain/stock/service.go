// Package stock provides derived quantity-on-hand queries. Balances are
// always computed fresh by summing signed postings; nothing is cached.
package stock

import (
	"context"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Balance is the on-hand quantity for one (variant, location) pair.
type Balance struct {
	VariantID  id.ID          `db:"variant_id" json:"variantId"`
	LocationID id.ID          `db:"location_id" json:"locationId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
}

// TurnoverRow aggregates receipts and expenses over a period.
type TurnoverRow struct {
	VariantID  id.ID          `db:"variant_id" json:"variantId"`
	LocationID id.ID          `db:"location_id" json:"locationId"`
	Receipt    types.Quantity `db:"receipt" json:"receipt"`
	Expense    types.Quantity `db:"expense" json:"expense"`
}

// Net returns receipts minus expenses.
func (r *TurnoverRow) Net() types.Quantity {
	return r.Receipt - r.Expense
}

// Repository reads posting aggregates.
type Repository interface {
	// OnHand returns the signed posting sum for one (variant, location).
	OnHand(ctx context.Context, accountID, variantID, locationID id.ID) (types.Quantity, error)

	// OnHandAt is OnHand bounded to postings with period <= at.
	OnHandAt(ctx context.Context, accountID, variantID, locationID id.ID, at time.Time) (types.Quantity, error)

	// LocationBalances returns non-zero balances for every variant at
	// the location.
	LocationBalances(ctx context.Context, accountID, locationID id.ID) ([]Balance, error)

	// VariantBalances returns non-zero balances for the variant across
	// all locations.
	VariantBalances(ctx context.Context, accountID, variantID id.ID) ([]Balance, error)

	// Turnover aggregates receipts and expenses per (variant, location)
	// over [from, to).
	Turnover(ctx context.Context, accountID id.ID, from, to time.Time) ([]TurnoverRow, error)
}

// Service exposes stock queries to transport.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) OnHand(ctx context.Context, accountID, variantID, locationID id.ID) (types.Quantity, error) {
	return s.repo.OnHand(ctx, accountID, variantID, locationID)
}

func (s *Service) OnHandAt(ctx context.Context, accountID, variantID, locationID id.ID, at time.Time) (types.Quantity, error) {
	return s.repo.OnHandAt(ctx, accountID, variantID, locationID, at)
}

func (s *Service) LocationBalances(ctx context.Context, accountID, locationID id.ID) ([]Balance, error) {
	return s.repo.LocationBalances(ctx, accountID, locationID)
}

func (s *Service) VariantBalances(ctx context.Context, accountID, variantID id.ID) ([]Balance, error) {
	return s.repo.VariantBalances(ctx, accountID, variantID)
}

func (s *Service) Turnover(ctx context.Context, accountID id.ID, from, to time.Time) ([]TurnoverRow, error) {
	return s.repo.Turnover(ctx, accountID, from, to)
}
