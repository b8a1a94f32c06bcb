package pricing

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/pkg/logger"
)

// Service is the price recalculation engine.
type Service struct {
	txManager tx.Manager
	repo      Repository
	variants  variant.Repository
	locker    AccountLocker
}

func NewService(txManager tx.Manager, repo Repository, variants variant.Repository, locker AccountLocker) *Service {
	return &Service{
		txManager: txManager,
		repo:      repo,
		variants:  variants,
		locker:    locker,
	}
}

// Reprice applies a new effective-dated price to a variant and rewrites all
// line and posting snapshots dated at or after the effective timestamp, so
// every snapshot reflects what the price was when the record occurred.
//
// The whole recalculation runs as one bounded transaction. The window of
// touched rows is unbounded by design: callers block until every historical
// row from the effective date forward is rewritten.
func (s *Service) Reprice(ctx context.Context, accountID, variantID id.ID, newPrice types.MinorUnits, effectiveAt time.Time) (RepriceResult, error) {
	var result RepriceResult

	if newPrice < 0 {
		return result, apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}
	if effectiveAt.IsZero() {
		return result, apperror.NewValidation("effectiveAt is required").
			WithDetail("field", "effectiveAt")
	}

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if err := s.locker.LockAccount(ctx, accountID); err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		v, err := s.variants.GetByID(ctx, accountID, variantID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("variant", variantID.String())
			}
			return err
		}

		// First reprice seeds the history at the epoch with the live
		// price, so records older than any entry still resolve.
		hasHistory, err := s.repo.HasHistory(ctx, accountID, variantID)
		if err != nil {
			return err
		}
		if !hasHistory {
			seed := NewHistoryEntry(accountID, variantID, v.Price, Epoch)
			if err := s.repo.Upsert(ctx, seed); err != nil {
				return fmt.Errorf("seed history: %w", err)
			}
		}

		entry := NewHistoryEntry(accountID, variantID, newPrice, effectiveAt)
		if err := s.repo.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("upsert history entry: %w", err)
		}

		result.LinesRecalculated, err = s.repo.RecalculateLineSnapshots(ctx, accountID, variantID, entry.EffectiveAt)
		if err != nil {
			return fmt.Errorf("recalculate lines: %w", err)
		}
		result.PostingsRecalculated, err = s.repo.RecalculatePostingSnapshots(ctx, accountID, variantID, entry.EffectiveAt)
		if err != nil {
			return fmt.Errorf("recalculate postings: %w", err)
		}

		// Refresh the cached current price: latest entry not in the future.
		current, ok, err := s.repo.PriceAt(ctx, accountID, variantID, time.Now().UTC())
		if err != nil {
			return err
		}
		if ok {
			if err := s.variants.UpdatePrice(ctx, accountID, variantID, current); err != nil {
				return fmt.Errorf("update cached price: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return RepriceResult{}, err
	}

	logger.Info(ctx, "variant repriced",
		"variant_id", variantID,
		"price", newPrice,
		"effective_at", effectiveAt,
		"lines_recalculated", result.LinesRecalculated,
		"postings_recalculated", result.PostingsRecalculated,
	)

	return result, nil
}

// History returns the variant's price history, newest first.
func (s *Service) History(ctx context.Context, accountID, variantID id.ID) ([]HistoryEntry, error) {
	return s.repo.ListByVariant(ctx, accountID, variantID)
}

// PriceAt exposes effective-dated lookup for line enrichment.
func (s *Service) PriceAt(ctx context.Context, accountID, variantID id.ID, at time.Time) (types.MinorUnits, bool, error) {
	return s.repo.PriceAt(ctx, accountID, variantID, at)
}
