package variant

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

// Service provides business logic for the Variant catalog.
type Service struct {
	*domain.CatalogService[*Variant]
	repo Repository
}

// NewService creates a new Variant service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Variant]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "variant",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// Lookup resolves a variant and reports its price, cost and serialization
// flag. This is the variant side of operation line enrichment.
func (s *Service) Lookup(ctx context.Context, accountID, variantID id.ID) (*Variant, error) {
	v, err := s.repo.GetByID(ctx, accountID, variantID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("variant", variantID.String())
		}
		return nil, err
	}
	return v, nil
}

// CurrentPrice returns the cached current price for a variant.
func (s *Service) CurrentPrice(ctx context.Context, accountID, variantID id.ID) (types.MinorUnits, error) {
	v, err := s.Lookup(ctx, accountID, variantID)
	if err != nil {
		return 0, err
	}
	return v.Price, nil
}
