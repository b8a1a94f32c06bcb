package party

import (
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the Party catalog.
type Service struct {
	*domain.CatalogService[*Party]
	repo Repository
}

// NewService creates a new Party service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Party]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "party",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
