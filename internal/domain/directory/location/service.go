package location

import (
	"context"
	"fmt"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
	"stockbook/internal/domain/directory/party"
	"stockbook/pkg/logger"
)

// Service provides business logic for the Location catalog.
type Service struct {
	*domain.CatalogService[*Location]
	repo      Repository
	parties   party.Repository
	txManager tx.Manager
}

// NewService creates a new Location service.
func NewService(repo Repository, parties party.Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Location]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "location",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		parties:        parties,
		txManager:      txManager,
	}
}

// DefaultByKind returns the account's default location of the given kind.
func (s *Service) DefaultByKind(ctx context.Context, accountID id.ID, kind Kind) (*Location, error) {
	loc, err := s.repo.GetDefaultByKind(ctx, accountID, kind)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("default location", string(kind))
		}
		return nil, err
	}
	return loc, nil
}

// GetOrCreateBloggerLocation returns the blogger location tied to the
// counterparty, creating one named after the counterparty when none exists.
// Repeated shipments to the same blogger reuse the same location.
func (s *Service) GetOrCreateBloggerLocation(ctx context.Context, accountID, partyID id.ID) (*Location, error) {
	loc, err := s.repo.GetBloggerByParty(ctx, accountID, partyID)
	if err == nil {
		return loc, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("lookup blogger location: %w", err)
	}

	p, err := s.parties.GetByID(ctx, accountID, partyID)
	if err != nil {
		return nil, err
	}

	loc = NewBlogger(accountID, partyID, p.Name)
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("create blogger location: %w", err)
	}

	logger.Info(ctx, "blogger location created",
		"location_id", loc.ID,
		"party_id", partyID,
	)

	return loc, nil
}

// EnsureDefaults creates the account's built-in locations (main warehouse,
// sold, scrap) if they do not exist yet. Called once at account registration.
func (s *Service) EnsureDefaults(ctx context.Context, accountID id.ID) error {
	defaults := []struct {
		kind Kind
		code string
		name string
	}{
		{KindWarehouse, "WH-MAIN", "Main warehouse"},
		{KindSold, "SOLD", "Sold to customers"},
		{KindScrap, "SCRAP", "Write-off"},
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, d := range defaults {
			_, err := s.repo.GetDefaultByKind(ctx, accountID, d.kind)
			if err == nil {
				continue
			}
			if !apperror.IsNotFound(err) {
				return err
			}

			loc := New(accountID, d.code, d.name, d.kind)
			loc.IsDefault = true
			if err := s.repo.Create(ctx, loc); err != nil {
				return fmt.Errorf("create default %s location: %w", d.kind, err)
			}
		}
		return nil
	})
}
