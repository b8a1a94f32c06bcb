// Package directory_repo provides PostgreSQL repositories for the
// location and counterparty directory.
package directory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/directory/location"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
)

const locationTable = "dir_location"

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*catalog_repo.BaseCatalogRepo[*location.Location]
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(
			txManager,
			locationTable,
			postgres.ExtractDBColumns[location.Location](),
			func() *location.Location { return &location.Location{} },
		),
	}
}

// GetDefaultByKind returns the account's default location of the kind.
// Falls back to the oldest location of the kind when none is flagged.
func (r *LocationRepo) GetDefaultByKind(ctx context.Context, accountID id.ID, kind location.Kind) (*location.Location, error) {
	q := r.BaseSelect(accountID).
		Where(squirrel.Eq{"kind": kind}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("is_default DESC", "code ASC").
		Limit(1)

	loc, err := r.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// GetBloggerByParty returns the blogger location tied to the counterparty.
func (r *LocationRepo) GetBloggerByParty(ctx context.Context, accountID, partyID id.ID) (*location.Location, error) {
	q := r.BaseSelect(accountID).
		Where(squirrel.Eq{"kind": location.KindBlogger}).
		Where(squirrel.Eq{"party_id": partyID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	loc, err := r.FindOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("blogger location by party: %w", err)
	}
	return loc, nil
}
