package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/internal/infrastructure/storage/postgres"
)

const variantTable = "cat_variant"

// VariantRepo implements variant.Repository.
type VariantRepo struct {
	*BaseCatalogRepo[*variant.Variant]
}

// NewVariantRepo creates a new variant repository.
func NewVariantRepo(txManager *postgres.TxManager) *VariantRepo {
	return &VariantRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			variantTable,
			postgres.ExtractDBColumns[variant.Variant](),
			func() *variant.Variant { return &variant.Variant{} },
		),
	}
}

// UpdatePrice overwrites the cached current price. Bypasses optimistic
// locking: the recalculation engine already holds the account write lock.
func (r *VariantRepo) UpdatePrice(ctx context.Context, accountID, variantID id.ID, price types.MinorUnits) error {
	q := r.Builder().
		Update(variantTable).
		Set("price", price).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": variantID}).
		Where(squirrel.Eq{"account_id": accountID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update price: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(variantTable, variantID.String())
	}
	return nil
}
