package party

import (
	"stockbook/internal/domain"
)

// Repository defines the interface for Party persistence.
type Repository interface {
	domain.CatalogRepository[*Party]
}
