package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/gainschef/backend/pkg/db/models"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveBySlugs(ctx context.Context, slugs []string) ([]models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
}

// Service resolves cart product references against the catalog.
type Service interface {
	ResolveProducts(ctx context.Context, slugs []string) (map[string]models.Product, error)
}
