package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/pkg/pagination"
)

// CatalogRepository defines data access for the menu read model. The catalog
// is synced from the upstream platform in bulk and read by the kiosks.
type CatalogRepository interface {
	ListCategories(ctx context.Context, branchID uuid.UUID) ([]entity.Category, error)
	ListProducts(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// GetProduct loads a product with its variants and options preloaded.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetVariants loads the variants, with options, for the given variant ids
	// in a single query.
	GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error)
	// UpsertCategories replaces the catalog subtree for a branch from an
	// upstream sync payload, in one transaction.
	UpsertCategories(ctx context.Context, branchID uuid.UUID, categories []entity.Category) error
}

// ProductFilterParams contains filtering parameters for menu queries.
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	BranchID   *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	SortBy     string
	SortOrder  string
	// ActiveOnly hides INACTIVE and SOLD_OUT entries.
	ActiveOnly bool
}
