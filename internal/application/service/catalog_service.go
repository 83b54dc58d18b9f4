package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/pkg/apperror"
	"github.com/qmenu/selforder-api/pkg/pagination"
)

// CatalogService serves the menu read model to the kiosks and applies bulk
// syncs from the ordering platform.
type CatalogService struct {
	catalogRepo domainRepo.CatalogRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo domainRepo.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListCategories returns the categories of a branch, ordered for display
func (s *CatalogService) ListCategories(ctx context.Context, branchID uuid.UUID) ([]entity.Category, error) {
	return s.catalogRepo.ListCategories(ctx, branchID)
}

// ListProductsInput represents the menu listing input
type ListProductsInput struct {
	BranchID   uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	Pagination *pagination.PaginationParams
}

// ListProducts returns the orderable products of a branch, paginated
func (s *CatalogService) ListProducts(ctx context.Context, input *ListProductsInput) (*pagination.PaginatedResult[entity.Product], error) {
	params := input.Pagination
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	products, total, err := s.catalogRepo.ListProducts(ctx, &domainRepo.ProductFilterParams{
		Pagination: params,
		BranchID:   &input.BranchID,
		CategoryID: input.CategoryID,
		Search:     input.Search,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	meta := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, meta), nil
}

// GetProduct retrieves a product with its variants and options
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.catalogRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// SyncCatalog replaces the branch's menu from a platform sync payload.
// Categories absent from the payload are soft deleted.
func (s *CatalogService) SyncCatalog(ctx context.Context, branchID uuid.UUID, categories []entity.Category) error {
	if err := s.catalogRepo.UpsertCategories(ctx, branchID, categories); err != nil {
		return err
	}
	s.logger.Info("catalog synced",
		zap.String("branch_id", branchID.String()),
		zap.Int("categories", len(categories)))
	return nil
}
