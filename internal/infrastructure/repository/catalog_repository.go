package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/enum"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context, branchID uuid.UUID) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID, true).
		Order("sort ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *catalogRepository) ListProducts(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if params.BranchID != nil {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.branch_id = ?", *params.BranchID)
	}

	if params.CategoryID != nil {
		query = query.Where("products.category_id = ?", *params.CategoryID)
	}

	if params.Search != "" {
		query = query.Where("products.name ILIKE ?", "%"+params.Search+"%")
	}

	if params.ActiveOnly {
		query = query.Where("products.state = ?", enum.MenuStateActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "sort"
	if params.SortBy == "name" {
		sortBy = "name"
	}
	order := "ASC"
	if params.SortOrder == "desc" {
		order = "DESC"
	}
	query = query.Order("products." + sortBy + " " + order)

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("variants.sale_price ASC")
	}).Preload("Variants.Options").Find(&products).Error

	return products, total, err
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.Options").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *catalogRepository) GetVariants(ctx context.Context, ids []uuid.UUID) ([]entity.Variant, error) {
	if len(ids) == 0 {
		return []entity.Variant{}, nil
	}
	var variants []entity.Variant
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("id IN ?", ids).
		Find(&variants).Error
	return variants, err
}

// UpsertCategories replaces the catalog subtree for one branch from an
// upstream sync payload. Runs in a single transaction so the kiosk never
// observes a half-synced menu.
func (r *catalogRepository) UpsertCategories(ctx context.Context, branchID uuid.UUID, categories []entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			categories[i].BranchID = branchID
		}

		if len(categories) > 0 {
			err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
				Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&categories).Error
			if err != nil {
				return err
			}
		}

		// Soft-delete categories the sync no longer mentions.
		keep := make([]uuid.UUID, 0, len(categories))
		for _, c := range categories {
			keep = append(keep, c.ID)
		}
		query := tx.Where("branch_id = ?", branchID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		return query.Delete(&entity.Category{}).Error
	})
}
