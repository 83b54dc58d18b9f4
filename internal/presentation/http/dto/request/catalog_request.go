package request

import (
	"github.com/google/uuid"

	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/qmenu/selforder-api/internal/domain/enum"
)

// SyncCatalogRequest is a bulk menu sync payload from the ordering platform
type SyncCatalogRequest struct {
	Categories []SyncCategory `json:"categories" binding:"required,dive"`
}

// SyncCategory is one category subtree in a sync payload
type SyncCategory struct {
	ID       string        `json:"id" binding:"required,uuid"`
	Name     string        `json:"name" binding:"required"`
	Icon     string        `json:"icon"`
	Color    string        `json:"color"`
	Sort     int           `json:"sort"`
	Active   *bool         `json:"active"`
	Products []SyncProduct `json:"products" binding:"dive"`
}

// SyncProduct is one product in a sync payload
type SyncProduct struct {
	ID            string        `json:"id" binding:"required,uuid"`
	Name          string        `json:"name" binding:"required"`
	Description   string        `json:"description"`
	Specification string        `json:"specification"`
	Image         string        `json:"image"`
	Sort          int           `json:"sort"`
	WithNote      bool          `json:"withNote"`
	State         string        `json:"state"`
	Variants      []SyncVariant `json:"variants" binding:"dive"`
}

// SyncVariant is one sellable configuration in a sync payload
type SyncVariant struct {
	ID        string       `json:"id" binding:"required,uuid"`
	Name      string       `json:"name" binding:"required"`
	Price     int64        `json:"price"`
	SalePrice int64        `json:"salePrice"`
	Discount  int64        `json:"discount"`
	Calorie   int          `json:"calorie"`
	State     string       `json:"state"`
	Options   []SyncOption `json:"options" binding:"dive"`
}

// SyncOption is one modifier in a sync payload
type SyncOption struct {
	ID        string `json:"id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type"`
	Price     int64  `json:"price"`
	Mandatory bool   `json:"mandatory"`
	State     string `json:"state"`
}

// ToEntities converts the payload into catalog entities for the given branch.
// Ids are trusted to be valid uuids after binding.
func (r *SyncCatalogRequest) ToEntities(branchID uuid.UUID) []entity.Category {
	categories := make([]entity.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		active := true
		if c.Active != nil {
			active = *c.Active
		}
		category := entity.Category{
			ID:       uuid.MustParse(c.ID),
			BranchID: branchID,
			Name:     c.Name,
			Icon:     c.Icon,
			Color:    c.Color,
			Sort:     c.Sort,
			Active:   active,
		}
		for _, p := range c.Products {
			product := entity.Product{
				ID:            uuid.MustParse(p.ID),
				CategoryID:    category.ID,
				Name:          p.Name,
				Description:   p.Description,
				Specification: p.Specification,
				Image:         p.Image,
				Sort:          p.Sort,
				WithNote:      p.WithNote,
				State:         menuState(p.State),
			}
			for _, v := range p.Variants {
				variant := entity.Variant{
					ID:        uuid.MustParse(v.ID),
					ProductID: product.ID,
					Name:      v.Name,
					Price:     v.Price,
					SalePrice: v.SalePrice,
					Discount:  v.Discount,
					Calorie:   v.Calorie,
					State:     menuState(v.State),
				}
				for _, o := range v.Options {
					variant.Options = append(variant.Options, entity.MenuOption{
						ID:        uuid.MustParse(o.ID),
						VariantID: variant.ID,
						Name:      o.Name,
						Type:      o.Type,
						Price:     o.Price,
						Mandatory: o.Mandatory,
						State:     menuState(o.State),
					})
				}
				product.Variants = append(product.Variants, variant)
			}
			category.Products = append(category.Products, product)
		}
		categories = append(categories, category)
	}
	return categories
}

func menuState(s string) enum.MenuState {
	state := enum.MenuState(s)
	if !state.IsValid() {
		return enum.MenuStateActive
	}
	return state
}
