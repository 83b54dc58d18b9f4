package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/qmenu/selforder-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Category groups products on the kiosk menu.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"branchId"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Icon      string         `gorm:"size:255" json:"icon,omitempty"`
	Color     string         `gorm:"size:32" json:"color,omitempty"`
	Sort      int            `gorm:"default:0" json:"sort"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product is a menu entry. The sellable unit is the Variant; a product with
// more than one variant, or any variant with options, is configurable and the
// kiosk routes it through the detail screen before adding to the cart.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"categoryId"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	Specification string         `gorm:"type:text" json:"specification,omitempty"`
	Image         string         `gorm:"size:512" json:"image,omitempty"`
	Sort          int            `gorm:"default:0" json:"sort"`
	WithNote      bool           `gorm:"default:false" json:"withNote"`
	State         enum.MenuState `gorm:"size:32;default:'ACTIVE'" json:"state"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// Variant is one sellable configuration of a product. Prices are stored in
// minor units (cents).
type Variant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"productId"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Price     int64          `gorm:"default:0" json:"price"`
	SalePrice int64          `gorm:"default:0" json:"salePrice"`
	Discount  int64          `gorm:"default:0" json:"discount"`
	Calorie   int            `gorm:"default:0" json:"calorie"`
	State     enum.MenuState `gorm:"size:32;default:'ACTIVE'" json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product     `gorm:"foreignKey:ProductID" json:"-"`
	Options []MenuOption `gorm:"foreignKey:VariantID" json:"options,omitempty"`
}

// MenuOption is a modifier offered on a variant. Mandatory options must be
// selected before the containing cart can be submitted.
type MenuOption struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	VariantID uuid.UUID      `gorm:"type:uuid;not null;index" json:"variantId"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Type      string         `gorm:"size:64" json:"type,omitempty"`
	Price     int64          `gorm:"default:0" json:"price"`
	Mandatory bool           `gorm:"default:false" json:"mandatory"`
	State     enum.MenuState `gorm:"size:32;default:'ACTIVE'" json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (o *MenuOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string   { return "categories" }
func (Product) TableName() string    { return "products" }
func (Variant) TableName() string    { return "variants" }
func (MenuOption) TableName() string { return "menu_options" }

// Configurable reports whether the product needs the detail screen before it
// can be added to the cart.
func (p *Product) Configurable() bool {
	if len(p.Variants) > 1 {
		return true
	}
	for _, v := range p.Variants {
		if len(v.Options) > 0 {
			return true
		}
	}
	return false
}

// MandatoryOptions returns the options that must be selected for this variant.
func (v *Variant) MandatoryOptions() []MenuOption {
	var mandatory []MenuOption
	for _, opt := range v.Options {
		if opt.Mandatory {
			mandatory = append(mandatory, opt)
		}
	}
	return mandatory
}
