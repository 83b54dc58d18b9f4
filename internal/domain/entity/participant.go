package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is a restaurant location served by this deployment.
type Branch struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Address   string         `gorm:"size:512" json:"address,omitempty"`
	Phone     string         `gorm:"size:64" json:"phone,omitempty"`
	Logo      string         `gorm:"size:512" json:"logo,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Participant is the session context a kiosk operates under: one table (or
// counter) of a branch, with its ordering capabilities. The cart model only
// reads it, never mutates it.
type Participant struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"branchId"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Code           string         `gorm:"size:100;unique;not null" json:"code"`
	Channel        string         `gorm:"size:64" json:"channel,omitempty"`
	Orderable      bool           `gorm:"default:true" json:"orderable"`
	Waiter         bool           `gorm:"default:false" json:"waiter"`
	VAT            bool           `gorm:"default:false" json:"vat"`
	AdvancePayment bool           `gorm:"default:false" json:"advancePayment"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Branch) TableName() string      { return "branches" }
func (Participant) TableName() string { return "participants" }
