package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device is a registered kiosk/tablet. It authenticates with its provisioning
// code and a secret; only the bcrypt hash of the secret is stored.
type Device struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"branchId"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Code       string         `gorm:"size:100;unique;not null" json:"code"`
	SecretHash string         `gorm:"size:255;not null" json:"-"`
	Active     bool           `gorm:"default:true" json:"active"`
	LastSeenAt *time.Time     `json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"-"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Device) TableName() string { return "devices" }
