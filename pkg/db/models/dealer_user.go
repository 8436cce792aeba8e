package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealerUser is an individual login under a dealer account. Carts are keyed
// per dealer user, not per account.
type DealerUser struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DealerAccountID uuid.UUID `gorm:"column:dealer_account_id;type:uuid;not null;index"`
	Email           string    `gorm:"column:email;uniqueIndex;not null"`
	DisplayName     string    `gorm:"column:display_name;not null"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DealerUser) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
