package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the mutable working basket for one dealer user. The unique index on
// DealerUserID enforces the one-live-cart-per-user invariant at the storage
// layer, so concurrent get-or-create calls cannot race into duplicates.
type Cart struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DealerUserID    uuid.UUID  `gorm:"column:dealer_user_id;type:uuid;not null;uniqueIndex:ux_carts_dealer_user"`
	DealerAccountID uuid.UUID  `gorm:"column:dealer_account_id;type:uuid;not null;index"`
	Items           []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
