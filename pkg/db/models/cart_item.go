package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one product line in a cart. The composite unique index backs
// the merge-on-add upsert; carts never store prices, those are resolved live.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product"`
	Qty       int       `gorm:"column:qty;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
