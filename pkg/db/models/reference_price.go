package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferencePrice carries the optional per-product minimum price floor. The
// floor overrides a band price that would fall below it; it is never a ceiling.
type ReferencePrice struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	MinimumPrice *decimal.Decimal `gorm:"column:minimum_price;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *ReferencePrice) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
