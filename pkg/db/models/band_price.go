package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BandPrice is the absolute unit price of a product within one pricing band.
type BandPrice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_band_prices_product_band"`
	BandCode  string          `gorm:"column:band_code;not null;uniqueIndex:ux_band_prices_product_band"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *BandPrice) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
