package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/enums"
)

// OrderLine is the frozen snapshot of one ordered part. Every *Snapshot field
// is copied at placement time so later catalog or price changes never alter a
// placed order.
type OrderLine struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Position            int             `gorm:"column:position;not null"`
	ProductID           *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductCodeSnapshot string          `gorm:"column:product_code_snapshot;not null"`
	DescriptionSnapshot string          `gorm:"column:description_snapshot;not null"`
	PartTypeSnapshot    enums.PartType  `gorm:"column:part_type_snapshot;not null"`
	BandCodeSnapshot    string          `gorm:"column:band_code_snapshot;not null"`
	Qty                 int             `gorm:"column:qty;not null"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"column:unit_price_snapshot;type:numeric(12,2);not null"`
	LineTotal           decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null"`
	MinPriceApplied     bool            `gorm:"column:min_price_applied;not null;default:false"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (o *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
