package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/enums"
)

// OrderHeader is an immutable order record. It is created with status
// suspended and never transitioned by this service; pricing fields are frozen
// snapshots taken at placement time.
type OrderHeader struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNo         string            `gorm:"column:order_no;uniqueIndex;not null"`
	DealerAccountID uuid.UUID         `gorm:"column:dealer_account_id;type:uuid;not null;index"`
	DealerUserID    uuid.UUID         `gorm:"column:dealer_user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'suspended'"`
	Currency        enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(14,2);not null"`
	PORef           *string           `gorm:"column:po_ref"`
	Notes           *string           `gorm:"column:notes"`
	Lines           []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *OrderHeader) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
