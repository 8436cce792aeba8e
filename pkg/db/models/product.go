package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/enums"
)

// Product represents a catalog part. ProductCode is the immutable business
// key used by all pricing lookups.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductCode    string          `gorm:"column:product_code;uniqueIndex;not null"`
	Description    string          `gorm:"column:description;not null"`
	PartType       enums.PartType  `gorm:"column:part_type;not null"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	ReferencePrice *ReferencePrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BandPrices     []BandPrice     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BandPriceFor returns the price entry matching the band code, when present.
func (p *Product) BandPriceFor(bandCode string) *BandPrice {
	for i := range p.BandPrices {
		if p.BandPrices[i].BandCode == bandCode {
			return &p.BandPrices[i]
		}
	}
	return nil
}
