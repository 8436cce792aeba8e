package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/enums"
)

// BandAssignment maps a dealer account to the price band that applies for one
// part classification. At most one assignment exists per (dealer, part type);
// absence is a pricing error, never a fallback.
type BandAssignment struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	DealerAccountID uuid.UUID      `gorm:"column:dealer_account_id;type:uuid;not null;uniqueIndex:ux_band_assignments_dealer_part"`
	PartType        enums.PartType `gorm:"column:part_type;not null;uniqueIndex:ux_band_assignments_dealer_part"`
	BandCode        string         `gorm:"column:band_code;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *BandAssignment) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
