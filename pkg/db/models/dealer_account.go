package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/enums"
)

// DealerAccount represents a trading dealer and its purchasing policy.
// Accounts are provisioned externally and never hard-deleted while orders
// reference them.
type DealerAccount struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	AccountCode     string                  `gorm:"column:account_code;uniqueIndex;not null"`
	Name            string                  `gorm:"column:name;not null"`
	Status          enums.DealerStatus      `gorm:"column:status;not null;default:'active'"`
	Entitlement     enums.DealerEntitlement `gorm:"column:entitlement;not null"`
	BandAssignments []BandAssignment        `gorm:"foreignKey:DealerAccountID;constraint:OnDelete:CASCADE"`
	Users           []DealerUser            `gorm:"foreignKey:DealerAccountID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DealerAccount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
