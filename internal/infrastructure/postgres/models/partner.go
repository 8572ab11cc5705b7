package models

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type PartnerModel struct {
	UserID         string `gorm:"primaryKey;type:uuid"`
	Name           string
	Role           domain.Role  `gorm:"type:varchar(16);not null"`
	Grade          domain.Grade `gorm:"type:varchar(16)"`
	Region         string
	MasterID       *string               `gorm:"type:uuid;index"`
	ApprovalStatus domain.ApprovalStatus `gorm:"type:varchar(16);not null;default:pending"`
	Availability   domain.Availability   `gorm:"type:varchar(16);not null;default:off;index"`
	DepositBalance int64                 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PartnerModel) TableName() string { return "partners" }
