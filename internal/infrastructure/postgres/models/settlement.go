package models

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

// SettlementModel rows are unique per (case, recipient, type).
type SettlementModel struct {
	ID          string                  `gorm:"primaryKey;type:uuid"`
	CaseID      string                  `gorm:"type:uuid;not null;uniqueIndex:idx_settlements_case_recipient_type"`
	RecipientID string                  `gorm:"not null;index;uniqueIndex:idx_settlements_case_recipient_type"`
	PayerID     *string                 `gorm:"index"`
	Type        domain.SettlementType   `gorm:"type:varchar(32);not null;uniqueIndex:idx_settlements_case_recipient_type"`
	Amount      int64                   `gorm:"not null"`
	Status      domain.SettlementStatus `gorm:"type:varchar(16);not null;default:pending;index"`
	AdminMemo   *string
	IsPrePaid   bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SettlementModel) TableName() string { return "settlements" }
