package models

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type DepositTransactionModel struct {
	ID           string             `gorm:"primaryKey"`
	PartnerID    string             `gorm:"type:uuid;not null;index"`
	Kind         domain.DepositKind `gorm:"type:varchar(16);not null"`
	Amount       int64              `gorm:"not null"`
	BalanceAfter int64              `gorm:"not null"`
	SettlementID *string            `gorm:"type:uuid"`
	CreatedAt    time.Time          `gorm:"index"`
}

func (DepositTransactionModel) TableName() string { return "deposits" }
