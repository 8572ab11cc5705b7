package models

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type CaseModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	CustomerID       string `gorm:"type:uuid;not null;index"`
	Location         string
	PackageName      string
	Region           string            `gorm:"index:idx_cases_status_region"`
	Status           domain.CaseStatus `gorm:"type:varchar(32);not null;index:idx_cases_status_region"`
	TeamLeaderID     *string           `gorm:"type:uuid;index"`
	FinalPrice       int64             `gorm:"not null;default:0"`
	CommissionAmount int64             `gorm:"not null;default:0"`
	MasterRating     *int
	CustomerRating   *int
	CreatedAt        time.Time `gorm:"index:idx_cases_created_at"`
	UpdatedAt        time.Time
}

func (CaseModel) TableName() string { return "cases" }
