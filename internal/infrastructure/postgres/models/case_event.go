package models

import "time"

// CaseEventModel is the persisted journal of emitted events.
type CaseEventModel struct {
	ID           string `gorm:"primaryKey"`
	Type         string `gorm:"type:varchar(48);not null"`
	CaseID       string `gorm:"index"`
	SettlementID string
	ActorID      string
	RecipientID  string `gorm:"index"`
	FromStatus   string
	ToStatus     string
	Amount       int64
	OccurredAt   time.Time `gorm:"index"`
}

func (CaseEventModel) TableName() string { return "case_events" }
