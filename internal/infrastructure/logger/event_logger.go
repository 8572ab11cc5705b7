package logger

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// PGCaseEventLogger journals every emitted event to case_events.
type PGCaseEventLogger struct {
	db *gorm.DB
}

func NewPGCaseEventLogger(db *gorm.DB) *PGCaseEventLogger {
	return &PGCaseEventLogger{db: db}
}

func (l *PGCaseEventLogger) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]models.CaseEventModel, len(events))
	for i, e := range events {
		rows[i] = models.CaseEventModel{
			ID:           e.ID,
			Type:         string(e.Type),
			CaseID:       e.CaseID,
			SettlementID: e.SettlementID,
			ActorID:      e.ActorID,
			RecipientID:  e.RecipientID,
			FromStatus:   e.FromStatus,
			ToStatus:     e.ToStatus,
			Amount:       e.Amount,
			OccurredAt:   e.OccurredAt,
		}
	}
	return l.db.WithContext(ctx).Create(&rows).Error
}
