package kafka

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type CaseEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	CaseID       string    `json:"case_id,omitempty"`
	SettlementID string    `json:"settlement_id,omitempty"`
	ActorID      string    `json:"actor_id,omitempty"`
	RecipientID  string    `json:"recipient_id,omitempty"`
	FromStatus   string    `json:"from_status,omitempty"`
	ToStatus     string    `json:"to_status,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func ToCaseEvent(e domain.Event) CaseEvent {
	return CaseEvent{
		EventID:      e.ID,
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
