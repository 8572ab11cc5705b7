package notifier

import "time"

type CallbackPayload struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	CaseID       string    `json:"case_id,omitempty"`
	SettlementID string    `json:"settlement_id,omitempty"`
	RecipientID  string    `json:"recipient_id,omitempty"`
	FromStatus   string    `json:"from_status,omitempty"`
	ToStatus     string    `json:"to_status,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
