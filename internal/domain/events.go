package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventCaseCreated             EventType = "CaseCreated"
	EventCaseClaimed             EventType = "CaseClaimed"
	EventCaseAssigned            EventType = "CaseAssigned"
	EventStatusChanged           EventType = "StatusChanged"
	EventSettlementCreated       EventType = "SettlementCreated"
	EventSettlementStatusChanged EventType = "SettlementStatusChanged"
	EventSettlementAmountChanged EventType = "SettlementAmountChanged"
	EventAvailabilityChanged     EventType = "AvailabilityChanged"
)

// Event is what the core tells the outside world after a committed change.
// RecipientID is the party the notification is addressed to, if any.
type Event struct {
	ID           string
	Type         EventType
	CaseID       string
	SettlementID string
	ActorID      string
	RecipientID  string
	FromStatus   string
	ToStatus     string
	Amount       int64
	OccurredAt   time.Time
}

// EventSink delivers events; events of one call are passed in emission order.
type EventSink interface {
	Publish(ctx context.Context, events ...Event) error
}
