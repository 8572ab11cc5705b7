package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// EventEmitter stamps and forwards committed domain events. A failing sink
// never fails the operation that produced the events.
type EventEmitter struct {
	sink   domain.EventSink
	logger *zap.Logger
	newID  func() string
}

func NewEventEmitter(sink domain.EventSink, logger *zap.Logger) (*EventEmitter, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &EventEmitter{sink: sink, logger: logger, newID: idGenerator}, nil
}

func (e *EventEmitter) Emit(ctx context.Context, events ...domain.Event) {
	if e == nil || e.sink == nil || len(events) == 0 {
		return
	}
	now := time.Now()
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = e.newID()
		}
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = now
		}
	}
	if err := e.sink.Publish(ctx, events...); err != nil {
		e.logger.Warn("failed to deliver events",
			zap.Int("count", len(events)),
			zap.String("first_type", string(events[0].Type)),
			zap.Error(err),
		)
	}
}

// SettlementEvent addresses a settlement notification to the party who acts
// on it: the recipient of a payout, the payer of a remittance.
func SettlementEvent(t domain.EventType, s *domain.Settlement, from domain.SettlementStatus) domain.Event {
	recipient := s.RecipientID
	if s.Type.IsRemittance() && s.PayerID != nil {
		recipient = *s.PayerID
	}
	return domain.Event{
		Type:         t,
		CaseID:       s.CaseID,
		SettlementID: s.ID,
		RecipientID:  recipient,
		FromStatus:   string(from),
		ToStatus:     string(s.Status),
		Amount:       s.Amount,
	}
}
