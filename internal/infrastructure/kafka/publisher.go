package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"go.uber.org/zap"
)

// CaseEventPublisher writes domain events to one topic, keyed by case so
// that a partition sees the events of a case in order.
type CaseEventPublisher struct {
	port       domain.PublisherPort
	topic      string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewCaseEventPublisher(port domain.PublisherPort, topic string, logger *zap.Logger) *CaseEventPublisher {
	return &CaseEventPublisher{
		port:       port,
		topic:      topic,
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
		logger:     logger,
	}
}

func (p *CaseEventPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]domain.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(ToCaseEvent(event))
		if err != nil {
			p.logger.Warn("failed to marshal case event", zap.String("event_id", event.ID), zap.Error(err))
			continue
		}
		key := event.CaseID
		if key == "" {
			key = event.RecipientID
		}
		messages = append(messages, domain.Message{Key: []byte(key), Value: value})
	}
	if len(messages) == 0 {
		return fmt.Errorf("no valid messages to publish")
	}

	var err error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if err = p.port.Publish(ctx, p.topic, messages...); err == nil {
			return nil
		}
		p.logger.Warn("case event publish attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("messages", len(messages)),
			zap.Error(err),
		)
		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
	}
	return fmt.Errorf("failed to publish %d case events after %d attempts: %w", len(messages), p.maxRetries, err)
}
