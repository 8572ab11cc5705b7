package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookSink posts events that have a recipient to an external notification
// endpoint. Delivery failures are reported to the caller, which logs them.
type WebhookSink struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookSink(url string, timeout time.Duration, logger *zap.Logger) *WebhookSink {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(100*time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &WebhookSink{client: client, url: url, logger: logger}
}

func (s *WebhookSink) Publish(ctx context.Context, events ...domain.Event) error {
	payloads := make([]CallbackPayload, 0, len(events))
	for _, e := range events {
		if e.RecipientID == "" {
			continue
		}
		payloads = append(payloads, CallbackPayload{
			EventID:      e.ID,
			Type:         string(e.Type),
			CaseID:       e.CaseID,
			SettlementID: e.SettlementID,
			RecipientID:  e.RecipientID,
			FromStatus:   e.FromStatus,
			ToStatus:     e.ToStatus,
			Amount:       e.Amount,
			OccurredAt:   e.OccurredAt,
		})
	}
	if len(payloads) == 0 {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payloads).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("callback returned status %d", resp.StatusCode())
	}

	s.logger.Debug("callback sent", zap.String("url", s.url), zap.Int("events", len(payloads)))
	return nil
}
