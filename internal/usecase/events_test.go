package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingSink struct{ calls int }

func (s *failingSink) Publish(context.Context, ...domain.Event) error {
	s.calls++
	return errors.New("broker down")
}

func TestEmitSwallowsSinkErrors(t *testing.T) {
	sink := &failingSink{}
	emitter, err := NewEventEmitter(sink, zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), domain.Event{Type: domain.EventCaseCreated, CaseID: "c1"})
	})
	assert.Equal(t, 1, sink.calls)

	emitter.Emit(context.Background())
	assert.Equal(t, 1, sink.calls, "empty batches are not delivered")
}

func TestNilEmitter(t *testing.T) {
	var emitter *EventEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), domain.Event{Type: domain.EventCaseCreated})
	})
}

func TestSettlementEventRecipient(t *testing.T) {
	payer := "leader-1"
	remittance := &domain.Settlement{
		ID: "s1", CaseID: "c1", RecipientID: "headquarters", PayerID: &payer,
		Type: domain.SettlementUsageFeeRemittance, Status: domain.SettlementCompleted, Amount: 500,
	}
	e := SettlementEvent(domain.EventSettlementStatusChanged, remittance, domain.SettlementPending)
	assert.Equal(t, "leader-1", e.RecipientID)
	assert.Equal(t, "pending", e.FromStatus)
	assert.Equal(t, "completed", e.ToStatus)
	assert.Equal(t, int64(500), e.Amount)

	payout := &domain.Settlement{ID: "s2", CaseID: "c1", RecipientID: "master-1", Type: domain.SettlementLeaderOverride}
	assert.Equal(t, "master-1", SettlementEvent(domain.EventSettlementCreated, payout, "").RecipientID)
}
