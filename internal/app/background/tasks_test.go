package background

import (
	"context"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/memory"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartRejectsBadSchedule(t *testing.T) {
	store := memory.NewStore()
	partners := usecase.NewDefaultPartnerUsecase(store, store, store, store, nil, nil, zap.NewNop())

	bt := NewBackgroundTasks(partners, "every now and then", zap.NewNop())
	assert.Error(t, bt.Start(context.Background()))
}

func TestReconcilePresenceJob(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CreatePartner(ctx, &domain.Partner{
		UserID:         "leader-1",
		Role:           domain.RoleLeader,
		ApprovalStatus: domain.ApprovalApproved,
		Availability:   domain.AvailabilityWorking,
	}))
	partners := usecase.NewDefaultPartnerUsecase(store, store, store, store, nil, nil, zap.NewNop())

	bt := NewBackgroundTasks(partners, "@every 1h", zap.NewNop())
	bt.reconcilePresence(ctx)

	p, err := store.GetPartnerByID(ctx, "leader-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityWaiting, p.Availability)
}
