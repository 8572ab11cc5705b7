package caseflow

import (
	"context"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// staleCaseRepo answers reads with an old snapshot, as if the case moved on
// between the caller's read and its write.
type staleCaseRepo struct {
	domain.CaseRepository
	snapshot domain.Case
}

func (r staleCaseRepo) GetCaseByID(context.Context, string) (*domain.Case, error) {
	c := r.snapshot
	return &c, nil
}

func TestWritesRequireTheClaimantThatWasRead(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "leader-1", "")
	h.leader(t, "leader-2", "")
	c := h.openCase(t)

	_, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: "leader-1"})
	require.NoError(t, err)
	h.advance(t, c.ID, "leader-1", domain.StatusAssigned, domain.StatusConsulting)
	snapshot, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)

	// Same status again, different holder.
	_, err = h.cases.CancelClaim(ctx, c.ID, "leader-1")
	require.NoError(t, err)
	_, err = h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: "leader-2"})
	require.NoError(t, err)
	h.advance(t, c.ID, "leader-2", domain.StatusAssigned, domain.StatusConsulting)

	stale := NewDefaultCaseUsecase(staleCaseRepo{CaseRepository: h.store, snapshot: *snapshot},
		h.store, h.store, h.partners, h.settlements, nil, nil, zap.NewNop())

	_, err = stale.Advance(ctx, &casedto.AdvanceInput{
		CaseID: c.ID, ActorID: "leader-1",
		ExpectedStatus: domain.StatusConsulting, TargetStatus: domain.StatusInProgress,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = stale.FinalizePrice(ctx, &casedto.FinalizePriceInput{
		CaseID: c.ID, ActorID: "leader-1",
		ExpectedStatus: domain.StatusConsulting, FinalPrice: 1,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = stale.CancelClaim(ctx, c.ID, "leader-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConsulting, stored.Status)
	assert.Equal(t, "leader-2", stored.LeaderID())
	assert.Zero(t, stored.FinalPrice)
}
