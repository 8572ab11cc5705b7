package caseflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClaimExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.openCase(t)

	const claimers = 25
	for i := 0; i < claimers; i++ {
		h.leader(t, fmt.Sprintf("leader-%02d", i), "")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		lost    int
	)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(actor string) {
			defer wg.Done()
			_, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: actor})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, actor)
			case assert.ErrorIs(t, err, domain.ErrAlreadyClaimed):
				lost++
			}
		}(fmt.Sprintf("leader-%02d", i))
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, claimers-1, lost)

	stored, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, stored.Status)
	assert.Equal(t, winners[0], stored.LeaderID())

	claimed := h.events.OfType(domain.EventCaseClaimed)
	require.Len(t, claimed, 1)
	assert.Equal(t, winners[0], claimed[0].ActorID)

	winner, err := h.partners.GetPartner(ctx, winners[0])
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityWorking, winner.Availability)
}

func TestClaimStanding(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.openCase(t)

	h.addPartner(t, domain.Partner{UserID: "customer-9", Role: domain.RoleCustomer})
	h.addPartner(t, domain.Partner{UserID: "pending", Role: domain.RoleLeader, ApprovalStatus: domain.ApprovalPending})
	h.addPartner(t, domain.Partner{UserID: "suspended", Role: domain.RoleLeader, ApprovalStatus: domain.ApprovalSuspended})
	h.addPartner(t, domain.Partner{UserID: "resting", Role: domain.RoleLeader, Availability: domain.AvailabilityOff})

	tests := []struct {
		name    string
		actor   string
		confirm bool
		wantErr error
	}{
		{"unknown actor", "nobody", false, domain.ErrNotEligible},
		{"role cannot claim", "customer-9", false, domain.ErrNotEligible},
		{"pending approval", "pending", false, domain.ErrNotApproved},
		{"suspended", "suspended", false, domain.ErrNotApproved},
		{"off duty without confirmation", "resting", false, domain.ErrConfirmationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: tt.actor, ConfirmOffDuty: tt.confirm})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequested, stored.Status)
	assert.Nil(t, stored.TeamLeaderID)

	claimed, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: "resting", ConfirmOffDuty: true})
	require.NoError(t, err)
	assert.Equal(t, "resting", claimed.LeaderID())
}

func TestClaimUnknownCase(t *testing.T) {
	h := newHarness(t)
	h.leader(t, "leader-1", "")

	_, err := h.cases.Claim(context.Background(), &casedto.ClaimInput{CaseID: "missing", ActorID: "leader-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignTo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.master(t, "master-2")
	h.leader(t, "sub-1", "master-1")
	busy := h.leader(t, "sub-busy", "master-1")
	require.NoError(t, h.store.UpdateAvailability(ctx, busy.UserID, domain.AvailabilityWorking))

	c := h.openCase(t)

	_, err := h.cases.AssignTo(ctx, &casedto.AssignInput{CaseID: c.ID, MasterID: "master-2", SubordinateID: "sub-1"})
	assert.ErrorIs(t, err, domain.ErrNotUpline)

	_, err = h.cases.AssignTo(ctx, &casedto.AssignInput{CaseID: c.ID, MasterID: "master-1", SubordinateID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotUpline)

	_, err = h.cases.AssignTo(ctx, &casedto.AssignInput{CaseID: c.ID, MasterID: "master-1", SubordinateID: "sub-busy"})
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)

	assigned, err := h.cases.AssignTo(ctx, &casedto.AssignInput{CaseID: c.ID, MasterID: "master-1", SubordinateID: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, assigned.Status)
	assert.Equal(t, "sub-1", assigned.LeaderID())

	events := h.events.OfType(domain.EventCaseAssigned)
	require.Len(t, events, 1)
	assert.Equal(t, "sub-1", events[0].RecipientID)
	assert.Equal(t, "master-1", events[0].ActorID)

	_, err = h.cases.AssignTo(ctx, &casedto.AssignInput{CaseID: c.ID, MasterID: "master-1", SubordinateID: "sub-busy", ConfirmBusy: true})
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
}

// countHookRepo runs onCount right after active cases were counted.
type countHookRepo struct {
	domain.CaseRepository
	onCount func()
}

func (r countHookRepo) CountActiveByLeader(ctx context.Context, leaderID string) (int64, error) {
	n, err := r.CaseRepository.CountActiveByLeader(ctx, leaderID)
	r.onCount()
	return n, err
}

func TestClaimCannotSlipIntoSuspension(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "leader-1", "")
	c := h.openCase(t)

	claimErr := make(chan error, 1)
	hook := countHookRepo{CaseRepository: h.store, onCount: func() {
		go func() {
			_, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: c.ID, ActorID: "leader-1"})
			claimErr <- err
		}()
		// Give the claim every chance to run between the count and the update.
		time.Sleep(50 * time.Millisecond)
	}}
	directory := usecase.NewDefaultPartnerUsecase(h.store, hook, h.store, h.store, nil, nil, zap.NewNop())

	suspended, err := directory.ChangeApprovalStatus(ctx, "leader-1", domain.ApprovalSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalSuspended, suspended.ApprovalStatus)

	select {
	case err := <-claimErr:
		assert.ErrorIs(t, err, domain.ErrNotApproved)
	case <-time.After(2 * time.Second):
		t.Fatal("claim did not finish")
	}

	stored, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequested, stored.Status)
	assert.Nil(t, stored.TeamLeaderID)
}
