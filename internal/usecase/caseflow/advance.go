package caseflow

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"go.uber.org/zap"
)

// Advance moves a case one legal step, guarded by the status the caller last
// saw. Entering team_settling creates the settlement rows in the same
// transaction as the status change.
func (uc *DefaultCaseUsecase) Advance(ctx context.Context, input *casedto.AdvanceInput) (*domain.Case, error) {
	defer uc.metrics.ObserveDuration("advance", time.Now())

	if err := domain.ValidateTransition(input.ExpectedStatus, input.TargetStatus); err != nil {
		uc.metrics.RecordError("advance", "illegal_transition")
		return nil, err
	}

	switch {
	case input.TargetStatus == domain.StatusAssigned:
		return uc.Claim(ctx, &casedto.ClaimInput{
			CaseID:         input.CaseID,
			ActorID:        input.ActorID,
			ConfirmOffDuty: input.Confirm,
		})
	case input.TargetStatus == domain.StatusRequested:
		return uc.CancelClaim(ctx, input.CaseID, input.ActorID)
	}

	current, err := uc.caseRepo.GetCaseByID(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeAdvance(ctx, current, input); err != nil {
		uc.metrics.RecordError("advance", "unauthorized")
		return nil, err
	}

	// Authorization was decided on the claimant read above.
	guard := domain.CaseMutations{ExpectedLeaderID: current.TeamLeaderID}

	var (
		updated   *domain.Case
		generated *settlementdto.GenerateOutput
	)
	if input.TargetStatus == domain.StatusTeamSettling {
		err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			updated, err = uc.caseRepo.ConditionalTransition(ctx, input.CaseID, input.ExpectedStatus, input.TargetStatus, guard)
			if err != nil {
				return err
			}
			generated, err = uc.settlements.GenerateCaseSettlements(ctx, updated)
			return err
		})
	} else {
		updated, err = uc.caseRepo.ConditionalTransition(ctx, input.CaseID, input.ExpectedStatus, input.TargetStatus, guard)
	}
	if err != nil {
		uc.metrics.RecordError("advance", "transition_failed")
		return nil, err
	}

	uc.metrics.RecordTransition(string(input.ExpectedStatus), string(input.TargetStatus))
	events := []domain.Event{statusEvent(updated, input.ExpectedStatus, input.ActorID)}
	if generated != nil {
		for _, s := range generated.Created {
			uc.metrics.RecordSettlementCreated(string(s.Type), s.Amount)
			events = append(events, usecase.SettlementEvent(domain.EventSettlementCreated, s, ""))
		}
	}
	uc.events.Emit(ctx, events...)

	if !input.TargetStatus.IsActive() {
		uc.releasePresence(ctx, updated.LeaderID())
	}

	uc.logger.Info("case advanced",
		zap.String("case_id", updated.ID),
		zap.String("actor_id", input.ActorID),
		zap.String("from", string(input.ExpectedStatus)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// authorizeAdvance: the owning leader drives the case up to hq_check, only
// an admin completes it, and an admin may perform any legal step.
func (uc *DefaultCaseUsecase) authorizeAdvance(ctx context.Context, c *domain.Case, input *casedto.AdvanceInput) error {
	actor, err := uc.partnerRepo.GetPartnerByID(ctx, input.ActorID)
	if err != nil {
		return notEligible(input.ActorID, err)
	}
	if actor.IsAdmin() {
		return nil
	}
	if input.TargetStatus == domain.StatusCompleted {
		return fmt.Errorf("%w: only headquarters completes a case", domain.ErrNotEligible)
	}
	if !c.OwnedBy(actor.UserID) {
		return fmt.Errorf("%w: case %s is not held by %s", domain.ErrNotOwner, c.ID, actor.UserID)
	}
	return nil
}

// CancelClaim releases a consulting case back to the board and clears its
// claimant. Settlements do not exist yet at this stage.
func (uc *DefaultCaseUsecase) CancelClaim(ctx context.Context, caseID, actorID string) (*domain.Case, error) {
	defer uc.metrics.ObserveDuration("cancel", time.Now())

	current, err := uc.caseRepo.GetCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(actorID) {
		actor, err := uc.partnerRepo.GetPartnerByID(ctx, actorID)
		if err != nil || !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: case %s is not held by %s", domain.ErrNotOwner, caseID, actorID)
		}
	}
	leaderID := current.LeaderID()

	updated, err := uc.caseRepo.ConditionalTransition(ctx, caseID, domain.StatusConsulting, domain.StatusRequested, domain.CaseMutations{
		ExpectedLeaderID: current.TeamLeaderID,
		ClearTeamLeader:  true,
	})
	if err != nil {
		uc.metrics.RecordError("cancel", "transition_failed")
		return nil, err
	}

	uc.metrics.RecordTransition(string(domain.StatusConsulting), string(domain.StatusRequested))
	uc.events.Emit(ctx, statusEvent(updated, domain.StatusConsulting, actorID))
	uc.releasePresence(ctx, leaderID)

	uc.logger.Info("claim cancelled",
		zap.String("case_id", caseID),
		zap.String("actor_id", actorID),
		zap.String("released_leader_id", leaderID),
	)
	return updated, nil
}
