package caseflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"go.uber.org/zap"
)

// Claim lets one operator take an unclaimed case. Among concurrent claimers
// the first committed guarded update wins; everyone else gets
// ErrAlreadyClaimed, which is final. The claimant's standing is held under a
// shared lock until the update commits.
func (uc *DefaultCaseUsecase) Claim(ctx context.Context, input *casedto.ClaimInput) (*domain.Case, error) {
	defer uc.metrics.ObserveDuration("claim", time.Now())

	var (
		actor *domain.Partner
		c     *domain.Case
	)
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		actor, err = uc.claimant(ctx, input.ActorID)
		if err != nil {
			uc.metrics.RecordClaim("rejected")
			return err
		}
		if actor.Availability == domain.AvailabilityOff && !input.ConfirmOffDuty {
			uc.metrics.RecordClaim("rejected")
			return fmt.Errorf("%w: partner %s is off duty", domain.ErrConfirmationRequired, actor.UserID)
		}

		c, err = uc.caseRepo.ConditionalTransition(ctx, input.CaseID, domain.StatusRequested, domain.StatusAssigned, domain.CaseMutations{
			TeamLeaderID: &actor.UserID,
		})
		if err != nil {
			return uc.claimLost(input.CaseID, actor.UserID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordClaim("won")
	uc.metrics.RecordTransition(string(domain.StatusRequested), string(domain.StatusAssigned))
	uc.events.Emit(ctx, domain.Event{
		Type:        domain.EventCaseClaimed,
		CaseID:      c.ID,
		ActorID:     actor.UserID,
		RecipientID: c.CustomerID,
		FromStatus:  string(domain.StatusRequested),
		ToStatus:    string(c.Status),
	})
	if err := uc.partners.MarkWorking(ctx, actor.UserID); err != nil {
		uc.logger.Warn("failed to mark claimant working", zap.String("partner_id", actor.UserID), zap.Error(err))
	}

	uc.logger.Info("case claimed", zap.String("case_id", c.ID), zap.String("leader_id", actor.UserID))
	return c, nil
}

// AssignTo is a master handing a case to one of its direct subordinates.
func (uc *DefaultCaseUsecase) AssignTo(ctx context.Context, input *casedto.AssignInput) (*domain.Case, error) {
	defer uc.metrics.ObserveDuration("assign", time.Now())

	master, err := uc.partnerRepo.GetPartnerByID(ctx, input.MasterID)
	if err != nil {
		return nil, notEligible(input.MasterID, err)
	}
	if !master.IsApproved() {
		return nil, fmt.Errorf("%w: master %s is %s", domain.ErrNotApproved, master.UserID, master.ApprovalStatus)
	}

	var (
		sub *domain.Partner
		c   *domain.Case
	)
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sub, err = uc.partnerRepo.LockPartner(ctx, input.SubordinateID, false)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: partner %s is unknown", domain.ErrNotUpline, input.SubordinateID)
		}
		if err != nil {
			return err
		}
		if !sub.ReportsTo(master.UserID) {
			return fmt.Errorf("%w: %s does not report to %s", domain.ErrNotUpline, sub.UserID, master.UserID)
		}
		if !sub.IsApproved() {
			return fmt.Errorf("%w: partner %s is %s", domain.ErrNotApproved, sub.UserID, sub.ApprovalStatus)
		}
		if !sub.CanClaim() {
			return fmt.Errorf("%w: role %s cannot hold cases", domain.ErrNotEligible, sub.Role)
		}
		if sub.Availability != domain.AvailabilityWaiting && !input.ConfirmBusy {
			return fmt.Errorf("%w: partner %s is %s", domain.ErrConfirmationRequired, sub.UserID, sub.Availability)
		}

		c, err = uc.caseRepo.ConditionalTransition(ctx, input.CaseID, domain.StatusRequested, domain.StatusAssigned, domain.CaseMutations{
			TeamLeaderID: &sub.UserID,
		})
		if err != nil {
			return uc.claimLost(input.CaseID, sub.UserID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordTransition(string(domain.StatusRequested), string(domain.StatusAssigned))
	uc.events.Emit(ctx,
		domain.Event{
			Type:        domain.EventCaseAssigned,
			CaseID:      c.ID,
			ActorID:     master.UserID,
			RecipientID: sub.UserID,
			FromStatus:  string(domain.StatusRequested),
			ToStatus:    string(c.Status),
		},
		statusEvent(c, domain.StatusRequested, master.UserID),
	)
	if err := uc.partners.MarkWorking(ctx, sub.UserID); err != nil {
		uc.logger.Warn("failed to mark assignee working", zap.String("partner_id", sub.UserID), zap.Error(err))
	}

	uc.logger.Info("case assigned",
		zap.String("case_id", c.ID),
		zap.String("master_id", master.UserID),
		zap.String("leader_id", sub.UserID),
	)
	return c, nil
}

// claimant loads the actor fresh from the directory and checks its standing.
func (uc *DefaultCaseUsecase) claimant(ctx context.Context, actorID string) (*domain.Partner, error) {
	actor, err := uc.partnerRepo.LockPartner(ctx, actorID, false)
	if err != nil {
		return nil, notEligible(actorID, err)
	}
	if !actor.CanClaim() {
		return nil, fmt.Errorf("%w: role %s cannot claim cases", domain.ErrNotEligible, actor.Role)
	}
	if !actor.IsApproved() {
		return nil, fmt.Errorf("%w: partner %s is %s", domain.ErrNotApproved, actor.UserID, actor.ApprovalStatus)
	}
	return actor, nil
}

func (uc *DefaultCaseUsecase) claimLost(caseID, actorID string, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		uc.metrics.RecordClaim("lost")
		uc.logger.Debug("claim lost", zap.String("case_id", caseID), zap.String("actor_id", actorID))
		return fmt.Errorf("%w: case %s", domain.ErrAlreadyClaimed, caseID)
	}
	uc.metrics.RecordClaim("rejected")
	return err
}

// notEligible turns an unknown actor into a standing error; store failures
// pass through untouched.
func notEligible(actorID string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: partner %s is unknown", domain.ErrNotEligible, actorID)
	}
	return err
}
