package caseflow

import (
	"context"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
)

// RateCase records a 1..5 score once the work is handed to headquarters.
// The customer rates the service; the claimant's direct master (or an admin)
// rates the claimant.
func (uc *DefaultCaseUsecase) RateCase(ctx context.Context, input *casedto.RateCaseInput) (*domain.Case, error) {
	if input.Score < 1 || input.Score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", domain.ErrInvalidArgument)
	}

	current, err := uc.caseRepo.GetCaseByID(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusHQCheck && current.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: case %s is %s and cannot be rated yet", domain.ErrIllegalTransition, current.ID, current.Status)
	}

	score := input.Score
	mutations := domain.CaseMutations{ExpectedLeaderID: current.TeamLeaderID}
	if input.ActorID == current.CustomerID {
		mutations.CustomerRating = &score
	} else {
		if err := uc.authorizeMasterRating(ctx, current, input.ActorID); err != nil {
			return nil, err
		}
		mutations.MasterRating = &score
	}

	return uc.caseRepo.ConditionalTransition(ctx, current.ID, current.Status, current.Status, mutations)
}

func (uc *DefaultCaseUsecase) authorizeMasterRating(ctx context.Context, c *domain.Case, actorID string) error {
	actor, err := uc.partnerRepo.GetPartnerByID(ctx, actorID)
	if err != nil {
		return notEligible(actorID, err)
	}
	if actor.IsAdmin() {
		return nil
	}
	leader, err := uc.partnerRepo.GetPartnerByID(ctx, c.LeaderID())
	if err != nil {
		return err
	}
	if !leader.ReportsTo(actor.UserID) {
		return fmt.Errorf("%w: %s is not the master of %s", domain.ErrNotUpline, actor.UserID, leader.UserID)
	}
	return nil
}
