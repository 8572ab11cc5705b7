package caseflow

import (
	"context"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"go.uber.org/zap"
)

// FinalizePrice sets package and price while the case is consulting or in
// progress. The status does not change; the update is still guarded by it.
func (uc *DefaultCaseUsecase) FinalizePrice(ctx context.Context, input *casedto.FinalizePriceInput) (*domain.Case, error) {
	if input.ExpectedStatus != domain.StatusConsulting && input.ExpectedStatus != domain.StatusInProgress {
		return nil, fmt.Errorf("%w: price is fixed while consulting or in progress, not %s", domain.ErrIllegalTransition, input.ExpectedStatus)
	}
	if input.FinalPrice < 0 || (input.CommissionAmount != nil && *input.CommissionAmount < 0) {
		return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidArgument)
	}

	current, err := uc.caseRepo.GetCaseByID(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(input.ActorID) {
		actor, err := uc.partnerRepo.GetPartnerByID(ctx, input.ActorID)
		if err != nil || !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: case %s is not held by %s", domain.ErrNotOwner, input.CaseID, input.ActorID)
		}
	}

	updated, err := uc.caseRepo.ConditionalTransition(ctx, input.CaseID, input.ExpectedStatus, input.ExpectedStatus, domain.CaseMutations{
		ExpectedLeaderID: current.TeamLeaderID,
		PackageName:      input.PackageName,
		FinalPrice:       &input.FinalPrice,
		CommissionAmount: input.CommissionAmount,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("case price finalized",
		zap.String("case_id", updated.ID),
		zap.Int64("final_price", updated.FinalPrice),
		zap.Int64("commission_amount", updated.CommissionAmount),
	)
	return updated, nil
}
