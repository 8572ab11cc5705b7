package caseflow

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
)

func (uc *DefaultCaseUsecase) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return uc.caseRepo.GetCaseByID(ctx, caseID)
}

// ListClaimable returns unclaimed cases, oldest first.
func (uc *DefaultCaseUsecase) ListClaimable(ctx context.Context, region string) ([]*domain.Case, error) {
	return uc.caseRepo.ListCases(ctx, domain.CaseFilter{
		Statuses: []domain.CaseStatus{domain.StatusRequested},
		Region:   region,
	})
}

func (uc *DefaultCaseUsecase) ListCases(ctx context.Context, input *casedto.ListCasesInput) ([]*domain.Case, error) {
	return uc.caseRepo.ListCases(ctx, domain.CaseFilter{
		Statuses:     input.Statuses,
		Region:       input.Region,
		TeamLeaderID: input.TeamLeaderID,
		CustomerID:   input.CustomerID,
		Limit:        input.Limit,
	})
}
