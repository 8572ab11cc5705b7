package settlement

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
)

func (uc *DefaultSettlementUsecase) GetSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	return uc.settlementRepo.GetSettlementByID(ctx, settlementID)
}

func (uc *DefaultSettlementUsecase) ListSettlements(ctx context.Context, input *settlementdto.ListSettlementsInput) ([]*domain.Settlement, error) {
	return uc.settlementRepo.ListSettlements(ctx, domain.SettlementFilter{
		CaseID:      input.CaseID,
		RecipientID: input.RecipientID,
		Status:      input.Status,
		Type:        input.Type,
	})
}

// Summary totals settlement amounts by bucket, across everyone or for one
// recipient.
func (uc *DefaultSettlementUsecase) Summary(ctx context.Context, recipientID string) (*domain.SettlementSummary, error) {
	rows, err := uc.settlementRepo.ListSettlements(ctx, domain.SettlementFilter{RecipientID: recipientID})
	if err != nil {
		return nil, err
	}

	var summary domain.SettlementSummary
	for _, s := range rows {
		switch {
		case s.Status == domain.SettlementPending && s.Type.IsRemittance():
			summary.PendingRemittances += s.Amount
		case s.Status == domain.SettlementPending:
			summary.PendingPayouts += s.Amount
		case s.Status == domain.SettlementCompleted:
			summary.Completed += s.Amount
		case s.Status == domain.SettlementPaid:
			summary.Paid += s.Amount
		}
	}
	return &summary, nil
}
