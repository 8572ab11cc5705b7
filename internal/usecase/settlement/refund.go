package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"go.uber.org/zap"
)

// IssueRefund records one refund to the case's customer.
func (uc *DefaultSettlementUsecase) IssueRefund(ctx context.Context, input *settlementdto.IssueRefundInput) (*domain.Settlement, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: refund amount must be positive", domain.ErrInvalidArgument)
	}
	c, err := uc.caseRepo.GetCaseByID(ctx, input.CaseID)
	if err != nil {
		return nil, err
	}

	var memo *string
	if input.Memo != "" {
		memo = &input.Memo
	}
	refund := &domain.Settlement{
		CaseID:      c.ID,
		RecipientID: c.CustomerID,
		Type:        domain.SettlementRefund,
		Amount:      input.Amount,
		Status:      domain.SettlementPending,
		AdminMemo:   memo,
	}

	var created *domain.Settlement
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := uc.settlementRepo.ListSettlements(ctx, domain.SettlementFilter{
			CaseID: c.ID,
			Type:   domain.SettlementRefund,
		})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: case %s already has a refund", domain.ErrConflict, c.ID)
		}
		if err := uc.settlementRepo.CreateSettlements(ctx, []*domain.Settlement{refund}); err != nil {
			return err
		}
		// A concurrent refund that committed first makes the insert a no-op.
		created, err = uc.settlementRepo.GetSettlementByID(ctx, refund.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: case %s already has a refund", domain.ErrConflict, c.ID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordSettlementCreated(string(created.Type), created.Amount)
	uc.events.Emit(ctx, usecase.SettlementEvent(domain.EventSettlementCreated, created, ""))
	uc.logger.Info("refund issued", zap.String("case_id", c.ID), zap.Int64("amount", created.Amount))
	return created, nil
}
