package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

func (uc *DefaultSettlementUsecase) RecordSettlementPayment(ctx context.Context, input *settlementdto.RecordPaymentInput) (*domain.Settlement, error) {
	defer uc.metrics.ObserveDuration("record_payment", time.Now())

	current, err := uc.settlementRepo.GetSettlementByID(ctx, input.SettlementID)
	if err != nil {
		return nil, err
	}
	if err := current.ValidatePaymentTransition(input.Status); err != nil {
		uc.metrics.RecordError("record_payment", "illegal_transition")
		return nil, err
	}
	if input.Status == domain.SettlementPaid && uc.opts.PayoutWindowClosed {
		return nil, domain.ErrPayoutWindowClosed
	}
	if input.FromDeposit && !current.Type.IsRemittance() {
		return nil, fmt.Errorf("%w: only remittances can be settled from deposit", domain.ErrInvalidArgument)
	}

	c, err := uc.caseRepo.GetCaseByID(ctx, current.CaseID)
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", current.CaseID, err)
	}
	// Headquarters confirms a remittance only after the leader reported it.
	if current.Type.IsRemittance() && c.Status.Rank() < domain.StatusHQCheck.Rank() {
		return nil, fmt.Errorf("%w: case %s is %s, remittance needs %s", domain.ErrIllegalTransition, c.ID, c.Status, domain.StatusHQCheck)
	}
	prePaid := input.Status == domain.SettlementPaid && c.Status != domain.StatusCompleted

	var updated *domain.Settlement
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = uc.settlementRepo.MarkSettlement(ctx, input.SettlementID, input.Status, input.Memo, prePaid)
		if err != nil {
			return err
		}
		if input.FromDeposit {
			return uc.chargeDeposit(ctx, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordSettlementPayment(string(updated.Type), string(updated.Status))
	uc.events.Emit(ctx, usecase.SettlementEvent(domain.EventSettlementStatusChanged, updated, current.Status))
	uc.logger.Info("settlement status changed",
		zap.String("settlement_id", updated.ID),
		zap.String("type", string(updated.Type)),
		zap.String("status", string(updated.Status)),
		zap.Bool("pre_paid", updated.IsPrePaid),
		zap.Bool("from_deposit", input.FromDeposit),
	)
	return updated, nil
}

func (uc *DefaultSettlementUsecase) chargeDeposit(ctx context.Context, s *domain.Settlement) error {
	if s.PayerID == nil {
		return fmt.Errorf("%w: remittance %s has no payer", domain.ErrInvalidArgument, s.ID)
	}
	balance, err := uc.partnerRepo.AdjustDeposit(ctx, *s.PayerID, -s.Amount)
	if err != nil {
		return fmt.Errorf("payer %s: %w", *s.PayerID, err)
	}
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return err
	}
	settlementID := s.ID
	return uc.depositRepo.CreateDepositTransaction(ctx, &domain.DepositTransaction{
		ID:           idGenerator(),
		PartnerID:    *s.PayerID,
		Kind:         domain.DepositKindUsageFee,
		Amount:       -s.Amount,
		BalanceAfter: balance,
		SettlementID: &settlementID,
	})
}

// OverrideSettlementAmount corrects a pending row. Final rows are immutable.
func (uc *DefaultSettlementUsecase) OverrideSettlementAmount(ctx context.Context, input *settlementdto.OverrideAmountInput) (*domain.Settlement, error) {
	if input.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidArgument)
	}

	current, err := uc.settlementRepo.GetSettlementByID(ctx, input.SettlementID)
	if err != nil {
		return nil, err
	}
	if current.Status.IsFinal() {
		uc.metrics.RecordError("override_amount", "already_final")
		return nil, fmt.Errorf("%w: settlement %s is %s", domain.ErrAlreadyFinal, current.ID, current.Status)
	}

	updated, err := uc.settlementRepo.OverrideAmount(ctx, input.SettlementID, input.Amount, input.Memo)
	if err != nil {
		return nil, err
	}

	uc.events.Emit(ctx, usecase.SettlementEvent(domain.EventSettlementAmountChanged, updated, current.Status))
	uc.logger.Info("settlement amount overridden",
		zap.String("settlement_id", updated.ID),
		zap.Int64("from", current.Amount),
		zap.Int64("to", updated.Amount),
	)
	return updated, nil
}
