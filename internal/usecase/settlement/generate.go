package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"go.uber.org/zap"
)

// GenerateCaseSettlements creates the monetary rows of a case the first time
// it is called; afterwards it returns the existing rows and creates nothing.
// Rows whose computed amount is zero are not created.
func (uc *DefaultSettlementUsecase) GenerateCaseSettlements(ctx context.Context, c *domain.Case) (*settlementdto.GenerateOutput, error) {
	existing, err := uc.settlementRepo.ListSettlements(ctx, domain.SettlementFilter{CaseID: c.ID})
	if err != nil {
		return nil, err
	}
	if hasGenerated(existing) {
		return &settlementdto.GenerateOutput{Settlements: existing}, nil
	}

	if c.TeamLeaderID == nil {
		return nil, fmt.Errorf("%w: case %s has no claimant", domain.ErrIllegalTransition, c.ID)
	}
	operator, err := uc.partnerRepo.GetPartnerByID(ctx, *c.TeamLeaderID)
	if err != nil {
		return nil, fmt.Errorf("claimant %s: %w", *c.TeamLeaderID, err)
	}

	upline, err := uc.resolveUpline(ctx, operator)
	if err != nil {
		return nil, err
	}

	rows := uc.computeSettlements(c, operator, upline)
	if err := uc.settlementRepo.CreateSettlements(ctx, rows); err != nil {
		return nil, err
	}

	all, err := uc.settlementRepo.ListSettlements(ctx, domain.SettlementFilter{CaseID: c.ID})
	if err != nil {
		return nil, err
	}
	created := make([]*domain.Settlement, 0, len(rows))
	for _, s := range all {
		for _, r := range rows {
			if s.ID == r.ID {
				created = append(created, s)
			}
		}
	}

	uc.logger.Info("case settlements generated",
		zap.String("case_id", c.ID),
		zap.String("operator_id", operator.UserID),
		zap.Int64("final_price", c.FinalPrice),
		zap.Int("created", len(created)),
	)
	return &settlementdto.GenerateOutput{Settlements: all, Created: created}, nil
}

// hasGenerated ignores refunds, which may be issued at any time.
func hasGenerated(rows []*domain.Settlement) bool {
	for _, s := range rows {
		if s.Type != domain.SettlementRefund {
			return true
		}
	}
	return false
}

// resolveUpline returns nil for a partner without an upline. A dangling
// master reference is logged and treated as no upline.
func (uc *DefaultSettlementUsecase) resolveUpline(ctx context.Context, operator *domain.Partner) (*domain.Partner, error) {
	if !operator.HasUpline() {
		return nil, nil
	}
	master, err := uc.partnerRepo.GetPartnerByID(ctx, *operator.MasterID)
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("upline not found, skipping override",
			zap.String("operator_id", operator.UserID),
			zap.String("master_id", *operator.MasterID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return master, nil
}

func (uc *DefaultSettlementUsecase) computeSettlements(c *domain.Case, operator, upline *domain.Partner) []*domain.Settlement {
	rate := uc.rates.Lookup(operator.Role, operator.Grade)
	rows := make([]*domain.Settlement, 0, 3)

	if amount := rate.Commission(c.FinalPrice); amount > 0 {
		rows = append(rows, &domain.Settlement{
			CaseID:      c.ID,
			RecipientID: operator.UserID,
			Type:        domain.SettlementDealerCommission,
			Amount:      amount,
			Status:      domain.SettlementPending,
		})
	}

	if upline != nil {
		if amount := rate.Override(c.FinalPrice); amount > 0 {
			overrideType := domain.SettlementLeaderOverride
			if operator.Role == domain.RoleDealer {
				overrideType = domain.SettlementDealerOverride
			}
			rows = append(rows, &domain.Settlement{
				CaseID:      c.ID,
				RecipientID: upline.UserID,
				Type:        overrideType,
				Amount:      amount,
				Status:      domain.SettlementPending,
			})
		}
	}

	fee := c.CommissionAmount
	if fee <= 0 {
		fee = rate.UsageFee(c.FinalPrice)
	}
	if fee > 0 {
		payer := operator.UserID
		rows = append(rows, &domain.Settlement{
			CaseID:      c.ID,
			RecipientID: uc.opts.HeadquartersID,
			PayerID:     &payer,
			Type:        domain.SettlementUsageFeeRemittance,
			Amount:      fee,
			Status:      domain.SettlementPending,
		})
	}
	return rows
}
