package domain

import (
	"context"
	"fmt"
	"time"
)

type SettlementType string

const (
	SettlementDealerCommission   SettlementType = "dealer_commission"
	SettlementLeaderOverride     SettlementType = "leader_override"
	SettlementDealerOverride     SettlementType = "dealer_override"
	SettlementUsageFeeRemittance SettlementType = "usage_fee_remittance"
	SettlementRefund             SettlementType = "refund"
)

// IsRemittance is true for money owed to headquarters rather than by it.
func (t SettlementType) IsRemittance() bool { return t == SettlementUsageFeeRemittance }

func (t SettlementType) IsOverride() bool {
	return t == SettlementLeaderOverride || t == SettlementDealerOverride
}

type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementPaid      SettlementStatus = "paid"
	SettlementCompleted SettlementStatus = "completed"
)

func ParseSettlementStatus(s string) (SettlementStatus, error) {
	switch st := SettlementStatus(s); st {
	case SettlementPending, SettlementPaid, SettlementCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown settlement status %q", ErrInvalidArgument, s)
}

func (s SettlementStatus) IsFinal() bool {
	return s == SettlementPaid || s == SettlementCompleted
}

type Settlement struct {
	ID          string
	CaseID      string
	RecipientID string
	// PayerID is set on remittances: the operator who owes headquarters.
	PayerID   *string
	Type      SettlementType
	Amount    int64
	Status    SettlementStatus
	AdminMemo *string
	IsPrePaid bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidatePaymentTransition enforces pending -> paid for payouts and
// pending -> completed for remittances; nothing leaves a final status.
func (s *Settlement) ValidatePaymentTransition(next SettlementStatus) error {
	if s.Status.IsFinal() {
		return fmt.Errorf("%w: settlement %s is %s", ErrIllegalTransition, s.ID, s.Status)
	}
	switch next {
	case SettlementPaid:
		if s.Type.IsRemittance() {
			return fmt.Errorf("%w: remittance %s can only be completed", ErrIllegalTransition, s.ID)
		}
	case SettlementCompleted:
		if !s.Type.IsRemittance() {
			return fmt.Errorf("%w: payout %s can only be paid", ErrIllegalTransition, s.ID)
		}
	default:
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, next)
	}
	return nil
}

type SettlementFilter struct {
	CaseID      string
	RecipientID string
	Status      SettlementStatus
	Type        SettlementType
}

type SettlementSummary struct {
	PendingPayouts     int64
	PendingRemittances int64
	Completed          int64
	Paid               int64
}

type SettlementRepository interface {
	// CreateSettlements inserts rows, skipping any (case, recipient, type)
	// tuple that already exists.
	CreateSettlements(ctx context.Context, settlements []*Settlement) error
	GetSettlementByID(ctx context.Context, settlementID string) (*Settlement, error)
	ListSettlements(ctx context.Context, filter SettlementFilter) ([]*Settlement, error)
	// MarkSettlement flips a pending row to status; ErrAlreadyFinal if it is
	// no longer pending.
	MarkSettlement(ctx context.Context, settlementID string, status SettlementStatus, memo *string, prePaid bool) (*Settlement, error)
	// OverrideAmount rewrites amount and memo of a pending row; ErrAlreadyFinal
	// if it is no longer pending.
	OverrideAmount(ctx context.Context, settlementID string, amount int64, memo string) (*Settlement, error)
}
