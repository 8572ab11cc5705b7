package domain

import (
	"context"
	"time"
)

type DepositKind string

const (
	DepositKindDeposit  DepositKind = "deposit"
	DepositKindUsageFee DepositKind = "usage_fee"
)

// DepositTransaction is one row of a leader's wallet ledger.
type DepositTransaction struct {
	ID           string
	PartnerID    string
	Kind         DepositKind
	Amount       int64
	BalanceAfter int64
	SettlementID *string
	CreatedAt    time.Time
}

type DepositRepository interface {
	CreateDepositTransaction(ctx context.Context, tx *DepositTransaction) error
	ListDepositTransactions(ctx context.Context, partnerID string) ([]*DepositTransaction, error)
}
