package settlementdto

import "github.com/LavaJover/promise-case-service/internal/domain"

type RecordPaymentInput struct {
	SettlementID string
	Status       domain.SettlementStatus
	Memo         *string
	// FromDeposit settles a remittance out of the payer's deposit balance.
	FromDeposit bool
}

type OverrideAmountInput struct {
	SettlementID string
	Amount       int64
	Memo         string
}

type IssueRefundInput struct {
	CaseID string
	Amount int64
	Memo   string
}

type ListSettlementsInput struct {
	CaseID      string
	RecipientID string
	Status      domain.SettlementStatus
	Type        domain.SettlementType
}
