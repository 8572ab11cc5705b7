package request

type RecordPaymentRequest struct {
	Status      string  `json:"status" validate:"required,oneof=paid completed"`
	Memo        *string `json:"memo,omitempty" validate:"omitempty,max=512"`
	FromDeposit bool    `json:"from_deposit"`
}

type OverrideAmountRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Memo   string `json:"memo" validate:"required,max=512"`
}
