package request

type CreateCaseRequest struct {
	CustomerID  string `json:"customer_id" validate:"required"`
	Location    string `json:"location" validate:"max=512"`
	PackageName string `json:"package_name" validate:"max=128"`
	Region      string `json:"region" validate:"max=64"`
}

type ClaimRequest struct {
	ConfirmOffDuty bool `json:"confirm_off_duty"`
}

type AssignRequest struct {
	SubordinateID string `json:"subordinate_id" validate:"required"`
	ConfirmBusy   bool   `json:"confirm_busy"`
}

type AdvanceRequest struct {
	ExpectedStatus string `json:"expected_status" validate:"required"`
	TargetStatus   string `json:"target_status" validate:"required"`
	Confirm        bool   `json:"confirm"`
}

type FinalizePriceRequest struct {
	ExpectedStatus   string  `json:"expected_status" validate:"required,oneof=consulting in_progress"`
	FinalPrice       int64   `json:"final_price" validate:"gte=0"`
	CommissionAmount *int64  `json:"commission_amount,omitempty" validate:"omitempty,gte=0"`
	PackageName      *string `json:"package_name,omitempty" validate:"omitempty,max=128"`
}

type RateCaseRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

type RefundRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Memo   string `json:"memo" validate:"max=512"`
}
