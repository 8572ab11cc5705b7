package request

type RegisterPartnerRequest struct {
	UserID   string  `json:"user_id" validate:"omitempty,uuid"`
	Name     string  `json:"name" validate:"required,max=128"`
	Role     string  `json:"role" validate:"required,oneof=leader dealer assistant master customer admin"`
	Grade    string  `json:"grade" validate:"omitempty,oneof=C B A Master"`
	Region   string  `json:"region" validate:"max=64"`
	MasterID *string `json:"master_id,omitempty"`
}

type AvailabilityRequest struct {
	Availability string `json:"availability" validate:"required,oneof=waiting working off"`
}

type ApprovalRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved suspended"`
}

type GradeRequest struct {
	Grade string `json:"grade" validate:"oneof=C B A Master"`
}

type ApproveApplicantRequest struct {
	MasterID string `json:"master_id" validate:"required"`
}

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
