package partnerdto

import "github.com/LavaJover/promise-case-service/internal/domain"

type RegisterPartnerInput struct {
	UserID   string
	Name     string
	Role     domain.Role
	Grade    domain.Grade
	Region   string
	MasterID *string
}

type DepositInput struct {
	PartnerID string
	Amount    int64
}
