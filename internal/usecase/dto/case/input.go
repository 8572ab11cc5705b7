package casedto

import "github.com/LavaJover/promise-case-service/internal/domain"

type CreateCaseInput struct {
	CustomerID  string
	Location    string
	PackageName string
	Region      string
}

type ClaimInput struct {
	CaseID  string
	ActorID string
	// ConfirmOffDuty acknowledges that the actor is off and still wants the case.
	ConfirmOffDuty bool
}

type AssignInput struct {
	CaseID        string
	MasterID      string
	SubordinateID string
	// ConfirmBusy acknowledges that the subordinate is not waiting.
	ConfirmBusy bool
}

type AdvanceInput struct {
	CaseID         string
	ActorID        string
	ExpectedStatus domain.CaseStatus
	TargetStatus   domain.CaseStatus
	Confirm        bool
}

type FinalizePriceInput struct {
	CaseID           string
	ActorID          string
	ExpectedStatus   domain.CaseStatus
	FinalPrice       int64
	CommissionAmount *int64
	PackageName      *string
}

type RateCaseInput struct {
	CaseID  string
	ActorID string
	Score   int
}

type ListCasesInput struct {
	Statuses     []domain.CaseStatus
	Region       string
	TeamLeaderID string
	CustomerID   string
	Limit        int
}
