package domain

import (
	"context"
	"time"
)

type Case struct {
	ID               string
	CustomerID       string
	Location         string
	PackageName      string
	Region           string
	Status           CaseStatus
	TeamLeaderID     *string
	FinalPrice       int64
	CommissionAmount int64
	MasterRating     *int
	CustomerRating   *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LeaderID returns the claimant or an empty string for an unclaimed case.
func (c *Case) LeaderID() string {
	if c.TeamLeaderID == nil {
		return ""
	}
	return *c.TeamLeaderID
}

func (c *Case) OwnedBy(partnerID string) bool {
	return c.TeamLeaderID != nil && *c.TeamLeaderID == partnerID
}

// CaseMutations are field changes applied in the same guarded update as a
// status change. Nil fields are left untouched.
type CaseMutations struct {
	// ExpectedLeaderID widens the guard: the claimant must still be this
	// partner for the update to apply.
	ExpectedLeaderID *string

	TeamLeaderID     *string
	ClearTeamLeader  bool
	PackageName      *string
	FinalPrice       *int64
	CommissionAmount *int64
	MasterRating     *int
	CustomerRating   *int
}

type CaseFilter struct {
	Statuses     []CaseStatus
	Region       string
	TeamLeaderID string
	CustomerID   string
	Limit        int
}

type CaseRepository interface {
	CreateCase(ctx context.Context, c *Case) error
	GetCaseByID(ctx context.Context, caseID string) (*Case, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]*Case, error)
	CountActiveByLeader(ctx context.Context, leaderID string) (int64, error)
	// ConditionalTransition applies next and mutations only if the stored
	// status still equals expected. It returns ErrConflict when it does not
	// and ErrNotFound when the case does not exist.
	ConditionalTransition(ctx context.Context, caseID string, expected, next CaseStatus, mutations CaseMutations) (*Case, error)
}

// Transactor runs fn inside one storage transaction carried by ctx.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
