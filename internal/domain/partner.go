package domain

import (
	"context"
	"fmt"
	"time"
)

type Role string

const (
	RoleLeader    Role = "leader"
	RoleDealer    Role = "dealer"
	RoleAssistant Role = "assistant"
	RoleMaster    Role = "master"
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
)

// Grade is an ordinal rank. Zero value is "no grade".
type Grade string

const (
	GradeNone   Grade = ""
	GradeC      Grade = "C"
	GradeB      Grade = "B"
	GradeA      Grade = "A"
	GradeMaster Grade = "Master"
)

var gradeRank = map[Grade]int{GradeNone: 0, GradeC: 1, GradeB: 2, GradeA: 3, GradeMaster: 4}

func ParseGrade(s string) (Grade, error) {
	g := Grade(s)
	if _, ok := gradeRank[g]; !ok {
		return "", fmt.Errorf("%w: unknown grade %q", ErrInvalidArgument, s)
	}
	return g, nil
}

func (g Grade) Less(other Grade) bool { return gradeRank[g] < gradeRank[other] }

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalSuspended ApprovalStatus = "suspended"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch st := ApprovalStatus(s); st {
	case ApprovalPending, ApprovalApproved, ApprovalSuspended:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown approval status %q", ErrInvalidArgument, s)
}

type Availability string

const (
	AvailabilityWaiting Availability = "waiting"
	AvailabilityWorking Availability = "working"
	AvailabilityOff     Availability = "off"
)

func ParseAvailability(s string) (Availability, error) {
	switch a := Availability(s); a {
	case AvailabilityWaiting, AvailabilityWorking, AvailabilityOff:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown availability %q", ErrInvalidArgument, s)
}

type Partner struct {
	UserID         string
	Name           string
	Role           Role
	Grade          Grade
	Region         string
	MasterID       *string
	ApprovalStatus ApprovalStatus
	Availability   Availability
	DepositBalance int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Partner) IsApproved() bool { return p.ApprovalStatus == ApprovalApproved }

func (p *Partner) IsAdmin() bool { return p.Role == RoleAdmin }

// CanClaim reports whether the partner's role lets it take cases at all.
// Dealers sell and serve their own cases like leaders do.
func (p *Partner) CanClaim() bool {
	return p.Role == RoleLeader || p.Role == RoleDealer || p.Role == RoleMaster
}

// HasUpline is true for partners that report to a master and are not
// themselves Master-grade.
func (p *Partner) HasUpline() bool {
	return p.MasterID != nil && *p.MasterID != "" && p.Grade != GradeMaster
}

func (p *Partner) ReportsTo(masterID string) bool {
	return p.MasterID != nil && *p.MasterID == masterID
}

type PartnerFilter struct {
	MasterID     string
	Availability Availability
	Role         Role
	Region       string
}

type PartnerRepository interface {
	CreatePartner(ctx context.Context, p *Partner) error
	GetPartnerByID(ctx context.Context, partnerID string) (*Partner, error)
	// LockPartner reads the partner and holds a row lock until the
	// transaction in ctx ends: exclusive for standing changes, shared for
	// claims that depend on the standing.
	LockPartner(ctx context.Context, partnerID string, exclusive bool) (*Partner, error)
	ListPartners(ctx context.Context, filter PartnerFilter) ([]*Partner, error)
	UpdateAvailability(ctx context.Context, partnerID string, state Availability) error
	UpdateApproval(ctx context.Context, partnerID string, status ApprovalStatus, masterID *string) error
	UpdateGrade(ctx context.Context, partnerID string, grade Grade) error
	// AdjustDeposit adds delta (may be negative) to the deposit balance and
	// returns the new balance.
	AdjustDeposit(ctx context.Context, partnerID string, delta int64) (int64, error)
}
