package domain

import "fmt"

type CaseStatus string

const (
	StatusRequested    CaseStatus = "requested"
	StatusAssigned     CaseStatus = "assigned"
	StatusConsulting   CaseStatus = "consulting"
	StatusInProgress   CaseStatus = "in_progress"
	StatusTeamSettling CaseStatus = "team_settling"
	StatusHQCheck      CaseStatus = "hq_check"
	StatusCompleted    CaseStatus = "completed"
)

var caseProgress = []CaseStatus{
	StatusRequested,
	StatusAssigned,
	StatusConsulting,
	StatusInProgress,
	StatusTeamSettling,
	StatusHQCheck,
	StatusCompleted,
}

// legalTransitions is the whole graph: one step forward, plus the release of
// a claim while consulting.
var legalTransitions = map[CaseStatus][]CaseStatus{
	StatusRequested:    {StatusAssigned},
	StatusAssigned:     {StatusConsulting},
	StatusConsulting:   {StatusInProgress, StatusRequested},
	StatusInProgress:   {StatusTeamSettling},
	StatusTeamSettling: {StatusHQCheck},
	StatusHQCheck:      {StatusCompleted},
	StatusCompleted:    {},
}

func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if _, ok := legalTransitions[status]; !ok {
		return "", fmt.Errorf("%w: unknown case status %q", ErrInvalidArgument, s)
	}
	return status, nil
}

func (s CaseStatus) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether a claimant is currently working the case.
func (s CaseStatus) IsActive() bool {
	switch s {
	case StatusAssigned, StatusConsulting, StatusInProgress, StatusTeamSettling:
		return true
	}
	return false
}

// Rank is the position of s in the progress order, -1 if unknown.
func (s CaseStatus) Rank() int {
	for i, st := range caseProgress {
		if st == s {
			return i
		}
	}
	return -1
}

func ActiveCaseStatuses() []CaseStatus {
	return []CaseStatus{StatusAssigned, StatusConsulting, StatusInProgress, StatusTeamSettling}
}

func ValidateTransition(from, to CaseStatus) error {
	if !from.Valid() || !to.Valid() || !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}
