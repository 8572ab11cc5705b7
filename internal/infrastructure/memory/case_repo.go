package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/google/uuid"
)

func (s *Store) CreateCase(ctx context.Context, c *domain.Case) error {
	defer s.lock(ctx)()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, exists := s.cases[c.ID]; exists {
		return fmt.Errorf("%w: case %s already exists", domain.ErrConflict, c.ID)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	row := &domainCase{Case: *c, seq: s.nextSeq()}
	row.TeamLeaderID = cloneString(c.TeamLeaderID)
	s.cases[c.ID] = row
	return nil
}

func (s *Store) GetCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	defer s.lock(ctx)()

	row, ok := s.cases[caseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row.out(), nil
}

func (s *Store) ListCases(ctx context.Context, filter domain.CaseFilter) ([]*domain.Case, error) {
	defer s.lock(ctx)()

	rows := make([]*domainCase, 0)
	for _, row := range s.cases {
		if caseMatches(row, filter) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}

	cases := make([]*domain.Case, len(rows))
	for i, row := range rows {
		cases[i] = row.out()
	}
	return cases, nil
}

func caseMatches(row *domainCase, filter domain.CaseFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, st := range filter.Statuses {
			if row.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Region != "" && row.Region != filter.Region {
		return false
	}
	if filter.TeamLeaderID != "" && row.LeaderID() != filter.TeamLeaderID {
		return false
	}
	if filter.CustomerID != "" && row.CustomerID != filter.CustomerID {
		return false
	}
	return true
}

func (s *Store) CountActiveByLeader(ctx context.Context, leaderID string) (int64, error) {
	defer s.lock(ctx)()

	var count int64
	for _, row := range s.cases {
		if row.OwnedBy(leaderID) && row.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (s *Store) ConditionalTransition(
	ctx context.Context,
	caseID string,
	expected, next domain.CaseStatus,
	mutations domain.CaseMutations,
) (*domain.Case, error) {
	defer s.lock(ctx)()

	row, ok := s.cases[caseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if row.Status != expected {
		return nil, fmt.Errorf("%w: case %s is %s, expected %s", domain.ErrConflict, caseID, row.Status, expected)
	}
	if mutations.ExpectedLeaderID != nil && row.LeaderID() != *mutations.ExpectedLeaderID {
		return nil, fmt.Errorf("%w: case %s is held by %q, expected %q", domain.ErrConflict, caseID, row.LeaderID(), *mutations.ExpectedLeaderID)
	}

	updated := &domainCase{Case: *row.out(), seq: row.seq}
	updated.Status = next
	updated.UpdatedAt = time.Now()
	switch {
	case mutations.ClearTeamLeader:
		updated.TeamLeaderID = nil
	case mutations.TeamLeaderID != nil:
		updated.TeamLeaderID = cloneString(mutations.TeamLeaderID)
	}
	if mutations.PackageName != nil {
		updated.PackageName = *mutations.PackageName
	}
	if mutations.FinalPrice != nil {
		updated.FinalPrice = *mutations.FinalPrice
	}
	if mutations.CommissionAmount != nil {
		updated.CommissionAmount = *mutations.CommissionAmount
	}
	if mutations.MasterRating != nil {
		updated.MasterRating = cloneInt(mutations.MasterRating)
	}
	if mutations.CustomerRating != nil {
		updated.CustomerRating = cloneInt(mutations.CustomerRating)
	}

	s.cases[caseID] = updated
	return updated.out(), nil
}
