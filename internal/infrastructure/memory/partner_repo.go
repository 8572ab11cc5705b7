package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/google/uuid"
)

func (s *Store) CreatePartner(ctx context.Context, p *domain.Partner) error {
	defer s.lock(ctx)()

	if p.UserID == "" {
		p.UserID = uuid.New().String()
	}
	if _, exists := s.partners[p.UserID]; exists {
		return fmt.Errorf("%w: partner %s already exists", domain.ErrConflict, p.UserID)
	}
	if p.ApprovalStatus == "" {
		p.ApprovalStatus = domain.ApprovalPending
	}
	if p.Availability == "" {
		p.Availability = domain.AvailabilityOff
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	row := &domainPartner{Partner: *p, seq: s.nextSeq()}
	row.MasterID = cloneString(p.MasterID)
	s.partners[p.UserID] = row
	return nil
}

// LockPartner needs no row lock here: a transaction already holds the store.
func (s *Store) LockPartner(ctx context.Context, partnerID string, _ bool) (*domain.Partner, error) {
	return s.GetPartnerByID(ctx, partnerID)
}

func (s *Store) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	defer s.lock(ctx)()

	row, ok := s.partners[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row.out(), nil
}

func (s *Store) ListPartners(ctx context.Context, filter domain.PartnerFilter) ([]*domain.Partner, error) {
	defer s.lock(ctx)()

	rows := make([]*domainPartner, 0)
	for _, row := range s.partners {
		if filter.MasterID != "" && !row.ReportsTo(filter.MasterID) {
			continue
		}
		if filter.Availability != "" && row.Availability != filter.Availability {
			continue
		}
		if filter.Role != "" && row.Role != filter.Role {
			continue
		}
		if filter.Region != "" && row.Region != filter.Region {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	partners := make([]*domain.Partner, len(rows))
	for i, row := range rows {
		partners[i] = row.out()
	}
	return partners, nil
}

func (s *Store) UpdateAvailability(ctx context.Context, partnerID string, state domain.Availability) error {
	return s.updatePartner(ctx, partnerID, func(p *domain.Partner) error {
		p.Availability = state
		return nil
	})
}

func (s *Store) UpdateApproval(ctx context.Context, partnerID string, status domain.ApprovalStatus, masterID *string) error {
	return s.updatePartner(ctx, partnerID, func(p *domain.Partner) error {
		p.ApprovalStatus = status
		if masterID != nil {
			p.MasterID = cloneString(masterID)
		}
		return nil
	})
}

func (s *Store) UpdateGrade(ctx context.Context, partnerID string, grade domain.Grade) error {
	return s.updatePartner(ctx, partnerID, func(p *domain.Partner) error {
		p.Grade = grade
		return nil
	})
}

func (s *Store) AdjustDeposit(ctx context.Context, partnerID string, delta int64) (int64, error) {
	var balance int64
	err := s.updatePartner(ctx, partnerID, func(p *domain.Partner) error {
		balance = p.DepositBalance
		if p.DepositBalance+delta < 0 {
			return domain.ErrInsufficientDeposit
		}
		p.DepositBalance += delta
		balance = p.DepositBalance
		return nil
	})
	return balance, err
}

// updatePartner replaces the stored row with a modified copy; nothing is
// written when fn fails.
func (s *Store) updatePartner(ctx context.Context, partnerID string, fn func(p *domain.Partner) error) error {
	defer s.lock(ctx)()

	row, ok := s.partners[partnerID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := &domainPartner{Partner: *row.out(), seq: row.seq}
	if err := fn(&updated.Partner); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now()
	s.partners[partnerID] = updated
	return nil
}
