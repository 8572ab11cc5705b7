package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/google/uuid"
)

func (s *Store) CreateSettlements(ctx context.Context, settlements []*domain.Settlement) error {
	defer s.lock(ctx)()

	now := time.Now()
	for _, st := range settlements {
		if s.hasSettlementTuple(st.CaseID, st.RecipientID, st.Type) {
			continue
		}
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		if st.Status == "" {
			st.Status = domain.SettlementPending
		}
		st.CreatedAt, st.UpdatedAt = now, now

		row := &domainSettlement{Settlement: *st, seq: s.nextSeq()}
		row.PayerID = cloneString(st.PayerID)
		row.AdminMemo = cloneString(st.AdminMemo)
		s.settlements[st.ID] = row
	}
	return nil
}

func (s *Store) hasSettlementTuple(caseID, recipientID string, typ domain.SettlementType) bool {
	for _, row := range s.settlements {
		if row.CaseID == caseID && row.RecipientID == recipientID && row.Type == typ {
			return true
		}
	}
	return false
}

func (s *Store) GetSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	defer s.lock(ctx)()

	row, ok := s.settlements[settlementID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row.out(), nil
}

func (s *Store) ListSettlements(ctx context.Context, filter domain.SettlementFilter) ([]*domain.Settlement, error) {
	defer s.lock(ctx)()

	rows := make([]*domainSettlement, 0)
	for _, row := range s.settlements {
		if filter.CaseID != "" && row.CaseID != filter.CaseID {
			continue
		}
		if filter.RecipientID != "" && row.RecipientID != filter.RecipientID {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]*domain.Settlement, len(rows))
	for i, row := range rows {
		out[i] = row.out()
	}
	return out, nil
}

func (s *Store) MarkSettlement(
	ctx context.Context,
	settlementID string,
	status domain.SettlementStatus,
	memo *string,
	prePaid bool,
) (*domain.Settlement, error) {
	return s.updatePending(ctx, settlementID, func(st *domain.Settlement) {
		st.Status = status
		if memo != nil {
			st.AdminMemo = cloneString(memo)
		}
		if prePaid {
			st.IsPrePaid = true
		}
	})
}

func (s *Store) OverrideAmount(ctx context.Context, settlementID string, amount int64, memo string) (*domain.Settlement, error) {
	return s.updatePending(ctx, settlementID, func(st *domain.Settlement) {
		st.Amount = amount
		st.AdminMemo = &memo
	})
}

func (s *Store) updatePending(ctx context.Context, settlementID string, fn func(st *domain.Settlement)) (*domain.Settlement, error) {
	defer s.lock(ctx)()

	row, ok := s.settlements[settlementID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if row.Status != domain.SettlementPending {
		return row.out(), fmt.Errorf("%w: settlement %s is %s", domain.ErrAlreadyFinal, settlementID, row.Status)
	}

	updated := &domainSettlement{Settlement: *row.out(), seq: row.seq}
	fn(&updated.Settlement)
	updated.UpdatedAt = time.Now()
	s.settlements[settlementID] = updated
	return updated.out(), nil
}

func (s *Store) CreateDepositTransaction(ctx context.Context, tx *domain.DepositTransaction) error {
	defer s.lock(ctx)()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	tx.CreatedAt = time.Now()
	row := &domainDeposit{DepositTransaction: *tx, seq: s.nextSeq()}
	row.SettlementID = cloneString(tx.SettlementID)
	s.deposits = append(s.deposits, row)
	return nil
}

// ListDepositTransactions returns the ledger newest first.
func (s *Store) ListDepositTransactions(ctx context.Context, partnerID string) ([]*domain.DepositTransaction, error) {
	defer s.lock(ctx)()

	out := make([]*domain.DepositTransaction, 0)
	for i := len(s.deposits) - 1; i >= 0; i-- {
		if s.deposits[i].PartnerID == partnerID {
			out = append(out, s.deposits[i].out())
		}
	}
	return out, nil
}
