// Package memory is a process-local implementation of the case store. It is
// used for the "memory" database driver and by the usecase tests.
package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type txKey struct{}

// Store holds every table behind one mutex. A transaction keeps the mutex for
// its whole duration and restores a snapshot if fn fails, so transactions are
// serializable.
type Store struct {
	mu          sync.Mutex
	cases       map[string]*domainCase
	partners    map[string]*domainPartner
	settlements map[string]*domainSettlement
	deposits    []*domainDeposit
	seq         int64
}

func NewStore() *Store {
	return &Store{
		cases:       make(map[string]*domainCase),
		partners:    make(map[string]*domainPartner),
		settlements: make(map[string]*domainSettlement),
	}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock takes the store mutex unless ctx already runs inside a transaction of
// this store, which holds it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// nextSeq orders rows created within the same clock tick.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

type snapshot struct {
	cases       map[string]*domainCase
	partners    map[string]*domainPartner
	settlements map[string]*domainSettlement
	deposits    []*domainDeposit
}

// Rows are never mutated in place, so copying the maps is enough.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		cases:       make(map[string]*domainCase, len(s.cases)),
		partners:    make(map[string]*domainPartner, len(s.partners)),
		settlements: make(map[string]*domainSettlement, len(s.settlements)),
		deposits:    append([]*domainDeposit(nil), s.deposits...),
	}
	for k, v := range s.cases {
		snap.cases[k] = v
	}
	for k, v := range s.partners {
		snap.partners[k] = v
	}
	for k, v := range s.settlements {
		snap.settlements[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.cases = snap.cases
	s.partners = snap.partners
	s.settlements = snap.settlements
	s.deposits = snap.deposits
}

var (
	_ domain.CaseRepository       = (*Store)(nil)
	_ domain.PartnerRepository    = (*Store)(nil)
	_ domain.SettlementRepository = (*Store)(nil)
	_ domain.DepositRepository    = (*Store)(nil)
	_ domain.Transactor           = (*Store)(nil)
)
