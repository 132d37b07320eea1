package store

import (
	"context"
	"sync"

	"bookbarter/pkg/domain"
)

// MemoryStore keeps the ledger in-process. Used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	members []domain.Member
	loans   map[string]domain.LoanRecord
	order   []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		loans: make(map[string]domain.LoanRecord),
	}
}

// SeedMembers replaces the members register. Test helper; the live system
// never writes members.
func (m *MemoryStore) SeedMembers(members []domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append([]domain.Member(nil), members...)
}

func (m *MemoryStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Member(nil), m.members...), nil
}

// ListLoans returns loans in append order.
func (m *MemoryStore) ListLoans(ctx context.Context) ([]domain.LoanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.LoanRecord, 0, len(m.order))
	for _, id := range m.order {
		if rec, ok := m.loans[id]; ok {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (m *MemoryStore) AppendLoan(ctx context.Context, rec domain.LoanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.loans[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.loans[rec.ID] = rec
	return nil
}

func (m *MemoryStore) GetLoan(ctx context.Context, id string) (domain.LoanRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.loans[id]
	return rec, ok, nil
}

func (m *MemoryStore) SetLoanStatus(ctx context.Context, id string, status domain.LoanStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.loans[id]
	if !ok {
		return ErrLoanNotFound
	}
	rec.Status = status
	m.loans[id] = rec
	return nil
}
