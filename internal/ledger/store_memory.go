package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type pendingKey struct {
	vehicleID uuid.UUID
	plazaID   string
}

// InMemoryStore mirrors the Postgres semantics, including the atomicity of
// the conditional debit and the pending-insert conflict check, for tests and
// dev mode.
type InMemoryStore struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*Account
	byOwner      map[uuid.UUID]uuid.UUID
	transactions []Transaction
	pending      map[pendingKey]*PendingToll
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[uuid.UUID]*Account),
		byOwner:  make(map[uuid.UUID]uuid.UUID),
		pending:  make(map[pendingKey]*PendingToll),
	}
}

// AddAccount seeds an account; test and dev helper.
func (s *InMemoryStore) AddAccount(a *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *a
	s.accounts[a.ID] = &clone
	if a.Active {
		s.byOwner[a.OwnerID] = a.ID
	}
}

func (s *InMemoryStore) GetActiveAccount(_ context.Context, ownerID uuid.UUID) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byOwner[ownerID]
	if !ok {
		return nil, nil
	}
	a := s.accounts[id]
	if a == nil || !a.Active {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (s *InMemoryStore) DebitAndRecord(_ context.Context, accountID uuid.UUID, tagID, plazaID string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || !a.Active || a.Balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	a.Balance = a.Balance.Sub(amount)
	s.transactions = append(s.transactions, Transaction{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Amount:    amount,
		Status:    TransactionStatusSuccess,
		TagID:     tagID,
		PlazaID:   plazaID,
	})
	return a.Balance, true, nil
}

func (s *InMemoryStore) FindUnresolvedPending(_ context.Context, vehicleID uuid.UUID, plazaID string) (*PendingToll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[pendingKey{vehicleID: vehicleID, plazaID: plazaID}]
	if !ok || p.Resolved {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (s *InMemoryStore) InsertPending(_ context.Context, p *PendingToll) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pendingKey{vehicleID: p.VehicleID, plazaID: p.PlazaID}
	if existing, ok := s.pending[key]; ok && !existing.Resolved {
		return false, nil
	}
	clone := *p
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	s.pending[key] = &clone
	return true, nil
}

// Transactions returns a snapshot of recorded transactions; test helper.
func (s *InMemoryStore) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// PendingCount reports unresolved entries; test helper.
func (s *InMemoryStore) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pending {
		if !p.Resolved {
			n++
		}
	}
	return n
}

// Balance returns the current balance for an account; test helper.
func (s *InMemoryStore) Balance(accountID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[accountID]; ok {
		return a.Balance
	}
	return decimal.Zero
}
