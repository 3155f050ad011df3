package rating

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type rateKey struct {
	vehicleType string
	plazaID     string // empty for the base rate
}

// InMemoryStore mirrors the Postgres semantics for tests and dev mode.
type InMemoryStore struct {
	mu     sync.RWMutex
	plazas map[string]bool // plaza_id -> operational
	rates  map[rateKey]decimal.Decimal
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		plazas: make(map[string]bool),
		rates:  make(map[rateKey]decimal.Decimal),
	}
}

func (s *InMemoryStore) AddPlaza(plazaID string, operational bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plazas[plazaID] = operational
}

func (s *InMemoryStore) SetBaseRate(vehicleType string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rateKey{vehicleType: vehicleType}] = amount
}

func (s *InMemoryStore) SetPlazaRate(vehicleType, plazaID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rateKey{vehicleType: vehicleType, plazaID: plazaID}] = amount
}

func (s *InMemoryStore) PlazaExists(_ context.Context, plazaID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plazas[plazaID], nil
}

func (s *InMemoryStore) FindRate(_ context.Context, vehicleType, plazaID string) (*RateQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if amount, ok := s.rates[rateKey{vehicleType: vehicleType, plazaID: plazaID}]; ok {
		return &RateQuote{VehicleType: vehicleType, PlazaID: plazaID, Amount: amount, PlazaSpecific: true}, nil
	}
	if amount, ok := s.rates[rateKey{vehicleType: vehicleType}]; ok {
		return &RateQuote{VehicleType: vehicleType, PlazaID: plazaID, Amount: amount}, nil
	}
	return nil, nil
}
