package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore mirrors the Postgres semantics for tests and dev mode.
type InMemoryStore struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]*Vehicle
	byPlate  map[string]uuid.UUID
	tags     map[string]*Tag
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		vehicles: make(map[uuid.UUID]*Vehicle),
		byPlate:  make(map[string]uuid.UUID),
		tags:     make(map[string]*Tag),
	}
}

func (s *InMemoryStore) FindVehicleByPlate(_ context.Context, plate string) (*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPlate[plate]
	if !ok {
		return nil, nil
	}
	return cloneVehicle(s.vehicles[id]), nil
}

func (s *InMemoryStore) FindVehicleByTag(_ context.Context, tagID string) (*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tags[tagID]
	if !ok || !t.Active {
		return nil, nil
	}
	return cloneVehicle(s.vehicles[t.VehicleID]), nil
}

func (s *InMemoryStore) FindActiveTagForVehicle(_ context.Context, vehicleID uuid.UUID) (*Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tags {
		if t.VehicleID == vehicleID && t.Active {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) GetVehicle(_ context.Context, id uuid.UUID) (*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVehicle(s.vehicles[id]), nil
}

func (s *InMemoryStore) CreateVehicle(_ context.Context, v *Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byPlate[v.Plate]; exists && v.Plate != "" {
		return ErrPlateExists
	}
	clone := *v
	s.vehicles[v.ID] = &clone
	if v.Plate != "" {
		s.byPlate[v.Plate] = v.ID
	}
	return nil
}

func (s *InMemoryStore) CreateTag(_ context.Context, t *Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tags[t.ID]; exists {
		return ErrTagExists
	}
	clone := *t
	s.tags[t.ID] = &clone
	return nil
}

// DeactivateTag flips a tag inactive; used by tests exercising expiry and
// blacklist-sync behavior.
func (s *InMemoryStore) DeactivateTag(_ context.Context, tagID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tags[tagID]; ok {
		t.Active = false
	}
}

func cloneVehicle(v *Vehicle) *Vehicle {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
