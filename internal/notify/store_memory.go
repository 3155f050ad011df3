package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore mirrors the Postgres dedup semantics for tests and dev mode.
type InMemoryStore struct {
	mu            sync.Mutex
	notifications []Notification
	now           func() time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{now: time.Now}
}

// SetClock overrides the store clock; test helper for window expiry.
func (s *InMemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *InMemoryStore) InsertDeduped(_ context.Context, n *Notification, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	cutoff := now.Add(-window)
	hash := DedupHash(n.Message, n.Type, n.Priority)
	for _, existing := range s.notifications {
		if DedupHash(existing.Message, existing.Type, existing.Priority) == hash && !existing.Timestamp.Before(cutoff) {
			return false, nil
		}
	}
	stored := *n
	stored.Timestamp = now
	s.notifications = append(s.notifications, stored)
	return true, nil
}

func (s *InMemoryStore) ListByVehicle(_ context.Context, vehicleID uuid.UUID, onlyUnread bool) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.VehicleID == nil || *n.VehicleID != vehicleID {
			continue
		}
		if onlyUnread && n.Status != StatusUnread {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// All returns a snapshot of stored notifications; test helper.
func (s *InMemoryStore) All() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// CountByType reports stored notifications of a type; test helper.
func (s *InMemoryStore) CountByType(typ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, notif := range s.notifications {
		if notif.Type == typ {
			n++
		}
	}
	return n
}
