package security

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore mirrors the Postgres semantics for tests and dev mode.
type InMemoryStore struct {
	mu          sync.RWMutex
	stolen      map[string]*StolenRecord
	blacklisted map[string]*BlacklistEntry
	incidents   []SecurityIncident
	alerts      []SecurityAlert
	nextID      int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		stolen:      make(map[string]*StolenRecord),
		blacklisted: make(map[string]*BlacklistEntry),
	}
}

func (s *InMemoryStore) IsStolen(_ context.Context, plate string) (*StolenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.stolen[plate]
	if !ok || !rec.Active {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (s *InMemoryStore) IsBlacklisted(_ context.Context, tagID string) (*BlacklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.blacklisted[tagID]
	if !ok {
		return nil, nil
	}
	clone := *entry
	return &clone, nil
}

func (s *InMemoryStore) AppendIncident(_ context.Context, inc *SecurityIncident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *inc
	stored.ID = s.nextID
	if stored.OccurredAt.IsZero() {
		stored.OccurredAt = time.Now()
	}
	s.incidents = append(s.incidents, stored)
	return nil
}

func (s *InMemoryStore) AppendAlert(_ context.Context, alert *SecurityAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *alert
	stored.ID = s.nextID
	if stored.RaisedAt.IsZero() {
		stored.RaisedAt = time.Now()
	}
	s.alerts = append(s.alerts, stored)
	return nil
}

func (s *InMemoryStore) ListIncidents(_ context.Context, limit int) ([]SecurityIncident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.incidents) {
		limit = len(s.incidents)
	}
	// Newest first, same as the SQL ORDER BY.
	out := make([]SecurityIncident, 0, limit)
	for i := len(s.incidents) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.incidents[i])
	}
	return out, nil
}

func (s *InMemoryStore) ReportStolen(_ context.Context, rec *StolenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *rec
	stored.Active = true
	if stored.ReportedAt.IsZero() {
		stored.ReportedAt = time.Now()
	}
	s.stolen[rec.Plate] = &stored
	return nil
}

func (s *InMemoryStore) AddBlacklistEntry(_ context.Context, entry *BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	if stored.BlacklistedAt.IsZero() {
		stored.BlacklistedAt = time.Now()
	}
	s.blacklisted[entry.TagID] = &stored
	return nil
}

// Alerts returns a snapshot of raised alerts; test helper.
func (s *InMemoryStore) Alerts() []SecurityAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SecurityAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Incidents returns a snapshot of recorded incidents; test helper.
func (s *InMemoryStore) Incidents() []SecurityIncident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SecurityIncident, len(s.incidents))
	copy(out, s.incidents)
	return out
}
