package session

import (
	"context"
	"sync"
	"time"

	"joblens/internal/model"
)

type memoryEntry struct {
	coll     model.JobCollection
	lastSeen time.Time
}

// MemoryStore is a process-local Store. Entries idle for longer than the TTL
// are dropped by Sweep; reads refresh the idle clock.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

// NewMemoryStore constructs a MemoryStore. A ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]*memoryEntry{},
	}
}

// WithClock replaces the store's clock.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.JobCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e, s.now()) {
		delete(s.entries, id)
		return model.JobCollection{}, ErrNotFound
	}
	e.lastSeen = s.now()
	return cloneCollection(e.coll), nil
}

func (s *MemoryStore) Put(_ context.Context, id string, coll model.JobCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &memoryEntry{coll: cloneCollection(coll), lastSeen: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts every entry idle for longer than the TTL and returns how many
// were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expired(e *memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}
