package counter

import (
	"context"
	"sync"
	"time"
)

// InMemoryCounterStore implements CounterStore with process-local state.
// It serves two roles: the dev/test store, and the degradation target
// when the shared Redis store is unavailable (caps are a deterrent, not
// a security boundary, so local counting is an acceptable fallback).
type InMemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	count     int
	expiresAt time.Time
}

// New creates an in-memory counter store.
func New() *InMemoryCounterStore {
	return &InMemoryCounterStore{entries: make(map[string]*entry)}
}

// Get returns the current count, zero for absent or expired keys.
func (s *InMemoryCounterStore) Get(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[key]
	if e == nil || time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return 0, nil
	}
	return e.count, nil
}

// Increment adds one and returns the new count. The expiry is set only
// when the window opens (first increment, or first after expiry).
func (s *InMemoryCounterStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := s.entries[key]
	if e == nil || now.After(e.expiresAt) {
		e = &entry{count: 0, expiresAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// Reset clears the counter for a key.
func (s *InMemoryCounterStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
