package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

// InMemoryLedger implements ConfirmationLedger with process-local state.
// Suitable for tests and single-node deployments; use the Redis ledger
// when confirmations must survive restarts or span instances.
type InMemoryLedger struct {
	mu      sync.RWMutex
	records map[string]*models.PendingConfirmation
}

// New creates an in-memory confirmation ledger.
func New() *InMemoryLedger {
	return &InMemoryLedger{records: make(map[string]*models.PendingConfirmation)}
}

// CreatePending stores an unconfirmed record if none exists. An existing
// record is left untouched so a confirmed interaction can never be reset
// by a replayed grant attempt.
func (s *InMemoryLedger) CreatePending(_ context.Context, key string, record models.PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists {
		return nil
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.records[key] = &record
	return nil
}

// IsConfirmed reports whether a record exists and is confirmed.
func (s *InMemoryLedger) IsConfirmed(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[key]
	return exists && record.Confirmed, nil
}

// Confirm flips the record's confirmed flag, returning false when no
// record exists.
func (s *InMemoryLedger) Confirm(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[key]
	if !exists {
		return false, nil
	}
	record.Confirmed = true
	return true, nil
}
