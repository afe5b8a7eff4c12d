package counter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
)

// FallbackCounterStore wraps a primary store with an in-process fallback.
// When the primary fails, the call is retried against local state so the
// grant proceeds; global accuracy is sacrificed for availability on this
// non-critical path. Counts taken during an outage are not reconciled.
type FallbackCounterStore struct {
	primary   ports.CounterStore
	fallback  *InMemoryCounterStore
	logger    *slog.Logger
	onDegrade func()
}

type FallbackOption func(*FallbackCounterStore)

func WithLogger(logger *slog.Logger) FallbackOption {
	return func(s *FallbackCounterStore) {
		s.logger = logger
	}
}

// WithDegradeHook registers a callback fired once per degraded call,
// used to feed the fallback metric.
func WithDegradeHook(hook func()) FallbackOption {
	return func(s *FallbackCounterStore) {
		s.onDegrade = hook
	}
}

// NewFallback wraps primary with a fresh in-memory fallback store.
func NewFallback(primary ports.CounterStore, opts ...FallbackOption) *FallbackCounterStore {
	s := &FallbackCounterStore{
		primary:  primary,
		fallback: New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FallbackCounterStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.primary.Get(ctx, key)
	if err != nil {
		s.degrade(ctx, "get", key, err)
		return s.fallback.Get(ctx, key)
	}
	return n, nil
}

func (s *FallbackCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	n, err := s.primary.Increment(ctx, key, window)
	if err != nil {
		s.degrade(ctx, "increment", key, err)
		return s.fallback.Increment(ctx, key, window)
	}
	return n, nil
}

func (s *FallbackCounterStore) Reset(ctx context.Context, key string) error {
	if err := s.primary.Reset(ctx, key); err != nil {
		s.degrade(ctx, "reset", key, err)
		return s.fallback.Reset(ctx, key)
	}
	return s.fallback.Reset(ctx, key)
}

func (s *FallbackCounterStore) degrade(ctx context.Context, op, key string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, "counter store degraded to local counting",
			"op", op,
			"key", key,
			"error", err,
		)
	}
	if s.onDegrade != nil {
		s.onDegrade()
	}
}
