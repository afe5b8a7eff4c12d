package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

const (
	fieldConfirmed = "confirmed"
	fieldCreatedAt = "created_at"
)

// RedisLedger implements ConfirmationLedger on Redis, one hash per
// confirmation key. No TTL is set: cleanup of stale pending records is
// an external housekeeping concern.
type RedisLedger struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed confirmation ledger.
func NewRedis(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// CreatePending stores an unconfirmed record if none exists. HSETNX on
// the confirmed field keeps creation idempotent under concurrent grant
// attempts for the same interaction.
func (s *RedisLedger) CreatePending(ctx context.Context, key string, record models.PendingConfirmation) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	pipe := s.client.TxPipeline()
	pipe.HSetNX(ctx, key, fieldConfirmed, "0")
	pipe.HSetNX(ctx, key, fieldCreatedAt, createdAt.Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create pending confirmation %s: %w", key, err)
	}
	return nil
}

// IsConfirmed reports whether a record exists and is confirmed.
func (s *RedisLedger) IsConfirmed(ctx context.Context, key string) (bool, error) {
	v, err := s.client.HGet(ctx, key, fieldConfirmed).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read confirmation %s: %w", key, err)
	}
	return v == "1", nil
}

// Confirm flips the record's confirmed flag, returning false when no
// record exists.
func (s *RedisLedger) Confirm(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check confirmation %s: %w", key, err)
	}
	if exists == 0 {
		return false, nil
	}
	if err := s.client.HSet(ctx, key, fieldConfirmed, "1").Err(); err != nil {
		return false, fmt.Errorf("confirm %s: %w", key, err)
	}
	return true, nil
}
