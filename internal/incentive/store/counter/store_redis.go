package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "incentive:"

// RedisCounterStore implements CounterStore on Redis. This is the
// production store: INCR is atomic across processes, which is the only
// correctness property the pipeline depends on.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed counter store.
func NewRedis(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Get returns the current count, zero for absent keys.
func (s *RedisCounterStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, redisKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", key, err)
	}
	return n, nil
}

// Increment atomically increments and sets the expiry only if the key
// has none yet (NX), so the window opens on the first increment and is
// never extended by later ones.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	fullKey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key, err)
	}
	return int(incr.Val()), nil
}

// Reset clears the counter for a key.
func (s *RedisCounterStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset counter %s: %w", key, err)
	}
	return nil
}
