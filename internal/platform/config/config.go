package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the incentive service.
// Policy configuration (caps, tiers, thresholds) lives in the incentive
// module's own config package and is injected separately.
type Server struct {
	Addr          string
	JWTSigningKey string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	// PromotionEvaluatorURL points at the external leveling evaluator.
	// Empty means the growth-track gate runs with a no-op evaluator.
	PromotionEvaluatorURL string
}

// RedisConfig holds connection settings for the shared counter store and
// confirmation ledger. An empty URL means in-memory stores only.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the audit sink.
// An empty DSN means audit events stay in memory.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig holds broker settings for the review queue.
// No brokers means the in-memory review queue is used.
type KafkaConfig struct {
	Brokers     []string
	ReviewTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("INCENTIVE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	reviewTopic := os.Getenv("KAFKA_REVIEW_TOPIC")
	if reviewTopic == "" {
		reviewTopic = "incentive.review"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = splitAndTrim(v)
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			ReviewTopic: reviewTopic,
		},
		PromotionEvaluatorURL: os.Getenv("PROMOTION_EVALUATOR_URL"),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
