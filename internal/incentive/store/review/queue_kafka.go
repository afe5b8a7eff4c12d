package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

// KafkaQueue publishes review items to a Kafka topic for the downstream
// investigation tooling. Submission is fire-and-forget: produce errors
// are logged, never returned to the pipeline.
type KafkaQueue struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka constructs a Kafka-backed review queue.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*KafkaQueue, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &KafkaQueue{client: client, topic: topic, logger: logger}, nil
}

// Submit publishes the item asynchronously. The user ID keys the record
// so all flags for one user land on the same partition, preserving order
// for the reviewer.
func (q *KafkaQueue) Submit(ctx context.Context, item models.ReviewItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal review item: %w", err)
	}

	record := &kgo.Record{
		Topic: q.topic,
		Key:   []byte(item.UserID.String()),
		Value: payload,
	}

	q.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && q.logger != nil {
			q.logger.Warn("failed to publish review item",
				"user_id", item.UserID,
				"event_type", item.EventType,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (q *KafkaQueue) Close() {
	_ = q.client.Flush(context.Background())
	q.client.Close()
}
