package review

import (
	"context"
	"sync"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

// InMemoryQueue implements ReviewQueue with a bounded in-process buffer.
// Used in tests and in deployments without Kafka; once full, the oldest
// items are dropped, matching the queue's best-effort contract.
type InMemoryQueue struct {
	mu       sync.Mutex
	items    []models.ReviewItem
	capacity int
}

// New creates an in-memory review queue holding at most capacity items.
func New(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &InMemoryQueue{capacity: capacity}
}

// Submit enqueues a review item, evicting the oldest when full.
func (q *InMemoryQueue) Submit(_ context.Context, item models.ReviewItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, item)
	return nil
}

// Items returns a snapshot of the queued items.
func (q *InMemoryQueue) Items() []models.ReviewItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.ReviewItem{}, q.items...)
}
