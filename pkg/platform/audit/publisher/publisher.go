// Package publisher provides the audit emission path used by domain
// services. Emission is fire-and-forget for callers: a failed append is
// the publisher's problem, never the grant's.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
)

// Publisher writes audit events to a Store, either synchronously or via a
// buffered channel drained by a background goroutine.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox  chan audit.Event
	done   chan struct{}
	closed sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the
// given channel capacity. Events are dropped (and logged) when the buffer
// is full rather than blocking the emitting request.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records an audit event. In async mode the event is enqueued; in
// sync mode it is appended immediately.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		}
		return nil
	}
}

// List returns the audit trail for a user from the backing store.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close drains any buffered events and stops the background goroutine.
// Safe to call more than once.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.inbox == nil {
			close(p.done)
			return
		}
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		// Detached context: the originating request may be long gone.
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Warn("failed to append audit event", "action", event.Action, "error", err)
		}
	}
}
