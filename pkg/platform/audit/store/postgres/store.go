package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL. Events are append-only;
// nothing in this subsystem ever updates or deletes a row.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL audit store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Append writes one audit event. The Details bag is stored as JSONB so
// investigators can query strategy-specific context without schema churn.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	// Category is always derived from the action; callers cannot override it.
	category := audit.AuditEvent(event.Action).Category()

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, category, user_id, action, event_type, verdict, points, reason, request_id, details, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.pool.Exec(ctx, query,
		eventID,
		string(category),
		event.UserID.String(),
		event.Action,
		event.EventType,
		event.Verdict,
		event.Points,
		event.Reason,
		event.RequestID,
		details,
		ts,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns all audit events for a user, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	query := `
		SELECT category, user_id, action, event_type, verdict, points, reason, request_id, details, occurred_at
		FROM audit_events
		WHERE user_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.pool.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e       audit.Event
			userStr string
			details []byte
		)
		if err := rows.Scan(&e.Category, &userStr, &e.Action, &e.EventType, &e.Verdict, &e.Points, &e.Reason, &e.RequestID, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UserID = id.UserID(userStr)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
