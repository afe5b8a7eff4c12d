package audit

import (
	"context"
	"time"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryIntegrity covers events that record the outcome of a point
	// grant. These form the authoritative trail used to reconcile balances
	// and investigate disputes, so they require long retention.
	CategoryIntegrity EventCategory = "integrity"

	// CategorySecurity covers events relevant to abuse monitoring and
	// forensics: anomaly flags, cap violations, suspicious bursts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Action    string
	EventType string
	Verdict   string
	Points    int
	Reason    string
	RequestID string
	// Details carries strategy-specific context (counts, thresholds, tiers)
	// as an opaque bag, preserved verbatim for investigators.
	Details map[string]any
}

type AuditEvent string

const (
	// Grant outcomes
	EventPointsGranted AuditEvent = "points_granted"
	EventPointsDenied  AuditEvent = "points_denied"
	EventPointsCapped  AuditEvent = "points_capped"

	// Cross-verification
	EventConfirmationPending  AuditEvent = "confirmation_pending"
	EventConfirmationRecorded AuditEvent = "confirmation_recorded"

	// Anomaly detection
	EventAnomalyFlagged AuditEvent = "anomaly_flagged"

	// Dependency degradation
	EventCounterFallback AuditEvent = "counter_store_fallback"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	// Integrity events - the authoritative point trail
	EventPointsGranted:        CategoryIntegrity,
	EventPointsDenied:         CategoryIntegrity,
	EventConfirmationRecorded: CategoryIntegrity,

	// Security events - abuse monitoring and forensics
	EventPointsCapped:   CategorySecurity,
	EventAnomalyFlagged: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventConfirmationPending: CategoryOperations,
	EventCounterFallback:     CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be safe for
// concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
