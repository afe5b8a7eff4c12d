// Package ports defines shared interfaces for the incentive module.
// Every external collaborator the pipeline touches is behind one of
// these capability interfaces; wiring decides whether a real
// implementation or a no-op is supplied.
package ports

import (
	"context"
	"log/slog"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	attrsutil "github.com/ICELANF/behavioral-health-project-sub001/pkg/attrs"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
	"github.com/ICELANF/behavioral-health-project-sub001/pkg/requestcontext"
)

// CounterStore manages windowed counters shared across processes.
// Increments must be atomic with respect to concurrent callers on the
// same key; the pipeline holds no locks of its own.
type CounterStore interface {
	// Get returns the current count for a key, zero when absent or expired.
	Get(ctx context.Context, key string) (int, error)

	// Increment atomically adds one and returns the new count. The expiry
	// is (re)set only on the first increment in the window.
	Increment(ctx context.Context, key string, window time.Duration) (int, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}

// ConfirmationLedger backs cross-verification. Records are written once,
// flipped to confirmed at most once, and never deleted here.
type ConfirmationLedger interface {
	// CreatePending stores an unconfirmed record if none exists.
	// Creating over an existing record is a no-op.
	CreatePending(ctx context.Context, key string, record models.PendingConfirmation) error

	// IsConfirmed reports whether the record exists and is confirmed.
	IsConfirmed(ctx context.Context, key string) (bool, error)

	// Confirm flips the record's confirmed flag. Returns false when no
	// record exists for the key.
	Confirm(ctx context.Context, key string) (bool, error)
}

// ReviewQueue receives anomaly flags for asynchronous investigation.
// Submission is best-effort at every call site; failures are logged,
// never surfaced to the acting user.
type ReviewQueue interface {
	Submit(ctx context.Context, item models.ReviewItem) error
}

// AuditPublisher emits audit events for grant decisions and anomaly flags.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// PromotionSignal is the leveling evaluator's answer to an eligibility
// check.
type PromotionSignal struct {
	State           string `json:"state"`
	GuidanceMessage string `json:"guidance_message"`
}

// PromotionEvaluator is the external leveling/promotion collaborator the
// growth-track gate notifies. Best-effort: every failure is swallowed by
// the calling strategy.
type PromotionEvaluator interface {
	CheckPromotionEligibility(ctx context.Context, userID id.UserID, currentLevel int) (*PromotionSignal, error)
}

// LogAudit is a shared helper for logging audit events across incentive
// services. It logs to both the structured logger and the audit publisher
// if available.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, evt audit.Event, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
		evt.RequestID = requestID
	}

	args := append(attrs, "event", string(event), "log_type", "audit")

	if logger != nil {
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}
	evt.Action = string(event)
	if evt.Category == "" {
		evt.Category = event.Category()
	}
	if evt.UserID.IsNil() {
		evt.UserID = id.UserID(attrsutil.ExtractString(attrs, "user_id"))
	}
	if err := publisher.Emit(ctx, evt); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
