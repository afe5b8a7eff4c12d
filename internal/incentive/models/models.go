// Package models defines the domain types for the incentive gating
// pipeline: the grant request, per-strategy outcomes, and the final
// pipeline result.
package models

import (
	"time"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
)

// EventType keys the event→strategy registry. The set is configuration
// owned; these constants cover the platform's built-in behaviors.
type EventType string

const (
	EventDailyCheckin       EventType = "daily_checkin"
	EventContentPublish     EventType = "content_publish"
	EventPeerSupport        EventType = "peer_support"
	EventAssessmentComplete EventType = "assessment_complete"
	EventCourseComplete     EventType = "course_complete"
	EventMenteeGraduation   EventType = "mentee_graduation"
)

// PointCategory is the closed set of ledgers a grant can accrue toward.
type PointCategory string

const (
	CategoryGrowth       PointCategory = "growth"
	CategoryContribution PointCategory = "contribution"
	CategoryInfluence    PointCategory = "influence"
)

// IsValid checks if the point category is one of the supported enum values.
func (c PointCategory) IsValid() bool {
	switch c {
	case CategoryGrowth, CategoryContribution, CategoryInfluence:
		return true
	}
	return false
}

// StrategyCode identifies one gating strategy in registry entries and
// pipeline outcomes.
type StrategyCode string

const (
	StrategyAnomaly       StrategyCode = "anomaly"
	StrategyDailyCap      StrategyCode = "daily_cap"
	StrategyCrossVerify   StrategyCode = "cross_verify"
	StrategyTimeDecay     StrategyCode = "time_decay"
	StrategyQualityWeight StrategyCode = "quality_weight"
	StrategyGrowthTrack   StrategyCode = "growth_track"
)

// Verdict is a strategy's ruling on a grant request.
type Verdict string

const (
	VerdictAllow    Verdict = "allow"
	VerdictCapped   Verdict = "capped"
	VerdictWeighted Verdict = "weighted"
	VerdictDecayed  Verdict = "decayed"
	VerdictPending  Verdict = "pending"
	VerdictBlocked  Verdict = "blocked"
	VerdictFlagged  Verdict = "flagged"
)

// ShortCircuits reports whether this verdict terminates the pipeline.
// Blocked is reserved; no current strategy emits it, but a hard block
// would terminate the same way a cap does.
func (v Verdict) ShortCircuits() bool {
	return v == VerdictCapped || v == VerdictPending || v == VerdictBlocked
}

// GrantRequest is one attempt to award points for a user action.
type GrantRequest struct {
	UserID     id.UserID
	EventType  EventType
	BasePoints int
	Category   PointCategory
	BehaviorID id.BehaviorID
	// QualityScore is an externally supplied score in [0,1]. Nil means
	// no assessment was made; quality weighting treats that as neutral.
	QualityScore *float64
	// CounterpartUserID names the other party for cross-verified events.
	CounterpartUserID id.UserID
	// Metadata is an opaque bag passed through to review items untouched.
	Metadata  map[string]string
	Timestamp time.Time
}

// Validate enforces the request invariants before any strategy runs.
// Registry membership of EventType is checked by the orchestrator, which
// owns the registry.
func (r *GrantRequest) Validate() error {
	if r.UserID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "user_id is required")
	}
	if r.EventType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "event_type is required")
	}
	if r.BasePoints < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "base_points must be >= 0")
	}
	if r.Category != "" && !r.Category.IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown point category: %s", r.Category)
	}
	if r.QualityScore != nil && (*r.QualityScore < 0.0 || *r.QualityScore > 1.0) {
		return dErrors.New(dErrors.CodeInvalidInput, "quality_score must be between 0.0 and 1.0")
	}
	return nil
}

// StrategyOutcome is one strategy's verdict on a request. Outcomes are
// immutable once produced; the orchestrator never rewrites history.
type StrategyOutcome struct {
	Strategy StrategyCode   `json:"strategy"`
	Verdict  Verdict        `json:"verdict"`
	Points   int            `json:"points"`
	Reason   string         `json:"reason,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PipelineResult is the accumulated decision for one grant request.
// Created fresh per request and returned to the caller; persistence is
// the audit sink's job, not this subsystem's.
type PipelineResult struct {
	FinalPoints    int               `json:"final_points"`
	OriginalPoints int               `json:"original_points"`
	Awarded        bool              `json:"awarded"`
	Outcomes       []StrategyOutcome `json:"outcomes"`
	// FlaggedForReview is monotonic: once a stage sets it, later stages
	// cannot clear it. It never affects Awarded.
	FlaggedForReview    bool `json:"flagged_for_review"`
	PendingConfirmation bool `json:"pending_confirmation"`
	// ShortCircuitedBy names the strategy that terminated the pipeline,
	// empty when every applicable strategy ran.
	ShortCircuitedBy StrategyCode `json:"short_circuited_by,omitempty"`
}

// AnomalySignal is one triggered window check inside a review item.
type AnomalySignal struct {
	Window    string `json:"window"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
}

// ReviewItem is the payload enqueued for human or automated review when
// anomaly detection triggers. It never influences the grant itself.
type ReviewItem struct {
	ID         string            `json:"id"`
	UserID     id.UserID         `json:"user_id"`
	EventType  EventType         `json:"event_type"`
	Anomalies  []AnomalySignal   `json:"anomalies"`
	Timestamp  time.Time         `json:"timestamp"`
	BasePoints int               `json:"base_points"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// PendingConfirmation is a ledger record awaiting a counterpart's
// acknowledgement. Records are never deleted by this subsystem; cleanup
// is external housekeeping.
type PendingConfirmation struct {
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}
