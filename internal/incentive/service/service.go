// Package service is the incentive module's facade: it validates
// requests, runs the gating pipeline, records confirmations, and emits
// the audit trail and metrics around both.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/metrics"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/pipeline"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
	"github.com/ICELANF/behavioral-health-project-sub001/pkg/requestcontext"
)

type Service struct {
	pipeline       *pipeline.Pipeline
	ledger         ports.ConfirmationLedger
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(p *pipeline.Pipeline, ledger ports.ConfirmationLedger, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("confirmation ledger is required")
	}

	svc := &Service{
		pipeline: p,
		ledger:   ledger,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Grant runs one point-award attempt through the gating pipeline and
// records the outcome. The returned result reflects the full decision
// including anomaly flags; callers shaping user-facing responses must
// sanitize it themselves.
func (s *Service) Grant(ctx context.Context, req *models.GrantRequest) (*models.PipelineResult, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = requestcontext.Now(ctx)
	}

	started := time.Now()
	result, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveGrant(string(req.EventType), disposition(result), result.FinalPoints, time.Since(started))
	}

	s.auditGrant(ctx, req, result)
	return result, nil
}

// Confirm records a counterpart's acknowledgement of a pending
// interaction. It only flips the ledger record; the requester must
// resubmit the grant to collect the points.
func (s *Service) Confirm(ctx context.Context, counterpart, requester id.UserID, eventType models.EventType, behaviorID id.BehaviorID) error {
	if counterpart.IsNil() || requester.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "both participants are required")
	}
	if eventType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "event_type is required")
	}

	key := models.ConfirmationKey(requester, counterpart, eventType, behaviorID)
	found, err := s.ledger.Confirm(ctx, key)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record confirmation")
	}
	if !found {
		return dErrors.New(dErrors.CodeNotFound, "no pending confirmation for this interaction")
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventConfirmationRecorded,
		audit.Event{
			Category:  audit.EventConfirmationRecorded.Category(),
			UserID:    counterpart,
			EventType: string(eventType),
			Details: map[string]any{
				"requester_user_id": requester.String(),
				"behavior_id":       behaviorID.String(),
			},
		},
		"counterpart_user_id", counterpart,
		"requester_user_id", requester,
		"event_type", eventType,
	)
	return nil
}

func (s *Service) auditGrant(ctx context.Context, req *models.GrantRequest, result *models.PipelineResult) {
	event := audit.EventPointsDenied
	if result.Awarded {
		event = audit.EventPointsGranted
	}

	evt := audit.Event{
		Category:  event.Category(),
		UserID:    req.UserID,
		EventType: string(req.EventType),
		Points:    result.FinalPoints,
		Verdict:   disposition(result),
		Details: map[string]any{
			"original_points":    result.OriginalPoints,
			"flagged_for_review": result.FlaggedForReview,
		},
	}
	if result.ShortCircuitedBy != "" {
		evt.Details["short_circuited_by"] = string(result.ShortCircuitedBy)
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, event, evt,
		"user_id", req.UserID,
		"event_type", req.EventType,
		"final_points", result.FinalPoints,
		"awarded", result.Awarded,
	)
}

// disposition collapses a pipeline result to one metric/audit label.
func disposition(result *models.PipelineResult) string {
	switch {
	case result.PendingConfirmation:
		return "pending"
	case result.ShortCircuitedBy != "":
		return "capped"
	case result.Awarded:
		return "awarded"
	default:
		return "zeroed"
	}
}
