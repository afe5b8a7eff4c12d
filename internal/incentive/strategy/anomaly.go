package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
)

// Anomaly flags bursts of identical actions for downstream review. It
// never blocks or reduces points: the actor sees nothing, while the
// review queue and audit trail get a durable signal.
type Anomaly struct {
	counters       ports.CounterStore
	reviewQueue    ports.ReviewQueue
	auditPublisher ports.AuditPublisher
	logger         *slog.Logger
	cfg            *config.Config
	onReviewItem   func()
}

type AnomalyOption func(*Anomaly)

// WithReviewItemHook registers a callback fired once per enqueued review
// item, used to feed the review metric.
func WithReviewItemHook(hook func()) AnomalyOption {
	return func(a *Anomaly) {
		a.onReviewItem = hook
	}
}

func NewAnomaly(counters ports.CounterStore, reviewQueue ports.ReviewQueue, cfg *config.Config, logger *slog.Logger, publisher ports.AuditPublisher, opts ...AnomalyOption) *Anomaly {
	a := &Anomaly{
		counters:       counters,
		reviewQueue:    reviewQueue,
		auditPublisher: publisher,
		logger:         logger,
		cfg:            cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (s *Anomaly) Code() models.StrategyCode { return models.StrategyAnomaly }

func (s *Anomaly) Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	now := eventTime(ctx, req)

	hourlyCount := s.bump(ctx, models.HourlyAnomalyKey(req.UserID, req.EventType), s.cfg.AnomalyHourlyWindow)
	burstCount := s.bump(ctx, models.BurstAnomalyKey(req.UserID, req.EventType), s.cfg.AnomalyBurstWindow)

	hourlyThreshold := s.cfg.HourlyAnomalyThreshold(now)

	var signals []models.AnomalySignal
	if hourlyCount >= hourlyThreshold {
		signals = append(signals, models.AnomalySignal{
			Window:    "hourly",
			Count:     hourlyCount,
			Threshold: hourlyThreshold,
		})
	}
	if burstCount >= s.cfg.AnomalyBurstThreshold {
		signals = append(signals, models.AnomalySignal{
			Window:    "burst",
			Count:     burstCount,
			Threshold: s.cfg.AnomalyBurstThreshold,
		})
	}

	if len(signals) == 0 {
		return allow(s.Code(), points), nil
	}

	item := models.ReviewItem{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		EventType:  req.EventType,
		Anomalies:  signals,
		Timestamp:  now,
		BasePoints: req.BasePoints,
		Metadata:   req.Metadata,
	}
	if err := s.reviewQueue.Submit(ctx, item); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to enqueue review item",
				"user_id", req.UserID,
				"event_type", req.EventType,
				"error", err,
			)
		}
	} else if s.onReviewItem != nil {
		s.onReviewItem()
	}

	details := map[string]any{
		"hourly_count":     hourlyCount,
		"hourly_threshold": hourlyThreshold,
		"burst_count":      burstCount,
		"burst_threshold":  s.cfg.AnomalyBurstThreshold,
		"unusual_band":     s.cfg.InUnusualBand(now),
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventAnomalyFlagged, audit.Event{
		UserID:    req.UserID,
		EventType: string(req.EventType),
		Verdict:   string(models.VerdictFlagged),
		Details:   details,
	},
		"user_id", req.UserID.String(),
		"event_type", string(req.EventType),
		"hourly_count", hourlyCount,
		"burst_count", burstCount,
	)

	// Points pass through untouched: flagging is invisible to the actor.
	return &models.StrategyOutcome{
		Strategy: s.Code(),
		Verdict:  models.VerdictFlagged,
		Points:   points,
		Reason:   "activity pattern flagged for review",
		Details:  details,
	}, nil
}

// bump increments a trailing-window counter, degrading to zero when the
// store is unreachable (no count, no flag, no blocked grant).
func (s *Anomaly) bump(ctx context.Context, key string, window time.Duration) int {
	count, err := s.counters.Increment(ctx, key, window)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "anomaly counter unavailable",
				"key", key,
				"error", err,
			)
		}
		return 0
	}
	return count
}
