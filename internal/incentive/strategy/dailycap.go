package strategy

import (
	"context"
	"log/slog"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
)

// DailyCap enforces the per-event-type-per-day grant ceiling. It is the
// only hard, user-visible block in the pipeline: a capped verdict always
// short-circuits, because zero points cannot be adjusted further.
type DailyCap struct {
	counters       ports.CounterStore
	auditPublisher ports.AuditPublisher
	logger         *slog.Logger
	cfg            *config.Config
}

func NewDailyCap(counters ports.CounterStore, cfg *config.Config, logger *slog.Logger, publisher ports.AuditPublisher) *DailyCap {
	return &DailyCap{
		counters:       counters,
		auditPublisher: publisher,
		logger:         logger,
		cfg:            cfg,
	}
}

func (s *DailyCap) Code() models.StrategyCode { return models.StrategyDailyCap }

func (s *DailyCap) Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	limit := s.cfg.DailyCap(req.EventType)
	if limit <= 0 {
		return allow(s.Code(), points), nil
	}

	now := eventTime(ctx, req)
	key := models.DailyCounterKey(req.UserID, req.EventType, now)

	count, err := s.counters.Get(ctx, key)
	if err != nil {
		// Availability over accuracy: an unreadable counter never blocks
		// the grant. The fallback store normally absorbs this already.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "daily cap counter unavailable, passing through",
				"user_id", req.UserID,
				"event_type", req.EventType,
				"error", err,
			)
		}
		return allow(s.Code(), points), nil
	}

	if count >= limit {
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventPointsCapped, audit.Event{
			UserID:    req.UserID,
			EventType: string(req.EventType),
			Verdict:   string(models.VerdictCapped),
			Details:   map[string]any{"daily_count": count, "daily_cap": limit},
		},
			"user_id", req.UserID.String(),
			"event_type", string(req.EventType),
			"daily_count", count,
			"daily_cap", limit,
		)

		return &models.StrategyOutcome{
			Strategy: s.Code(),
			Verdict:  models.VerdictCapped,
			Points:   0,
			Reason:   "daily limit reached for this activity, try again tomorrow",
			Details:  map[string]any{"daily_count": count, "daily_cap": limit},
		}, nil
	}

	if _, err := s.counters.Increment(ctx, key, s.cfg.CapWindow); err != nil && s.logger != nil {
		// Over-counting tolerance runs the other way too: a missed
		// increment slightly loosens the cap, which is acceptable.
		s.logger.WarnContext(ctx, "failed to increment daily cap counter",
			"user_id", req.UserID,
			"event_type", req.EventType,
			"error", err,
		)
	}

	return allow(s.Code(), points), nil
}
