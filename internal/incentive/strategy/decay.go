package strategy

import (
	"context"
	"log/slog"
	"math"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
)

// TimeDecay reduces points for repeated execution of the same action
// within a rolling period, following the configured step curve. Unlike
// quality weighting, decay never fully zeroes a nonzero reward: the
// result is clamped to a minimum of 1 point.
type TimeDecay struct {
	counters ports.CounterStore
	logger   *slog.Logger
	cfg      *config.Config
}

func NewTimeDecay(counters ports.CounterStore, cfg *config.Config, logger *slog.Logger) *TimeDecay {
	return &TimeDecay{counters: counters, logger: logger, cfg: cfg}
}

func (s *TimeDecay) Code() models.StrategyCode { return models.StrategyTimeDecay }

func (s *TimeDecay) Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	now := eventTime(ctx, req)
	key := models.PeriodCounterKey(req.UserID, req.EventType, now)

	count, err := s.counters.Get(ctx, key)
	if err != nil {
		// Degraded counter means no decay this round; slight over-award
		// beats failing the grant.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "decay counter unavailable, skipping decay",
				"user_id", req.UserID,
				"event_type", req.EventType,
				"error", err,
			)
		}
		count = 0
	}

	// The ordinal of this request within the period, counting itself.
	ordinal := count + 1
	multiplier := s.cfg.DecayMultiplierFor(ordinal)

	decayed := int(math.Floor(float64(points) * multiplier))
	if points > 0 && decayed < 1 {
		decayed = 1
	}

	if _, err := s.counters.Increment(ctx, key, s.cfg.DecayPeriod); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to increment decay counter",
			"user_id", req.UserID,
			"event_type", req.EventType,
			"error", err,
		)
	}

	verdict := models.VerdictAllow
	reason := ""
	if multiplier < 1.0 {
		verdict = models.VerdictDecayed
		reason = "repeated activity within period, reward reduced"
	}

	return &models.StrategyOutcome{
		Strategy: s.Code(),
		Verdict:  verdict,
		Points:   decayed,
		Reason:   reason,
		Details: map[string]any{
			"repeat_count": ordinal,
			"multiplier":   multiplier,
		},
	}, nil
}
