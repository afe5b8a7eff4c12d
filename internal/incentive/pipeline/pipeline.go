// Package pipeline runs the ordered strategy chain for one grant
// request and accumulates the final decision.
package pipeline

import (
	"context"
	"fmt"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/strategy"
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
)

// Pipeline resolves the applicable strategies for an event type from the
// injected registry and executes them in the fixed order. It is
// stateless per invocation: all cross-request state lives behind the
// strategies' stores.
type Pipeline struct {
	cfg        *config.Config
	strategies map[models.StrategyCode]strategy.Strategy
	onOutcome  func(strategy, verdict string)
}

type Option func(*Pipeline)

// WithOutcomeHook registers a callback fired once per strategy outcome,
// used to feed the per-strategy metric.
func WithOutcomeHook(hook func(strategy, verdict string)) Option {
	return func(p *Pipeline) {
		p.onOutcome = hook
	}
}

// New builds a pipeline from the policy config and the strategy set.
// Every strategy referenced by the registry must be supplied.
func New(cfg *config.Config, strategies []strategy.Strategy, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	byCode := make(map[models.StrategyCode]strategy.Strategy, len(strategies))
	for _, s := range strategies {
		byCode[s.Code()] = s
	}
	for _, codes := range cfg.Registry {
		for _, code := range codes {
			if _, ok := byCode[code]; !ok {
				return nil, fmt.Errorf("registry references strategy %s but none was supplied", code)
			}
		}
	}

	p := &Pipeline{cfg: cfg, strategies: byCode}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the applicable strategies for the request.
//
// Short-circuit rule: capped and pending terminate immediately with zero
// final points. All other verdicts carry the running point value to the
// next stage. FlaggedForReview is monotonic across stages, and Awarded
// is true iff points remain and nothing short-circuited.
func (p *Pipeline) Run(ctx context.Context, req *models.GrantRequest) (*models.PipelineResult, error) {
	applicable, ok := p.cfg.StrategiesFor(req.EventType)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown event type: %s", req.EventType)
	}

	active := make(map[models.StrategyCode]bool, len(applicable))
	for _, code := range applicable {
		active[code] = true
	}

	result := &models.PipelineResult{
		OriginalPoints: req.BasePoints,
		Outcomes:       make([]models.StrategyOutcome, 0, len(applicable)),
	}

	points := req.BasePoints
	for _, code := range config.ExecutionOrder() {
		if !active[code] {
			continue
		}

		outcome, err := p.strategies[code].Evaluate(ctx, req, points)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("strategy %s failed", code))
		}

		result.Outcomes = append(result.Outcomes, *outcome)
		if p.onOutcome != nil {
			p.onOutcome(string(code), string(outcome.Verdict))
		}

		if outcome.Verdict == models.VerdictFlagged {
			result.FlaggedForReview = true
		}

		if outcome.Verdict.ShortCircuits() {
			result.FinalPoints = 0
			result.Awarded = false
			result.PendingConfirmation = outcome.Verdict == models.VerdictPending
			result.ShortCircuitedBy = code
			return result, nil
		}

		points = outcome.Points
	}

	result.FinalPoints = points
	result.Awarded = points > 0
	return result, nil
}
