// Package strategy implements the independent gating rules a grant
// request passes through. Each strategy sees the running point value and
// returns an immutable outcome; the pipeline package owns ordering and
// short-circuiting.
package strategy

import (
	"context"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/pkg/requestcontext"
)

// Strategy is one independent gating rule. Evaluate must never mutate
// the request; dependency failures degrade inside the strategy rather
// than surfacing as errors (the returned error is reserved for genuine
// programming faults and aborts the whole pipeline).
type Strategy interface {
	Code() models.StrategyCode
	Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error)
}

// eventTime is the single clock strategies bucket windows against: the
// request's own timestamp when set, otherwise the request-scoped time.
func eventTime(ctx context.Context, req *models.GrantRequest) time.Time {
	if !req.Timestamp.IsZero() {
		return req.Timestamp
	}
	return requestcontext.Now(ctx)
}

// allow is the shared pass-through outcome for strategies that do not
// apply to the request's event type.
func allow(code models.StrategyCode, points int) *models.StrategyOutcome {
	return &models.StrategyOutcome{
		Strategy: code,
		Verdict:  models.VerdictAllow,
		Points:   points,
	}
}
