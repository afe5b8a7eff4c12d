package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
)

const notifyTimeout = 3 * time.Second

// GrowthTrack is the non-blocking gate that tells the leveling evaluator
// a grant occurred. It always allows and never adjusts points; evaluator
// failures must never affect the grant itself.
type GrowthTrack struct {
	evaluator ports.PromotionEvaluator
	logger    *slog.Logger
}

func NewGrowthTrack(evaluator ports.PromotionEvaluator, logger *slog.Logger) *GrowthTrack {
	return &GrowthTrack{evaluator: evaluator, logger: logger}
}

func (s *GrowthTrack) Code() models.StrategyCode { return models.StrategyGrowthTrack }

func (s *GrowthTrack) Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	// Detach from the request: the notification may outlive the caller,
	// and a cancelled grant request must not cancel it.
	userID := req.UserID
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		signal, err := s.evaluator.CheckPromotionEligibility(notifyCtx, userID, 0)
		if err != nil {
			if s.logger != nil {
				s.logger.DebugContext(notifyCtx, "promotion evaluator unreachable",
					"user_id", userID,
					"error", err,
				)
			}
			return
		}
		if s.logger != nil && signal != nil && signal.State != "" && signal.State != "unchanged" {
			s.logger.InfoContext(notifyCtx, "promotion readiness changed",
				"user_id", userID,
				"state", signal.State,
			)
		}
	}()

	return allow(s.Code(), points), nil
}
