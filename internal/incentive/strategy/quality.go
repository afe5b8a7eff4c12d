package strategy

import (
	"context"
	"math"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

// QualityWeight multiplies points by a tier derived from the externally
// supplied quality score. Pure and deterministic: the same score always
// maps to the same tier. Never short-circuits; a rejected tier simply
// flows zero points into the next stage.
type QualityWeight struct {
	cfg *config.Config
}

func NewQualityWeight(cfg *config.Config) *QualityWeight {
	return &QualityWeight{cfg: cfg}
}

func (s *QualityWeight) Code() models.StrategyCode { return models.StrategyQualityWeight }

func (s *QualityWeight) Evaluate(_ context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	score := s.cfg.NeutralQualityScore
	if req.QualityScore != nil {
		score = *req.QualityScore
	}

	tier := s.cfg.QualityTierFor(score)
	weighted := int(math.Floor(float64(points) * tier.Multiplier))

	return &models.StrategyOutcome{
		Strategy: s.Code(),
		Verdict:  models.VerdictWeighted,
		Points:   weighted,
		Reason:   "quality tier " + tier.Name,
		Details: map[string]any{
			"quality_score": score,
			"tier":          tier.Name,
			"multiplier":    tier.Multiplier,
		},
	}, nil
}
