package ports

import (
	"context"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

// No-op implementations replace the original design's silent existence
// probing: when a collaborator isn't configured, wiring supplies one of
// these explicitly instead of strategies checking for nil capabilities
// at call time.

// NoopReviewQueue discards every review item.
type NoopReviewQueue struct{}

func (NoopReviewQueue) Submit(context.Context, models.ReviewItem) error { return nil }

// NoopPromotionEvaluator reports no promotion state change.
type NoopPromotionEvaluator struct{}

func (NoopPromotionEvaluator) CheckPromotionEligibility(context.Context, id.UserID, int) (*PromotionSignal, error) {
	return &PromotionSignal{State: "unchanged"}, nil
}

var (
	_ ReviewQueue        = NoopReviewQueue{}
	_ PromotionEvaluator = NoopPromotionEvaluator{}
)
