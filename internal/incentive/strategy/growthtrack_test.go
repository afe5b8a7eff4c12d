package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

// recordingEvaluator captures eligibility checks on a channel so the
// async notification can be awaited without sleeps.
type recordingEvaluator struct {
	calls chan id.UserID
	err   error
}

func (e *recordingEvaluator) CheckPromotionEligibility(_ context.Context, userID id.UserID, _ int) (*ports.PromotionSignal, error) {
	e.calls <- userID
	if e.err != nil {
		return nil, e.err
	}
	return &ports.PromotionSignal{State: "unchanged"}, nil
}

func TestGrowthTrackAlwaysAllows(t *testing.T) {
	evaluator := &recordingEvaluator{calls: make(chan id.UserID, 1)}
	s := NewGrowthTrack(evaluator, nil)

	outcome, err := s.Evaluate(context.Background(), grantRequest(models.EventPeerSupport, 10), 10)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, outcome.Verdict)
	assert.Equal(t, 10, outcome.Points)

	select {
	case userID := <-evaluator.calls:
		assert.Equal(t, id.UserID("user-1"), userID)
	case <-time.After(time.Second):
		t.Fatal("evaluator was never notified")
	}
}

func TestGrowthTrackSwallowsEvaluatorFailure(t *testing.T) {
	evaluator := &recordingEvaluator{calls: make(chan id.UserID, 1), err: errDown}
	s := NewGrowthTrack(evaluator, nil)

	outcome, err := s.Evaluate(context.Background(), grantRequest(models.EventPeerSupport, 10), 10)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, outcome.Verdict)
	assert.Equal(t, 10, outcome.Points)

	select {
	case <-evaluator.calls:
	case <-time.After(time.Second):
		t.Fatal("evaluator was never notified")
	}
}

func TestGrowthTrackSurvivesCancelledRequest(t *testing.T) {
	evaluator := &recordingEvaluator{calls: make(chan id.UserID, 1)}
	s := NewGrowthTrack(evaluator, nil)

	ctx, cancel := context.WithCancel(context.Background())
	outcome, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 10), 10)
	cancel()
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, outcome.Verdict)

	// The notification runs on a detached context, so cancelling the
	// request must not suppress it.
	select {
	case <-evaluator.calls:
	case <-time.After(time.Second):
		t.Fatal("evaluator was never notified")
	}
}
