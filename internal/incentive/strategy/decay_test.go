package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	counterstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/counter"
)

func TestTimeDecayStepCurve(t *testing.T) {
	ctx := context.Background()
	s := NewTimeDecay(counterstore.New(), config.DefaultConfig(), nil)

	// Default curve: submissions 1-5 full, 6-10 at 0.8, 11-20 at 0.5,
	// 21+ at 0.2. Points are weakly decreasing across the period.
	wantAt := map[int]int{1: 10, 5: 10, 6: 8, 10: 8, 11: 5, 20: 5, 21: 2, 30: 2}

	prev := 10
	for i := 1; i <= 30; i++ {
		outcome, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 10), 10)
		require.NoError(t, err, "submission %d", i)

		if want, ok := wantAt[i]; ok {
			assert.Equal(t, want, outcome.Points, "submission %d", i)
		}
		assert.LessOrEqual(t, outcome.Points, prev, "submission %d must not exceed predecessor", i)
		prev = outcome.Points

		if i <= 5 {
			assert.Equal(t, models.VerdictAllow, outcome.Verdict, "submission %d", i)
		} else {
			assert.Equal(t, models.VerdictDecayed, outcome.Verdict, "submission %d", i)
		}
	}
}

func TestTimeDecayClampsToOnePoint(t *testing.T) {
	ctx := context.Background()
	store := counterstore.New()
	s := NewTimeDecay(store, config.DefaultConfig(), nil)

	// Push the counter deep into the 0.2 band, then award a tiny grant:
	// floor(3 * 0.2) would be zero, the clamp keeps it at one point.
	for iter := 0; iter < 25; iter++ {
		_, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 3), 3)
		require.NoError(t, err)
	}

	outcome, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 3), 3)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictDecayed, outcome.Verdict)
	assert.Equal(t, 1, outcome.Points)
}

func TestTimeDecayZeroPointsStayZero(t *testing.T) {
	ctx := context.Background()
	s := NewTimeDecay(counterstore.New(), config.DefaultConfig(), nil)

	outcome, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Points)
}

func TestTimeDecaySkipsDecayWhenCounterStoreDown(t *testing.T) {
	ctx := context.Background()
	s := NewTimeDecay(downCounterStore{}, config.DefaultConfig(), nil)

	// An unreadable counter means no repeat history: full points.
	outcome, err := s.Evaluate(ctx, grantRequest(models.EventPeerSupport, 10), 10)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, outcome.Verdict)
	assert.Equal(t, 10, outcome.Points)
}
