package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	ledgerstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/ledger"
)

func graduationRequest() *models.GrantRequest {
	req := grantRequest(models.EventMenteeGraduation, 100)
	req.CounterpartUserID = "mentee-1"
	req.BehaviorID = "grad-2026-03"
	return req
}

func TestCrossVerifyHoldsUntilConfirmed(t *testing.T) {
	ctx := context.Background()
	ledger := ledgerstore.New()
	s := NewCrossVerify(ledger, nil, nil)

	req := graduationRequest()

	// First attempt records the pending confirmation and withholds points.
	outcome, err := s.Evaluate(ctx, req, 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPending, outcome.Verdict)
	assert.Equal(t, 0, outcome.Points)

	// Resubmitting without a confirmation stays pending.
	outcome, err = s.Evaluate(ctx, req, 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPending, outcome.Verdict)

	key := models.ConfirmationKey(req.UserID, req.CounterpartUserID, req.EventType, req.BehaviorID)
	found, err := ledger.Confirm(ctx, key)
	require.NoError(t, err)
	require.True(t, found)

	// The confirmed resubmission passes with points untouched.
	outcome, err = s.Evaluate(ctx, req, 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, outcome.Verdict)
	assert.Equal(t, 100, outcome.Points)
}

func TestCrossVerifyMissingCounterpart(t *testing.T) {
	ctx := context.Background()
	ledger := ledgerstore.New()
	s := NewCrossVerify(ledger, nil, nil)

	req := grantRequest(models.EventMenteeGraduation, 100)

	outcome, err := s.Evaluate(ctx, req, 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPending, outcome.Verdict)
	assert.Equal(t, 0, outcome.Points)
	assert.Equal(t, true, outcome.Details["missing_counterpart"])
}

func TestCrossVerifyDistinctBehaviorsNeedDistinctConfirmations(t *testing.T) {
	ctx := context.Background()
	ledger := ledgerstore.New()
	s := NewCrossVerify(ledger, nil, nil)

	first := graduationRequest()
	_, err := s.Evaluate(ctx, first, 100)
	require.NoError(t, err)

	key := models.ConfirmationKey(first.UserID, first.CounterpartUserID, first.EventType, first.BehaviorID)
	_, err = ledger.Confirm(ctx, key)
	require.NoError(t, err)

	// A different behavior instance starts its own pending record.
	second := graduationRequest()
	second.BehaviorID = "grad-2026-04"
	outcome, err := s.Evaluate(ctx, second, 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPending, outcome.Verdict)
}

func TestCrossVerifyHoldsWhenLedgerDown(t *testing.T) {
	ctx := context.Background()
	s := NewCrossVerify(downLedger{}, nil, nil)

	outcome, err := s.Evaluate(ctx, graduationRequest(), 100)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPending, outcome.Verdict)
	assert.Equal(t, 0, outcome.Points)
}
