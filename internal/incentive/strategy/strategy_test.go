package strategy

import (
	"context"
	"errors"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

// midday keeps every windowed test outside the unusual time-of-day band.
var midday = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func grantRequest(eventType models.EventType, points int) *models.GrantRequest {
	return &models.GrantRequest{
		UserID:     id.UserID("user-1"),
		EventType:  eventType,
		BasePoints: points,
		Timestamp:  midday,
	}
}

var errDown = errors.New("store unreachable")

// downCounterStore fails every operation, simulating a full outage.
type downCounterStore struct{}

func (downCounterStore) Get(context.Context, string) (int, error) { return 0, errDown }
func (downCounterStore) Increment(context.Context, string, time.Duration) (int, error) {
	return 0, errDown
}
func (downCounterStore) Reset(context.Context, string) error { return errDown }

// downLedger fails every operation.
type downLedger struct{}

func (downLedger) CreatePending(context.Context, string, models.PendingConfirmation) error {
	return errDown
}
func (downLedger) IsConfirmed(context.Context, string) (bool, error) { return false, errDown }
func (downLedger) Confirm(context.Context, string) (bool, error)     { return false, errDown }
