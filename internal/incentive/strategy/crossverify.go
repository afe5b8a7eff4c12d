package strategy

import (
	"context"
	"log/slog"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
)

// CrossVerify withholds points until the named counterpart confirms the
// interaction occurred. The strategy only consults ledger state; the
// confirm operation lives on the service, and a confirmed record takes
// effect the next time the same grant is attempted.
type CrossVerify struct {
	ledger         ports.ConfirmationLedger
	auditPublisher ports.AuditPublisher
	logger         *slog.Logger
}

func NewCrossVerify(ledger ports.ConfirmationLedger, logger *slog.Logger, publisher ports.AuditPublisher) *CrossVerify {
	return &CrossVerify{
		ledger:         ledger,
		auditPublisher: publisher,
		logger:         logger,
	}
}

func (s *CrossVerify) Code() models.StrategyCode { return models.StrategyCrossVerify }

func (s *CrossVerify) Evaluate(ctx context.Context, req *models.GrantRequest, points int) (*models.StrategyOutcome, error) {
	if req.CounterpartUserID.IsNil() {
		// Nothing is persisted for a request that cannot even name its
		// counterpart; the caller must resubmit with the field set.
		return &models.StrategyOutcome{
			Strategy: s.Code(),
			Verdict:  models.VerdictPending,
			Points:   0,
			Reason:   "this event requires a counterpart user to confirm the interaction",
			Details:  map[string]any{"missing_counterpart": true},
		}, nil
	}

	key := models.ConfirmationKey(req.UserID, req.CounterpartUserID, req.EventType, req.BehaviorID)

	confirmed, err := s.ledger.IsConfirmed(ctx, key)
	if err != nil {
		// A dark ledger cannot prove the interaction happened, so the
		// award stays deferred. Pending is an outcome, not an abort.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "confirmation ledger unavailable, holding grant",
				"user_id", req.UserID,
				"event_type", req.EventType,
				"error", err,
			)
		}
		return &models.StrategyOutcome{
			Strategy: s.Code(),
			Verdict:  models.VerdictPending,
			Points:   0,
			Reason:   "confirmation is temporarily unavailable, please retry",
		}, nil
	}

	if confirmed {
		return allow(s.Code(), points), nil
	}

	if err := s.ledger.CreatePending(ctx, key, models.PendingConfirmation{}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to record pending confirmation",
			"user_id", req.UserID,
			"event_type", req.EventType,
			"error", err,
		)
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventConfirmationPending, audit.Event{
		UserID:    req.UserID,
		EventType: string(req.EventType),
		Verdict:   string(models.VerdictPending),
		Details:   map[string]any{"counterpart_user_id": req.CounterpartUserID.String()},
	},
		"user_id", req.UserID.String(),
		"counterpart_user_id", req.CounterpartUserID.String(),
		"event_type", string(req.EventType),
	)

	return &models.StrategyOutcome{
		Strategy: s.Code(),
		Verdict:  models.VerdictPending,
		Points:   0,
		Reason:   "waiting for the counterpart to confirm this interaction",
		Details:  map[string]any{"counterpart_user_id": req.CounterpartUserID.String()},
	}, nil
}
