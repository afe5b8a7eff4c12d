package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/pipeline"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	counterstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/counter"
	ledgerstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/ledger"
	reviewstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/review"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/strategy"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
	auditpublisher "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit/publisher"
	auditmemory "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit/store/memory"
)

var midday = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	service    *Service
	ledger     *ledgerstore.InMemoryLedger
	auditStore *auditmemory.InMemoryStore
	ctx        context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	cfg := config.DefaultConfig()
	counters := counterstore.New()
	s.ledger = ledgerstore.New()
	s.auditStore = auditmemory.NewInMemoryStore()
	publisher := auditpublisher.NewPublisher(s.auditStore)

	strategies := []strategy.Strategy{
		strategy.NewAnomaly(counters, reviewstore.New(64), cfg, nil, publisher),
		strategy.NewDailyCap(counters, cfg, nil, publisher),
		strategy.NewCrossVerify(s.ledger, nil, publisher),
		strategy.NewTimeDecay(counters, cfg, nil),
		strategy.NewQualityWeight(cfg),
		strategy.NewGrowthTrack(ports.NoopPromotionEvaluator{}, nil),
	}

	p, err := pipeline.New(cfg, strategies)
	s.Require().NoError(err)

	s.service, err = New(p, s.ledger, WithAuditPublisher(publisher))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ServiceSuite) grantRequest(eventType models.EventType, points int) *models.GrantRequest {
	return &models.GrantRequest{
		UserID:     id.UserID("user-1"),
		EventType:  eventType,
		BasePoints: points,
		Timestamp:  midday,
	}
}

func (s *ServiceSuite) TestNew() {
	s.Run("nil pipeline returns error", func() {
		_, err := New(nil, s.ledger)
		s.Require().Error(err)
	})

	s.Run("nil ledger returns error", func() {
		cfg := config.DefaultConfig()
		p, err := pipeline.New(cfg, []strategy.Strategy{
			strategy.NewAnomaly(counterstore.New(), reviewstore.New(8), cfg, nil, nil),
			strategy.NewDailyCap(counterstore.New(), cfg, nil, nil),
			strategy.NewCrossVerify(ledgerstore.New(), nil, nil),
			strategy.NewTimeDecay(counterstore.New(), cfg, nil),
			strategy.NewQualityWeight(cfg),
			strategy.NewGrowthTrack(ports.NoopPromotionEvaluator{}, nil),
		})
		s.Require().NoError(err)
		_, err = New(p, nil)
		s.Require().Error(err)
	})
}

func (s *ServiceSuite) TestGrant() {
	s.Run("awards points for a valid request", func() {
		result, err := s.service.Grant(s.ctx, s.grantRequest(models.EventDailyCheckin, 5))
		s.Require().NoError(err)
		s.True(result.Awarded)
		s.Equal(5, result.FinalPoints)
	})

	s.Run("rejects invalid request", func() {
		req := s.grantRequest(models.EventDailyCheckin, 5)
		req.UserID = ""
		_, err := s.service.Grant(s.ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects unknown event type", func() {
		_, err := s.service.Grant(s.ctx, s.grantRequest("made_up", 5))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("writes an audit record", func() {
		s.auditStore.Clear()
		_, err := s.service.Grant(s.ctx, s.grantRequest(models.EventContentPublish, 20))
		s.Require().NoError(err)

		events, err := s.auditStore.ListByAction(s.ctx, string(audit.EventPointsGranted))
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(id.UserID("user-1"), events[0].UserID)
	})
}

func (s *ServiceSuite) TestConfirm() {
	eventType := models.EventMenteeGraduation
	requester := id.UserID("mentor-1")
	counterpart := id.UserID("mentee-1")
	behaviorID := id.BehaviorID("grad-1")

	s.Run("no pending record returns not found", func() {
		err := s.service.Confirm(s.ctx, counterpart, requester, eventType, "grad-none")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("confirm alone never grants points", func() {
		req := s.grantRequest(eventType, 100)
		req.UserID = requester
		req.CounterpartUserID = counterpart
		req.BehaviorID = behaviorID

		result, err := s.service.Grant(s.ctx, req)
		s.Require().NoError(err)
		s.True(result.PendingConfirmation)
		s.Equal(0, result.FinalPoints)

		s.Require().NoError(s.service.Confirm(s.ctx, counterpart, requester, eventType, behaviorID))

		// The confirmation itself awards nothing; the requester collects
		// by resubmitting the grant.
		result, err = s.service.Grant(s.ctx, req)
		s.Require().NoError(err)
		s.True(result.Awarded)
		s.Equal(100, result.FinalPoints)
	})

	s.Run("rejects missing participants", func() {
		err := s.service.Confirm(s.ctx, "", requester, eventType, behaviorID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
