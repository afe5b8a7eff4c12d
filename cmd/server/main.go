package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/handler"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/metrics"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/pipeline"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/service"
	counterstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/counter"
	ledgerstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/ledger"
	reviewstore "github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/store/review"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/strategy"
	platformconfig "github.com/ICELANF/behavioral-health-project-sub001/internal/platform/config"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/platform/httpserver"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/platform/logger"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/platform/middleware"
	platformpostgres "github.com/ICELANF/behavioral-health-project-sub001/internal/platform/postgres"
	platformredis "github.com/ICELANF/behavioral-health-project-sub001/internal/platform/redis"
	"github.com/ICELANF/behavioral-health-project-sub001/internal/promotion"
	audit "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit"
	auditpublisher "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit/publisher"
	auditmemory "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit/store/memory"
	auditpostgres "github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/audit/store/postgres"
)

// main wires the stores, strategies, pipeline, and HTTP surface. Every
// external dependency is optional: missing configuration degrades to an
// in-memory equivalent so the service always starts.
func main() {
	cfg := platformconfig.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg platformconfig.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Counter store: Redis when configured, always wrapped with the
	// in-process fallback so a Redis outage degrades instead of failing.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory counters", "error", err)
	}

	var counters ports.CounterStore
	var ledger ports.ConfirmationLedger
	if redisClient != nil {
		defer redisClient.Close()
		counters = counterstore.NewFallback(
			counterstore.NewRedis(redisClient.Client),
			counterstore.WithLogger(log),
			counterstore.WithDegradeHook(m.IncrementCounterFallback),
		)
		ledger = ledgerstore.NewRedis(redisClient.Client)
		log.Info("using redis stores", "url", cfg.Redis.URL)
	} else {
		counters = counterstore.New()
		ledger = ledgerstore.New()
		log.Info("using in-memory stores")
	}

	// Audit sink: Postgres when configured, in-memory otherwise.
	var auditStore audit.Store
	pool, err := platformpostgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Warn("postgres unavailable, audit events stay in memory", "error", err)
	}
	if pool != nil {
		defer pool.Close()
		auditStore = auditpostgres.New(pool)
		log.Info("audit events persisted to postgres")
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithLogger(log),
		auditpublisher.WithAsyncBuffer(256),
	)
	defer publisher.Close()

	// Review queue: Kafka when brokers are configured.
	var reviewQueue ports.ReviewQueue
	if len(cfg.Kafka.Brokers) > 0 {
		kq, err := reviewstore.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.ReviewTopic, log)
		if err != nil {
			log.Warn("kafka unavailable, review items stay in memory", "error", err)
			reviewQueue = reviewstore.New(1024)
		} else {
			defer kq.Close()
			reviewQueue = kq
			log.Info("review items published to kafka", "topic", cfg.Kafka.ReviewTopic)
		}
	} else {
		reviewQueue = reviewstore.New(1024)
	}

	var evaluator ports.PromotionEvaluator = ports.NoopPromotionEvaluator{}
	if cfg.PromotionEvaluatorURL != "" {
		evaluator = promotion.NewClient(cfg.PromotionEvaluatorURL)
	}

	policy := config.DefaultConfig()
	if err := policy.Validate(); err != nil {
		return err
	}

	strategies := []strategy.Strategy{
		strategy.NewAnomaly(counters, reviewQueue, policy, log, publisher,
			strategy.WithReviewItemHook(m.IncrementReviewItems)),
		strategy.NewDailyCap(counters, policy, log, publisher),
		strategy.NewCrossVerify(ledger, log, publisher),
		strategy.NewTimeDecay(counters, policy, log),
		strategy.NewQualityWeight(policy),
		strategy.NewGrowthTrack(evaluator, log),
	}

	pipe, err := pipeline.New(policy, strategies, pipeline.WithOutcomeHook(m.ObserveStrategy))
	if err != nil {
		return err
	}

	svc, err := service.New(pipe, ledger,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	var validator middleware.JWTValidator
	if cfg.JWTSigningKey != "" {
		validator = middleware.NewHS256Validator(cfg.JWTSigningKey)
	} else {
		log.Warn("JWT_SIGNING_KEY not set, incentive routes are unauthenticated")
	}

	h := handler.New(svc, log)
	srv := httpserver.New(cfg.Addr, handler.NewRouter(h, log, validator))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("incentive service listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
