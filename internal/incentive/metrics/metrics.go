package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GrantsTotal          *prometheus.CounterVec
	PointsAwardedTotal   *prometheus.CounterVec
	StrategyOutcomes     *prometheus.CounterVec
	PipelineDuration     prometheus.Histogram
	ReviewItemsTotal     prometheus.Counter
	CounterFallbackTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		GrantsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "incentive_grants_total",
			Help: "Total grant requests processed, by final disposition",
		}, []string{"event_type", "disposition"}),
		PointsAwardedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "incentive_points_awarded_total",
			Help: "Total points awarded after gating, by event type",
		}, []string{"event_type"}),
		StrategyOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "incentive_strategy_outcomes_total",
			Help: "Per-strategy verdicts across all pipeline runs",
		}, []string{"strategy", "verdict"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "incentive_pipeline_duration_ms",
			Help:    "Latency of full pipeline runs in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		ReviewItemsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "incentive_review_items_total",
			Help: "Total anomaly review items enqueued",
		}),
		CounterFallbackTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "incentive_counter_fallback_total",
			Help: "Counter store calls degraded to local in-process counting",
		}),
	}
}

func (m *Metrics) ObserveGrant(eventType, disposition string, points int, elapsed time.Duration) {
	m.GrantsTotal.WithLabelValues(eventType, disposition).Inc()
	if points > 0 {
		m.PointsAwardedTotal.WithLabelValues(eventType).Add(float64(points))
	}
	m.PipelineDuration.Observe(float64(elapsed.Microseconds()) / 1000.0)
}

func (m *Metrics) ObserveStrategy(strategy, verdict string) {
	m.StrategyOutcomes.WithLabelValues(strategy, verdict).Inc()
}

func (m *Metrics) IncrementReviewItems() {
	m.ReviewItemsTotal.Inc()
}

func (m *Metrics) IncrementCounterFallback() {
	m.CounterFallbackTotal.Inc()
}
