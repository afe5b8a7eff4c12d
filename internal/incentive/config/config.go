// Package config holds the injected policy configuration for the
// incentive pipeline: the event→strategy registry, cap tables, quality
// tiers, decay steps, and anomaly thresholds.
//
// A Config is constructed once at process start and never mutated
// afterwards; strategies only read through its accessors. This replaces
// the module-level registries the original design relied on, keeping
// tests parallel-safe.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
)

// QualityTier maps a score threshold to a multiplier. Tiers are matched
// highest threshold first.
type QualityTier struct {
	Name       string
	Threshold  float64
	Multiplier float64
}

// DecayStep maps a repeat-count range within the rolling period to a
// multiplier. MaxCount 0 means unbounded.
type DecayStep struct {
	MaxCount   int
	Multiplier float64
}

// Config is the full policy configuration for the pipeline.
// Treat every field as read-only after construction.
type Config struct {
	// Registry maps each known event type to the subset of strategies
	// that apply to it. Execution order is fixed by ExecutionOrder
	// regardless of declaration order here.
	Registry map[models.EventType][]models.StrategyCode

	// DailyCaps limits grants per (user, event type, calendar day).
	// Zero or absent means uncapped.
	DailyCaps map[models.EventType]int

	// QualityTiers, sorted descending by threshold.
	QualityTiers []QualityTier
	// NeutralQualityScore substitutes for an absent quality score.
	NeutralQualityScore float64

	// DecaySteps, sorted ascending by MaxCount, last entry unbounded.
	DecaySteps []DecayStep
	// DecayPeriod bounds the rolling-period counter's lifetime.
	DecayPeriod time.Duration

	// Anomaly thresholds. The hourly threshold drops to the unusual value
	// inside the configured time-of-day band.
	AnomalyHourlyThreshold        int
	AnomalyHourlyUnusualThreshold int
	AnomalyHourlyWindow           time.Duration
	AnomalyBurstThreshold         int
	AnomalyBurstWindow            time.Duration
	// UnusualBandStartHour..UnusualBandEndHour (local time, half-open)
	// marks the low-threshold band, e.g. 0..6 for overnight activity.
	UnusualBandStartHour int
	UnusualBandEndHour   int

	// CapWindow bounds daily counter lifetime. The calendar date in the
	// key provides correctness; the TTL is cleanup.
	CapWindow time.Duration
}

type Option func(*Config)

// WithDailyCap overrides the cap for one event type.
func WithDailyCap(eventType models.EventType, cap int) Option {
	return func(c *Config) {
		c.DailyCaps[eventType] = cap
	}
}

// WithRegistryEntry overrides the strategy subset for one event type.
func WithRegistryEntry(eventType models.EventType, strategies ...models.StrategyCode) Option {
	return func(c *Config) {
		c.Registry[eventType] = strategies
	}
}

// WithAnomalyThresholds overrides the hourly and burst thresholds.
func WithAnomalyThresholds(hourly, hourlyUnusual, burst int) Option {
	return func(c *Config) {
		c.AnomalyHourlyThreshold = hourly
		c.AnomalyHourlyUnusualThreshold = hourlyUnusual
		c.AnomalyBurstThreshold = burst
	}
}

// WithUnusualBand overrides the low-threshold time-of-day band.
func WithUnusualBand(startHour, endHour int) Option {
	return func(c *Config) {
		c.UnusualBandStartHour = startHour
		c.UnusualBandEndHour = endHour
	}
}

// DefaultConfig returns the platform defaults. Overrides come from
// options so callers never reach into the maps directly.
func DefaultConfig(opts ...Option) *Config {
	cfg := &Config{
		Registry: map[models.EventType][]models.StrategyCode{
			models.EventDailyCheckin: {
				models.StrategyDailyCap,
			},
			models.EventContentPublish: {
				models.StrategyAnomaly,
				models.StrategyDailyCap,
				models.StrategyTimeDecay,
				models.StrategyQualityWeight,
				models.StrategyGrowthTrack,
			},
			models.EventPeerSupport: {
				models.StrategyAnomaly,
				models.StrategyDailyCap,
				models.StrategyTimeDecay,
				models.StrategyGrowthTrack,
			},
			models.EventAssessmentComplete: {
				models.StrategyDailyCap,
				models.StrategyQualityWeight,
				models.StrategyGrowthTrack,
			},
			models.EventCourseComplete: {
				models.StrategyCrossVerify,
				models.StrategyQualityWeight,
				models.StrategyGrowthTrack,
			},
			models.EventMenteeGraduation: {
				models.StrategyCrossVerify,
				models.StrategyGrowthTrack,
			},
		},
		DailyCaps: map[models.EventType]int{
			models.EventDailyCheckin:       1,
			models.EventContentPublish:     5,
			models.EventPeerSupport:        20,
			models.EventAssessmentComplete: 3,
		},
		QualityTiers: []QualityTier{
			{Name: "high", Threshold: 0.8, Multiplier: 2.0},
			{Name: "medium", Threshold: 0.6, Multiplier: 1.0},
			{Name: "low", Threshold: 0.3, Multiplier: 0.5},
			{Name: "rejected", Threshold: 0.0, Multiplier: 0.0},
		},
		NeutralQualityScore: 0.6,
		DecaySteps: []DecayStep{
			{MaxCount: 5, Multiplier: 1.0},
			{MaxCount: 10, Multiplier: 0.8},
			{MaxCount: 20, Multiplier: 0.5},
			{MaxCount: 0, Multiplier: 0.2},
		},
		DecayPeriod: 7 * 24 * time.Hour,

		AnomalyHourlyThreshold:        30,
		AnomalyHourlyUnusualThreshold: 10,
		AnomalyHourlyWindow:           time.Hour,
		AnomalyBurstThreshold:         5,
		AnomalyBurstWindow:            30 * time.Second,
		UnusualBandStartHour:          0,
		UnusualBandEndHour:            6,

		CapWindow: 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks internal consistency; called once at wiring time.
func (c *Config) Validate() error {
	if len(c.Registry) == 0 {
		return fmt.Errorf("registry must not be empty")
	}
	for et, codes := range c.Registry {
		for _, code := range codes {
			if !knownStrategy(code) {
				return fmt.Errorf("event %s references unknown strategy %s", et, code)
			}
		}
	}
	if !sort.SliceIsSorted(c.QualityTiers, func(i, j int) bool {
		return c.QualityTiers[i].Threshold > c.QualityTiers[j].Threshold
	}) {
		return fmt.Errorf("quality tiers must be sorted by descending threshold")
	}
	if c.UnusualBandStartHour < 0 || c.UnusualBandStartHour > 23 ||
		c.UnusualBandEndHour < 0 || c.UnusualBandEndHour > 24 {
		return fmt.Errorf("unusual band hours out of range")
	}
	return nil
}

func knownStrategy(code models.StrategyCode) bool {
	switch code {
	case models.StrategyAnomaly, models.StrategyDailyCap, models.StrategyCrossVerify,
		models.StrategyTimeDecay, models.StrategyQualityWeight, models.StrategyGrowthTrack:
		return true
	}
	return false
}

// ExecutionOrder is the fixed strategy ordering the orchestrator honors.
// Anomaly runs first so bursts are observed even when a later cap
// short-circuits the request.
func ExecutionOrder() []models.StrategyCode {
	return []models.StrategyCode{
		models.StrategyAnomaly,
		models.StrategyDailyCap,
		models.StrategyCrossVerify,
		models.StrategyTimeDecay,
		models.StrategyQualityWeight,
		models.StrategyGrowthTrack,
	}
}

// StrategiesFor resolves the applicable strategy set for an event type.
func (c *Config) StrategiesFor(eventType models.EventType) ([]models.StrategyCode, bool) {
	codes, ok := c.Registry[eventType]
	return codes, ok
}

// DailyCap returns the cap for an event type; zero means uncapped.
func (c *Config) DailyCap(eventType models.EventType) int {
	return c.DailyCaps[eventType]
}

// QualityTierFor maps a score to its tier, highest threshold first.
func (c *Config) QualityTierFor(score float64) QualityTier {
	for _, tier := range c.QualityTiers {
		if score >= tier.Threshold {
			return tier
		}
	}
	// Scores below every threshold land in the lowest tier.
	return c.QualityTiers[len(c.QualityTiers)-1]
}

// DecayMultiplierFor maps a repeat ordinal (1-based, including the
// current request) to its decay multiplier.
func (c *Config) DecayMultiplierFor(ordinal int) float64 {
	for _, step := range c.DecaySteps {
		if step.MaxCount == 0 || ordinal <= step.MaxCount {
			return step.Multiplier
		}
	}
	return 1.0
}

// HourlyAnomalyThreshold returns the trailing-hour threshold for the
// given instant, lower inside the unusual time-of-day band.
func (c *Config) HourlyAnomalyThreshold(t time.Time) int {
	if c.InUnusualBand(t) {
		return c.AnomalyHourlyUnusualThreshold
	}
	return c.AnomalyHourlyThreshold
}

// InUnusualBand reports whether t falls in the configured low-threshold
// band. The band may wrap midnight (e.g. 22..6).
func (c *Config) InUnusualBand(t time.Time) bool {
	hour := t.Hour()
	start, end := c.UnusualBandStartHour, c.UnusualBandEndHour
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
