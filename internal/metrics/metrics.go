// Package metrics provides the centralized Prometheus metrics registry for
// the pick engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ResolutionMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "resolution_misses_total",
		Help:      "Total number of team name resolution misses",
	}, []string{"source"})
	PicksGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "picks_generated_total",
		Help:      "Total number of picks generated",
	}, []string{"sport", "market", "tier"})
	SnapshotMatchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "snapshot_match_failures_total",
		Help:      "Total number of games with no eligible rating snapshot",
	})
	SignalsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "signals_generated_total",
		Help:      "Total number of non-neutral signals generated",
	}, []string{"category"})
	SweepConfigsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "sweep_configs_evaluated_total",
		Help:      "Total number of sweep configurations evaluated",
	})
	SnapshotsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "snapshots_ingested_total",
		Help:      "Total number of rating snapshots ingested",
	})
	GamesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "games_ingested_total",
		Help:      "Total number of games ingested",
	})
	LinesCapturedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pick_engine",
		Name:      "lines_captured_total",
		Help:      "Total number of pre-game market lines captured",
	})
)

// Gauge metrics
var (
	BacktestTopTierWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pick_engine",
		Name:      "backtest_top_tier_win_rate",
		Help:      "Top-tier realized win rate from the latest backtest run",
	}, []string{"config", "sport", "market"})
	BacktestRMSE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pick_engine",
		Name:      "backtest_rmse",
		Help:      "Held-out regression RMSE from the latest backtest run",
	}, []string{"config", "sport", "market"})
	PicksPerWeek = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pick_engine",
		Name:      "picks_per_week",
		Help:      "Picks-per-week rate from the latest backtest run",
	}, []string{"config", "sport", "market"})
)

// Histogram metrics
var (
	ScoreDistribution = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pick_engine",
		Name:      "convergence_score",
		Help:      "Distribution of convergence scores for scored games",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 10),
	}, []string{"sport", "market"})
)

// GetRegistry returns the global metrics registry, creating and populating it
// on first use.
func GetRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			ResolutionMissesTotal,
			PicksGeneratedTotal,
			SnapshotMatchFailuresTotal,
			SignalsGeneratedTotal,
			SweepConfigsEvaluatedTotal,
			SnapshotsIngestedTotal,
			GamesIngestedTotal,
			LinesCapturedTotal,
			BacktestTopTierWinRate,
			BacktestRMSE,
			PicksPerWeek,
			ScoreDistribution,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
