package backtest

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/regression"
	"github.com/yourusername/pick-engine/internal/scoring"
	"github.com/yourusername/pick-engine/internal/signals"
)

// Filters are the pre-scoring context filters a sweep explores. A zero value
// disables the filter.
type Filters struct {
	MinEdge      float64
	TempoCeiling float64
	LineCeiling  float64
}

// Harness evaluates one scorer configuration with walk-forward discipline:
// season S is scored with coefficients fit on seasons strictly before S.
type Harness struct {
	configName string
	trainer    *regression.Trainer
	scorer     *scoring.Scorer
	generators []signals.Generator
	filters    Filters
	logger     *logrus.Logger
}

// NewHarness creates a harness for one configuration
func NewHarness(configName string, engineCfg config.EngineConfig, scorer *scoring.Scorer, filters Filters, logger *logrus.Logger) *Harness {
	if logger == nil {
		logger = logrus.New()
	}
	features := regression.FeatureSet{}
	if engineCfg.UseMomentumFeature {
		features.Momentum = true
		features.MomentumWindowDays = engineCfg.MomentumWindowDays
	}
	return &Harness{
		configName: configName,
		trainer: &regression.Trainer{
			Lambda:           engineCfg.Lambda,
			MinTrainingGames: engineCfg.MinTrainingGames,
			Features:         features,
		},
		scorer:     scorer,
		generators: signals.DefaultGenerators(),
		filters:    filters,
		logger:     logger,
	}
}

// Run walks every season in [startSeason, endSeason]. Seasons with too
// little prior data are skipped, not failed: the first season of a dataset
// can never be evaluated.
func (h *Harness) Run(ds *Dataset, market models.Market, startSeason, endSeason int) ([]*models.BacktestRun, error) {
	var runs []*models.BacktestRun
	for season := startSeason; season <= endSeason; season++ {
		run, err := h.EvaluateSeason(ds, market, season)
		if errors.Is(err, models.ErrInsufficientTrainingData) {
			h.logger.WithFields(logrus.Fields{
				"season": season,
				"sport":  ds.Sport,
				"market": market,
			}).Warn("Skipping season with insufficient training data")
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// EvaluateSeason trains on strictly earlier seasons, generates picks for one
// held-out season and scores them against realized outcomes.
func (h *Harness) EvaluateSeason(ds *Dataset, market models.Market, season int) (*models.BacktestRun, error) {
	coeffs, err := h.trainer.FitSeason(ds.Sport, market, season, ds.Games, ds.Snapshots)
	if err != nil {
		return nil, err
	}

	run := &models.BacktestRun{
		ID:          uuid.New(),
		ConfigName:  h.configName,
		Sport:       ds.Sport,
		Market:      market,
		Season:      season,
		TierRecords: make(map[models.ConfidenceTier]models.TierRecord),
	}

	var predictions, targets []float64
	picks := 0
	seasonGames := ds.Games.SeasonGames(season)

	for _, game := range seasonGames {
		if game.Sport != ds.Sport {
			continue
		}
		line, hasLine := game.Line(market)
		if !hasLine {
			continue
		}
		if h.filters.LineCeiling > 0 && line > h.filters.LineCeiling {
			continue
		}

		sctx := signals.Context{
			Game:    game,
			Market:  market,
			Line:    line,
			HasLine: true,
		}

		home, away, matchErr := ds.Snapshots.MatchGame(game)
		if matchErr != nil {
			if !errors.Is(matchErr, models.ErrSnapshotUnavailable) {
				return nil, matchErr
			}
			metrics.SnapshotMatchFailuresTotal.Inc()
		} else {
			sctx.HomeSnapshot = home
			sctx.AwaySnapshot = away
			prediction, predErr := h.trainer.Predict(coeffs, game, ds.Snapshots)
			if predErr == nil {
				sctx.Prediction = prediction
				sctx.HasPrediction = true
				if target, ok := regression.Target(game, market); ok {
					predictions = append(predictions, prediction)
					targets = append(targets, target)
				}
			}
		}

		if !h.passesFilters(&sctx) {
			continue
		}

		sctx.HomeGames = ds.Games.TeamGamesBefore(game.HomeTeamID, game.Date, season)
		sctx.AwayGames = ds.Games.TeamGamesBefore(game.AwayTeamID, game.Date, season)
		sctx.HeadToHead = ds.Games.HeadToHeadBefore(game.HomeTeamID, game.AwayTeamID, game.Date)

		results := signals.Evaluate(sctx, h.generators)
		_, side, tier := h.scorer.Evaluate(results)
		if tier == models.TierNone {
			continue
		}

		outcome, settled := settle(game, market, side, line)
		if !settled {
			continue
		}
		picks++
		record := run.TierRecords[tier]
		switch outcome {
		case outcomeWin:
			record.Wins++
		case outcomeLoss:
			record.Losses++
		case outcomePush:
			record.Pushes++
		}
		run.TierRecords[tier] = record
	}

	run.RMSE = regression.RMSE(predictions, targets)
	run.PicksPerWeek = picksPerWeek(picks, seasonGames)
	return run, nil
}

func (h *Harness) passesFilters(sctx *signals.Context) bool {
	if h.filters.MinEdge > 0 {
		if !sctx.HasPrediction {
			return false
		}
		_, edge := regression.Edge(sctx.Prediction, sctx.Line, sctx.Market)
		if edge < h.filters.MinEdge {
			return false
		}
	}
	if h.filters.TempoCeiling > 0 {
		if sctx.HomeSnapshot == nil || sctx.AwaySnapshot == nil {
			return false
		}
		avgTempo := (sctx.HomeSnapshot.Tempo + sctx.AwaySnapshot.Tempo) / 2.0
		if avgTempo > h.filters.TempoCeiling {
			return false
		}
	}
	return true
}

// Aggregate merges per-season runs into one cross-season record.
func Aggregate(configName string, runs []*models.BacktestRun) *models.BacktestRun {
	merged := &models.BacktestRun{
		ID:          uuid.New(),
		ConfigName:  configName,
		TierRecords: make(map[models.ConfidenceTier]models.TierRecord),
	}
	if len(runs) == 0 {
		return merged
	}
	merged.Sport = runs[0].Sport
	merged.Market = runs[0].Market

	for _, run := range runs {
		for tier, record := range run.TierRecords {
			total := merged.TierRecords[tier]
			total.Add(record)
			merged.TierRecords[tier] = total
		}
		merged.PicksPerWeek += run.PicksPerWeek
		merged.RMSE += run.RMSE
	}
	merged.PicksPerWeek /= float64(len(runs))
	merged.RMSE /= float64(len(runs))
	return merged
}

// PublishMetrics exposes an aggregate run on the Prometheus registry.
func PublishMetrics(aggregate *models.BacktestRun) {
	labels := []string{aggregate.ConfigName, string(aggregate.Sport), string(aggregate.Market)}
	metrics.BacktestTopTierWinRate.WithLabelValues(labels...).Set(aggregate.Record(models.TierTop).WinRate())
	metrics.BacktestRMSE.WithLabelValues(labels...).Set(aggregate.RMSE)
	metrics.PicksPerWeek.WithLabelValues(labels...).Set(aggregate.PicksPerWeek)
}

type outcome int

const (
	outcomeWin outcome = iota
	outcomeLoss
	outcomePush
)

// settle scores a directional side against the realized result. Unplayed
// games cannot settle.
func settle(game *models.Game, market models.Market, side models.Direction, line float64) (outcome, bool) {
	switch market {
	case models.MarketSpread:
		margin, ok := game.HomeMargin()
		if !ok {
			return outcomePush, false
		}
		homeEdge := margin + line
		if homeEdge == 0 {
			return outcomePush, true
		}
		covered := models.DirectionHome
		if homeEdge < 0 {
			covered = models.DirectionAway
		}
		if side == covered {
			return outcomeWin, true
		}
		return outcomeLoss, true
	case models.MarketTotal:
		points, ok := game.TotalPoints()
		if !ok {
			return outcomePush, false
		}
		if points == line {
			return outcomePush, true
		}
		landed := models.DirectionUnder
		if points > line {
			landed = models.DirectionOver
		}
		if side == landed {
			return outcomeWin, true
		}
		return outcomeLoss, true
	default:
		return outcomePush, false
	}
}

// picksPerWeek normalizes pick volume by the season's span.
func picksPerWeek(picks int, seasonGames []*models.Game) float64 {
	if picks == 0 || len(seasonGames) == 0 {
		return 0
	}
	first := seasonGames[0].Day()
	last := seasonGames[len(seasonGames)-1].Day()
	weeks := math.Max(1, float64(models.DaysBetween(first, last)+1)/7.0)
	return float64(picks) / weeks
}

// String renders a filter set for config naming.
func (f Filters) String() string {
	return fmt.Sprintf("edge=%.1f,tempo=%.1f,line=%.1f", f.MinEdge, f.TempoCeiling, f.LineCeiling)
}
