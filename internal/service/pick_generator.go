package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/backtest"
	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/regression"
	"github.com/yourusername/pick-engine/internal/repository"
	"github.com/yourusername/pick-engine/internal/scoring"
	"github.com/yourusername/pick-engine/internal/signals"
)

// trainingSeasonLookback bounds how far back the dataset load reaches for
// training games. Five prior seasons is more than MinTrainingGames ever
// needs for either sport.
const trainingSeasonLookback = 5

// PickGenerator produces the day's picks: fit coefficients on prior seasons,
// run the signal battery over each game with a captured line, score, tier and
// upsert. Regenerating a date is idempotent because pick IDs derive from the
// natural key.
type PickGenerator struct {
	cfg        *config.Config
	repos      *repository.Repositories
	generators []signals.Generator
	logger     *logrus.Logger
	pickLogger *logger.PickLogger
}

// NewPickGenerator creates a pick generator.
func NewPickGenerator(cfg *config.Config, repos *repository.Repositories, log *logrus.Logger) *PickGenerator {
	if log == nil {
		log = logrus.New()
	}
	return &PickGenerator{
		cfg:        cfg,
		repos:      repos,
		generators: signals.DefaultGenerators(),
		logger:     log,
		pickLogger: logger.NewPickLogger(log),
	}
}

// SeasonFor maps a calendar date to the season label used for training
// cutoffs. Basketball seasons span the new year and are labeled by the year
// they end in; football seasons are labeled by the fall they start in, with
// January bowls belonging to the prior fall.
func SeasonFor(sport models.Sport, date time.Time) int {
	day := models.Day(date)
	switch sport {
	case models.SportBasketball:
		if day.Month() >= time.November {
			return day.Year() + 1
		}
		return day.Year()
	case models.SportFootball:
		if day.Month() <= time.February {
			return day.Year() - 1
		}
		return day.Year()
	default:
		return day.Year()
	}
}

// GenerateForDate generates and persists picks for every market of one
// sport's slate on one day. Markets without scoring configuration are
// skipped; a market whose model cannot train is skipped with a warning.
func (g *PickGenerator) GenerateForDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Pick, error) {
	if err := sport.Validate(); err != nil {
		return nil, err
	}
	day := models.Day(date)
	season := SeasonFor(sport, day)

	slate, err := g.repos.Game.GetByDate(ctx, sport, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load slate: %w", err)
	}
	if len(slate) == 0 {
		g.logger.WithFields(logrus.Fields{
			"sport": sport,
			"date":  day.Format("2006-01-02"),
		}).Info("No games on slate")
		return nil, nil
	}

	ds, err := backtest.Load(ctx, g.repos, sport, season-trainingSeasonLookback, season, g.cfg.Engine.SnapshotWindowDays)
	if err != nil {
		return nil, err
	}

	trainer := g.newTrainer()
	var picks []*models.Pick
	for _, market := range models.Markets() {
		marketCfg, err := g.cfg.MarketScoringFor(string(sport), string(market))
		if err != nil {
			g.logger.WithFields(logrus.Fields{
				"sport":  sport,
				"market": market,
			}).Debug("No scoring configuration, skipping market")
			continue
		}
		scorer, err := scoring.New(sport, market, marketCfg, g.cfg.Scoring.DefaultWeight)
		if err != nil {
			return nil, err
		}

		coeffs, err := trainer.FitSeason(sport, market, season, ds.Games, ds.Snapshots)
		if errors.Is(err, models.ErrInsufficientTrainingData) {
			g.logger.WithFields(logrus.Fields{
				"sport":  sport,
				"market": market,
				"season": season,
			}).Warn("Insufficient training data, skipping market")
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, game := range slate {
			pick, ok := g.evaluateGame(trainer, coeffs, scorer, ds, game, market, season)
			if !ok {
				continue
			}
			if err := g.repos.Pick.Upsert(ctx, pick); err != nil {
				return nil, fmt.Errorf("failed to upsert pick for game %s: %w", game.ID, err)
			}
			metrics.PicksGeneratedTotal.WithLabelValues(string(sport), string(market), string(pick.Tier)).Inc()
			g.pickLogger.LogPickGenerated(
				pick.ID.String(), game.ID.String(),
				string(sport), string(market), string(pick.Side), string(pick.Tier),
				pick.Score, len(pick.Signals),
			)
			picks = append(picks, pick)
		}
	}

	g.logger.WithFields(logrus.Fields{
		"sport": sport,
		"date":  day.Format("2006-01-02"),
		"picks": len(picks),
	}).Info("Pick generation complete")
	return picks, nil
}

func (g *PickGenerator) evaluateGame(
	trainer *regression.Trainer,
	coeffs *models.ModelCoefficients,
	scorer *scoring.Scorer,
	ds *backtest.Dataset,
	game *models.Game,
	market models.Market,
	season int,
) (*models.Pick, bool) {
	line, hasLine := game.Line(market)
	if !hasLine {
		g.pickLogger.LogGameSkipped(game.ID.String(), string(game.Sport), string(market), "no line captured")
		return nil, false
	}

	sctx := signals.Context{
		Game:    game,
		Market:  market,
		Line:    line,
		HasLine: true,
	}

	home, away, err := ds.Snapshots.MatchGame(game)
	if err != nil {
		if errors.Is(err, models.ErrSnapshotUnavailable) {
			metrics.SnapshotMatchFailuresTotal.Inc()
		}
	} else {
		sctx.HomeSnapshot = home
		sctx.AwaySnapshot = away
		if prediction, predErr := trainer.Predict(coeffs, game, ds.Snapshots); predErr == nil {
			sctx.Prediction = prediction
			sctx.HasPrediction = true
		}
	}

	sctx.HomeGames = ds.Games.TeamGamesBefore(game.HomeTeamID, game.Date, season)
	sctx.AwayGames = ds.Games.TeamGamesBefore(game.AwayTeamID, game.Date, season)
	sctx.HeadToHead = ds.Games.HeadToHeadBefore(game.HomeTeamID, game.AwayTeamID, game.Date)

	results := signals.Evaluate(sctx, g.generators)
	score, side, tier := scorer.Evaluate(results)
	if tier == models.TierNone {
		g.pickLogger.LogGameSkipped(game.ID.String(), string(game.Sport), string(market), "below tier threshold")
		return nil, false
	}

	day := game.Day()
	now := time.Now().UTC()
	return &models.Pick{
		ID:        models.PickID(day, game.Sport, market, game.ID),
		GameID:    game.ID,
		Date:      day,
		Sport:     game.Sport,
		Market:    market,
		Side:      side,
		Score:     score,
		Tier:      tier,
		Signals:   results,
		CreatedAt: now,
		UpdatedAt: now,
	}, true
}

func (g *PickGenerator) newTrainer() *regression.Trainer {
	features := regression.FeatureSet{}
	if g.cfg.Engine.UseMomentumFeature {
		features.Momentum = true
		features.MomentumWindowDays = g.cfg.Engine.MomentumWindowDays
	}
	return &regression.Trainer{
		Lambda:           g.cfg.Engine.Lambda,
		MinTrainingGames: g.cfg.Engine.MinTrainingGames,
		Features:         features,
	}
}
