package regression

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/pit"
)

// Trainer fits per-season ridge coefficients under the walk-forward rule: a
// season's model sees only games from strictly earlier seasons.
type Trainer struct {
	Lambda           float64
	MinTrainingGames int
	Features         FeatureSet
}

// Target returns the regression target for a market: combined score for
// totals, home margin for spreads. Unplayed games have no target.
func Target(game *models.Game, market models.Market) (float64, bool) {
	switch market {
	case models.MarketTotal:
		return game.TotalPoints()
	case models.MarketSpread:
		return game.HomeMargin()
	default:
		return 0, false
	}
}

// FitSeason trains coefficients for evaluating one season. Training rows
// come from completed games of seasons strictly before it; games without an
// eligible snapshot pair are skipped. Fewer usable rows than
// MinTrainingGames yields ErrInsufficientTrainingData and the caller skips
// the evaluation season.
func (t *Trainer) FitSeason(sport models.Sport, market models.Market, season int, games *pit.GameIndex, snapshots *pit.SnapshotIndex) (*models.ModelCoefficients, error) {
	var rows [][]float64
	var targets []float64

	for _, game := range games.GamesBeforeSeason(season) {
		if game.Sport != sport {
			continue
		}
		y, ok := Target(game, market)
		if !ok {
			continue
		}
		row, err := t.row(game, snapshots)
		if err != nil {
			if errors.Is(err, models.ErrSnapshotUnavailable) {
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
		targets = append(targets, y)
	}

	if len(rows) < t.MinTrainingGames {
		return nil, fmt.Errorf("season %d has %d usable training games, need %d: %w",
			season, len(rows), t.MinTrainingGames, models.ErrInsufficientTrainingData)
	}

	weights, err := Fit(rows, targets, t.Lambda)
	if err != nil {
		return nil, fmt.Errorf("ridge fit for season %d: %w", season, err)
	}

	return &models.ModelCoefficients{
		Sport:         sport,
		Season:        season,
		Lambda:        t.Lambda,
		Features:      t.Features.Names(),
		Weights:       weights,
		TrainingGames: len(rows),
		TrainedAt:     time.Now().UTC(),
	}, nil
}

// Predict applies season coefficients to one game. Returns
// ErrSnapshotUnavailable when either team has no eligible snapshot.
func (t *Trainer) Predict(coeffs *models.ModelCoefficients, game *models.Game, snapshots *pit.SnapshotIndex) (float64, error) {
	row, err := t.row(game, snapshots)
	if err != nil {
		return 0, err
	}
	return coeffs.Predict(row), nil
}

func (t *Trainer) row(game *models.Game, snapshots *pit.SnapshotIndex) ([]float64, error) {
	home, away, err := snapshots.MatchGame(game)
	if err != nil {
		return nil, err
	}
	var homeMomentum, awayMomentum float64
	if t.Features.Momentum {
		homeMomentum, _ = snapshots.Momentum(game.HomeTeamID, game.Date, t.Features.MomentumWindowDays)
		awayMomentum, _ = snapshots.Momentum(game.AwayTeamID, game.Date, t.Features.MomentumWindowDays)
	}
	return t.Features.Row(home, away, homeMomentum, awayMomentum), nil
}

// Edge turns a prediction and a market line into a directional lean. The
// returned magnitude is the absolute edge; an edge of exactly zero yields a
// neutral direction and no pick.
func Edge(prediction, line float64, market models.Market) (models.Direction, float64) {
	switch market {
	case models.MarketTotal:
		edge := prediction - line
		if edge > 0 {
			return models.DirectionOver, edge
		}
		if edge < 0 {
			return models.DirectionUnder, -edge
		}
		return models.DirectionNeutral, 0
	case models.MarketSpread:
		// Line is the home spread: negative when home is favored. The
		// prediction is home margin, so the cover edge is margin plus line.
		edge := prediction + line
		if edge > 0 {
			return models.DirectionHome, edge
		}
		if edge < 0 {
			return models.DirectionAway, -edge
		}
		return models.DirectionNeutral, 0
	default:
		return models.DirectionNeutral, 0
	}
}
