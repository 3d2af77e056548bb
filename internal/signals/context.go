// Package signals implements the independent evidence generators that feed
// the convergence scorer. Each generator is a pure function of the context
// built for one (game, market); generators never fail, they degrade to a
// neutral result when their inputs are missing or too thin.
package signals

import (
	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
)

// Context carries the temporal-safe inputs for one (game, market)
// evaluation. Every slice and snapshot in it is dated strictly before the
// game; the caller (pick generator or backtest harness) is responsible for
// that cut.
type Context struct {
	Game   *models.Game
	Market models.Market

	// Captured pre-game market line. HasLine is false when no line was
	// captured for this market.
	Line    float64
	HasLine bool

	// Regression output. HasPrediction is false when either team had no
	// eligible snapshot.
	Prediction    float64
	HasPrediction bool

	// Matched snapshots, nil when unavailable.
	HomeSnapshot *models.RatingSnapshot
	AwaySnapshot *models.RatingSnapshot

	// Completed same-season games for each team, oldest first.
	HomeGames []*models.Game
	AwayGames []*models.Game

	// Prior completed meetings between the two teams, any season, oldest
	// first.
	HeadToHead []*models.Game
}

// atsResult is a team's against-the-spread outcome for one game.
type atsResult int

const (
	atsPush atsResult = iota
	atsCover
	atsFail
)

// coverResult reports whether the team covered the captured spread in a
// completed game, with ok=false when the game has no spread or no score.
func coverResult(game *models.Game, teamID uuid.UUID) (atsResult, bool) {
	margin, ok := game.HomeMargin()
	if !ok {
		return atsPush, false
	}
	spread, ok := game.Line(models.MarketSpread)
	if !ok {
		return atsPush, false
	}
	homeEdge := margin + spread
	if homeEdge == 0 {
		return atsPush, true
	}
	homeCovered := homeEdge > 0
	switch teamID {
	case game.HomeTeamID:
		if homeCovered {
			return atsCover, true
		}
		return atsFail, true
	case game.AwayTeamID:
		if homeCovered {
			return atsFail, true
		}
		return atsCover, true
	default:
		return atsPush, false
	}
}

// overResult reports whether a completed game went over its captured total,
// with ok=false when it lacks a total or a score. Exact lands are pushes.
func overResult(game *models.Game) (over bool, push bool, ok bool) {
	points, ok := game.TotalPoints()
	if !ok {
		return false, false, false
	}
	total, ok := game.Line(models.MarketTotal)
	if !ok {
		return false, false, false
	}
	if points == total {
		return false, true, true
	}
	return points > total, false, true
}

// lastN returns the trailing n games of a chronological slice.
func lastN(games []*models.Game, n int) []*models.Game {
	if len(games) <= n {
		return games
	}
	return games[len(games)-n:]
}
