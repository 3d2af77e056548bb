package signals

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
)

// formWindow is how many trailing games define recent form.
const formWindow = 5

// RecentFormGenerator compares the two teams' trailing scoring margins for
// spreads, or their trailing combined scoring against the line for totals.
type RecentFormGenerator struct{}

func (g *RecentFormGenerator) Category() models.SignalCategory {
	return models.CategoryRecentForm
}

func (g *RecentFormGenerator) Generate(ctx Context) models.SignalResult {
	switch ctx.Market {
	case models.MarketSpread:
		return g.marginTrend(ctx)
	case models.MarketTotal:
		return g.scoringTrend(ctx)
	default:
		return models.NeutralSignal(g.Category(), "unsupported market")
	}
}

func (g *RecentFormGenerator) marginTrend(ctx Context) models.SignalResult {
	homeAvg, homeN := avgMargin(lastN(ctx.HomeGames, formWindow), ctx.Game.HomeTeamID)
	awayAvg, awayN := avgMargin(lastN(ctx.AwayGames, formWindow), ctx.Game.AwayTeamID)
	if homeN < 3 || awayN < 3 {
		return models.NeutralSignal(g.Category(), "insufficient recent games")
	}

	diff := homeAvg - awayAvg
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "even recent margins")
	}
	direction := models.DirectionHome
	if diff < 0 {
		direction = models.DirectionAway
		diff = -diff
	}
	magnitude := diff / 15.0
	confidence := clamp01(float64(homeN+awayN) / float64(2*formWindow))
	rationale := fmt.Sprintf("recent margins %+.1f vs %+.1f", homeAvg, awayAvg)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

func (g *RecentFormGenerator) scoringTrend(ctx Context) models.SignalResult {
	if !ctx.HasLine {
		return models.NeutralSignal(g.Category(), "no market line captured")
	}
	recent := append(append([]*models.Game{}, lastN(ctx.HomeGames, formWindow)...), lastN(ctx.AwayGames, formWindow)...)
	sum, n := 0.0, 0
	for _, game := range recent {
		points, ok := game.TotalPoints()
		if !ok {
			continue
		}
		sum += points
		n++
	}
	if n < 6 {
		return models.NeutralSignal(g.Category(), "insufficient recent games")
	}

	avg := sum / float64(n)
	diff := avg - ctx.Line
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "recent scoring matches the line")
	}
	direction := models.DirectionOver
	if diff < 0 {
		direction = models.DirectionUnder
		diff = -diff
	}
	magnitude := diff / 12.0
	confidence := clamp01(float64(n) / float64(2*formWindow))
	rationale := fmt.Sprintf("recent combined scoring %.1f vs line %.1f", avg, ctx.Line)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

// avgMargin is a team's average scoring margin over completed games.
func avgMargin(games []*models.Game, teamID uuid.UUID) (float64, int) {
	sum, n := 0.0, 0
	for _, game := range games {
		margin, ok := game.HomeMargin()
		if !ok {
			continue
		}
		if teamID == game.AwayTeamID {
			margin = -margin
		} else if teamID != game.HomeTeamID {
			continue
		}
		sum += margin
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
