package signals

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/models"
)

// MatchupGenerator works directly off the matched rating snapshots: for
// spreads, the cross of each offense against the opposing defense; for
// totals, a pace-adjusted projected total compared against the line.
// Efficiencies are per hundred possessions, tempo is possessions per game.
type MatchupGenerator struct{}

func (g *MatchupGenerator) Category() models.SignalCategory {
	return models.CategoryMatchup
}

func (g *MatchupGenerator) Generate(ctx Context) models.SignalResult {
	if ctx.HomeSnapshot == nil || ctx.AwaySnapshot == nil {
		return models.NeutralSignal(g.Category(), "no eligible snapshot pair")
	}
	switch ctx.Market {
	case models.MarketSpread:
		return g.efficiencyCross(ctx)
	case models.MarketTotal:
		return g.paceProjection(ctx)
	default:
		return models.NeutralSignal(g.Category(), "unsupported market")
	}
}

func (g *MatchupGenerator) efficiencyCross(ctx Context) models.SignalResult {
	home, away := ctx.HomeSnapshot, ctx.AwaySnapshot
	homeAttack := home.OffensiveEff - away.DefensiveEff
	awayAttack := away.OffensiveEff - home.DefensiveEff
	net := homeAttack - awayAttack
	if net == 0 {
		return models.NeutralSignal(g.Category(), "even efficiency cross")
	}

	direction := models.DirectionHome
	if net < 0 {
		direction = models.DirectionAway
		net = -net
	}
	magnitude := net / 20.0
	confidence := clamp01(0.3 + net/30.0)
	rationale := fmt.Sprintf("efficiency cross %+.1f vs %+.1f", homeAttack, awayAttack)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

func (g *MatchupGenerator) paceProjection(ctx Context) models.SignalResult {
	if !ctx.HasLine {
		return models.NeutralSignal(g.Category(), "no market line captured")
	}
	home, away := ctx.HomeSnapshot, ctx.AwaySnapshot
	pace := (home.Tempo + away.Tempo) / 2.0
	projected := pace * (home.OffensiveEff + away.OffensiveEff) / 100.0

	diff := projected - ctx.Line
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "projection matches the line")
	}
	direction := models.DirectionOver
	if diff < 0 {
		direction = models.DirectionUnder
		diff = -diff
	}
	magnitude := diff / 12.0
	confidence := clamp01(0.3 + diff/24.0)
	rationale := fmt.Sprintf("pace-adjusted projection %.1f vs line %.1f", projected, ctx.Line)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}
