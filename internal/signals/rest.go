package signals

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/models"
)

// RestGenerator leans toward the meaningfully better-rested side. Spread
// only; rest has no reliable total lean on its own (the rest scenarios that
// do are angle templates).
type RestGenerator struct{}

func (g *RestGenerator) Category() models.SignalCategory {
	return models.CategoryRest
}

func (g *RestGenerator) Generate(ctx Context) models.SignalResult {
	if ctx.Market != models.MarketSpread {
		return models.NeutralSignal(g.Category(), "spread market only")
	}
	if ctx.Game.HomeRestDays == nil || ctx.Game.AwayRestDays == nil {
		return models.NeutralSignal(g.Category(), "rest days unknown")
	}

	diff := *ctx.Game.HomeRestDays - *ctx.Game.AwayRestDays
	if diff >= -1 && diff <= 1 {
		return models.NeutralSignal(g.Category(), "comparable rest")
	}
	direction := models.DirectionHome
	if diff < 0 {
		direction = models.DirectionAway
		diff = -diff
	}
	magnitude := float64(diff) / 5.0
	confidence := clamp01(0.3 + 0.1*float64(diff))
	rationale := fmt.Sprintf("rest advantage of %d days", diff)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}
