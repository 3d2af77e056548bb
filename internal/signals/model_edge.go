package signals

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/regression"
)

// Edge scales: an absolute edge at or above the scale saturates magnitude.
const (
	totalEdgeScale  = 8.0
	spreadEdgeScale = 6.0
)

func edgeScale(market models.Market) float64 {
	if market == models.MarketSpread {
		return spreadEdgeScale
	}
	return totalEdgeScale
}

// ModelEdgeGenerator turns the regression prediction into a directional
// signal by comparing it against the captured market line.
type ModelEdgeGenerator struct{}

func (g *ModelEdgeGenerator) Category() models.SignalCategory {
	return models.CategoryModelEdge
}

func (g *ModelEdgeGenerator) Generate(ctx Context) models.SignalResult {
	if !ctx.HasPrediction {
		return models.NeutralSignal(g.Category(), "no eligible snapshot pair")
	}
	if !ctx.HasLine {
		return models.NeutralSignal(g.Category(), "no market line captured")
	}

	direction, edge := regression.Edge(ctx.Prediction, ctx.Line, ctx.Market)
	if direction == models.DirectionNeutral {
		return models.NeutralSignal(g.Category(), "prediction matches the line exactly")
	}

	scale := edgeScale(ctx.Market)
	magnitude := edge / scale
	confidence := 0.4 + 0.6*clamp01(edge/(2*scale))
	rationale := fmt.Sprintf("model %.1f vs line %.1f, edge %.1f", ctx.Prediction, ctx.Line, edge)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
