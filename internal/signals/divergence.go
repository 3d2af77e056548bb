package signals

import (
	"fmt"
	"math"

	"github.com/yourusername/pick-engine/internal/models"
)

// Logistic scale converting a point edge into a cover/over probability.
// Rough historical score-distribution widths per market.
const (
	totalProbSigma  = 10.0
	spreadProbSigma = 9.0
)

// DivergenceGenerator compares the model-implied probability with the
// market-implied one. A captured line is the market's median, so its implied
// probability is one half; the divergence is how far the model's logistic
// cover probability strays from it.
type DivergenceGenerator struct{}

func (g *DivergenceGenerator) Category() models.SignalCategory {
	return models.CategoryDivergence
}

func (g *DivergenceGenerator) Generate(ctx Context) models.SignalResult {
	if !ctx.HasPrediction {
		return models.NeutralSignal(g.Category(), "no eligible snapshot pair")
	}
	if !ctx.HasLine {
		return models.NeutralSignal(g.Category(), "no market line captured")
	}

	var edge float64
	var direction models.Direction
	sigma := totalProbSigma
	switch ctx.Market {
	case models.MarketTotal:
		edge = ctx.Prediction - ctx.Line
		direction = models.DirectionOver
		if edge < 0 {
			direction = models.DirectionUnder
		}
	case models.MarketSpread:
		edge = ctx.Prediction + ctx.Line
		direction = models.DirectionHome
		if edge < 0 {
			direction = models.DirectionAway
		}
		sigma = spreadProbSigma
	default:
		return models.NeutralSignal(g.Category(), "unsupported market")
	}
	if edge == 0 {
		return models.NeutralSignal(g.Category(), "model agrees with the market")
	}

	modelProb := 1.0 / (1.0 + math.Exp(-edge/sigma))
	divergence := math.Abs(modelProb - 0.5)
	magnitude := divergence / 0.25
	confidence := clamp01(0.3 + divergence*2)
	rationale := fmt.Sprintf("model-implied %.0f%% vs market 50%%", modelProb*100)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}
