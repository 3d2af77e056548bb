package signals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/models"
)

func intPtr(v int) *int { return &v }

func emptyContext(market models.Market) Context {
	return Context{
		Game: &models.Game{
			ID:         uuid.New(),
			Sport:      models.SportBasketball,
			Season:     2024,
			Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			HomeTeamID: uuid.New(),
			AwayTeamID: uuid.New(),
		},
		Market: market,
	}
}

func TestEveryGeneratorDegradesToNeutral(t *testing.T) {
	// A context with no line, no prediction, no snapshots and no history must
	// never produce a lean from any generator.
	for _, market := range models.Markets() {
		ctx := emptyContext(market)
		for _, gen := range DefaultGenerators() {
			result := gen.Generate(ctx)
			assert.True(t, result.IsNeutral(), "%s should be neutral on %s with empty context", gen.Category(), market)
			assert.Equal(t, gen.Category(), result.Category)
		}
	}
}

func TestEvaluatePreservesGeneratorOrder(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	generators := DefaultGenerators()

	results := Evaluate(ctx, generators)
	require.Len(t, results, len(generators))
	for i, gen := range generators {
		assert.Equal(t, gen.Category(), results[i].Category)
	}
}

func TestModelEdgeOver(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Line = 140.0
	ctx.HasLine = true
	ctx.Prediction = 148.0
	ctx.HasPrediction = true

	result := (&ModelEdgeGenerator{}).Generate(ctx)
	assert.Equal(t, models.DirectionOver, result.Direction)
	assert.InDelta(t, 1.0, result.Magnitude, 1e-9) // edge of 8 saturates the total scale
	assert.Greater(t, result.Confidence, 0.4)
}

func TestModelEdgeSpreadHomeCover(t *testing.T) {
	ctx := emptyContext(models.MarketSpread)
	ctx.Line = -3.0 // home favored by 3
	ctx.HasLine = true
	ctx.Prediction = 6.0 // model sees home winning by 6
	ctx.HasPrediction = true

	result := (&ModelEdgeGenerator{}).Generate(ctx)
	assert.Equal(t, models.DirectionHome, result.Direction)
	assert.InDelta(t, 3.0/spreadEdgeScale, result.Magnitude, 1e-9)
}

func TestModelEdgeExactLineIsNeutral(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Line = 140.0
	ctx.HasLine = true
	ctx.Prediction = 140.0
	ctx.HasPrediction = true

	result := (&ModelEdgeGenerator{}).Generate(ctx)
	assert.True(t, result.IsNeutral())
}

func TestRestAdvantage(t *testing.T) {
	ctx := emptyContext(models.MarketSpread)
	ctx.Game.HomeRestDays = intPtr(5)
	ctx.Game.AwayRestDays = intPtr(1)

	result := (&RestGenerator{}).Generate(ctx)
	assert.Equal(t, models.DirectionHome, result.Direction)
	assert.InDelta(t, 4.0/5.0, result.Magnitude, 1e-9)
}

func TestRestComparableIsNeutral(t *testing.T) {
	ctx := emptyContext(models.MarketSpread)
	ctx.Game.HomeRestDays = intPtr(3)
	ctx.Game.AwayRestDays = intPtr(2)

	assert.True(t, (&RestGenerator{}).Generate(ctx).IsNeutral())
}

func TestRestIgnoresTotals(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Game.HomeRestDays = intPtr(7)
	ctx.Game.AwayRestDays = intPtr(1)

	assert.True(t, (&RestGenerator{}).Generate(ctx).IsNeutral())
}

func TestWeatherSevereUnder(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Game.Sport = models.SportFootball
	ctx.Game.Weather = &models.WeatherObservation{WindSpeedMPH: 25, TemperatureF: 40}

	result := (&WeatherGenerator{}).Generate(ctx)
	assert.Equal(t, models.DirectionUnder, result.Direction)
	assert.InDelta(t, 0.8, result.Magnitude, 1e-9)
}

func TestWeatherIndoorSportNeutral(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Game.Weather = &models.WeatherObservation{WindSpeedMPH: 30}

	// Basketball games never carry a weather lean even if an observation
	// sneaks into the record.
	assert.True(t, (&WeatherGenerator{}).Generate(ctx).IsNeutral())
}

func TestWeatherBenignNeutral(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Game.Sport = models.SportFootball
	ctx.Game.Weather = &models.WeatherObservation{WindSpeedMPH: 5, TemperatureF: 60}

	assert.True(t, (&WeatherGenerator{}).Generate(ctx).IsNeutral())
}

func TestMatchupPaceProjection(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Line = 140.0
	ctx.HasLine = true
	ctx.HomeSnapshot = &models.RatingSnapshot{OffensiveEff: 115, DefensiveEff: 95, Tempo: 70}
	ctx.AwaySnapshot = &models.RatingSnapshot{OffensiveEff: 113, DefensiveEff: 97, Tempo: 70}

	// Projected pace total: 70 * (115+113)/100 = 159.6, well over the line.
	result := (&MatchupGenerator{}).Generate(ctx)
	assert.Equal(t, models.DirectionOver, result.Direction)
	assert.Greater(t, result.Magnitude, 0.0)
}

func TestDivergenceRequiresPrediction(t *testing.T) {
	ctx := emptyContext(models.MarketTotal)
	ctx.Line = 140.0
	ctx.HasLine = true

	assert.True(t, (&DivergenceGenerator{}).Generate(ctx).IsNeutral())
}

func TestSignalClamping(t *testing.T) {
	result := models.NewSignalResult(models.CategoryRest, models.DirectionHome, 3.5, 1.8, "")
	assert.Equal(t, 1.0, result.Magnitude)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, models.StrengthStrong, result.Strength)
}
