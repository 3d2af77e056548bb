package signals

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/models"
)

// WeatherGenerator buckets pre-game weather severity into an under lean on
// outdoor-sport totals. Basketball is indoors, so only football games carry
// a weather observation.
type WeatherGenerator struct{}

func (g *WeatherGenerator) Category() models.SignalCategory {
	return models.CategoryWeather
}

func (g *WeatherGenerator) Generate(ctx Context) models.SignalResult {
	if ctx.Market != models.MarketTotal {
		return models.NeutralSignal(g.Category(), "total market only")
	}
	if ctx.Game.Sport != models.SportFootball || ctx.Game.Weather == nil {
		return models.NeutralSignal(g.Category(), "no weather observation")
	}

	w := ctx.Game.Weather
	magnitude, label := weatherSeverity(w)
	if magnitude == 0 {
		return models.NeutralSignal(g.Category(), "benign conditions")
	}

	confidence := clamp01(0.2 + magnitude*0.6)
	rationale := fmt.Sprintf("%s: wind %.0fmph, precip %.2fin, %.0fF", label, w.WindSpeedMPH, w.Precipitation, w.TemperatureF)
	return models.NewSignalResult(g.Category(), models.DirectionUnder, magnitude, confidence, rationale)
}

// weatherSeverity maps an observation to a magnitude multiplier bucket.
func weatherSeverity(w *models.WeatherObservation) (float64, string) {
	switch {
	case w.WindSpeedMPH >= 20 || w.Precipitation >= 0.5:
		return 0.8, "severe weather"
	case w.WindSpeedMPH >= 12 || w.Precipitation > 0.1:
		return 0.5, "moderate weather"
	case w.TemperatureF <= 20:
		return 0.25, "extreme cold"
	default:
		return 0, ""
	}
}
