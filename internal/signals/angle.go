package signals

import (
	"fmt"
	"strings"

	"github.com/yourusername/pick-engine/internal/models"
)

// angleTemplate is one predefined historical situational pattern. Matches is
// nil-safe on every optional field and returns the direction the pattern
// historically leaned.
type angleTemplate struct {
	name    string
	matches func(ctx Context) (models.Direction, bool)
}

// angleTemplates are the predefined situational patterns. Each encodes a
// historically observed lean; the sweep harness decides how much weight the
// category as a whole carries.
var angleTemplates = []angleTemplate{
	{
		name: "conference_road_dog",
		matches: func(ctx Context) (models.Direction, bool) {
			if ctx.Market != models.MarketSpread || !ctx.Game.ConferenceGame {
				return models.DirectionNeutral, false
			}
			spread, ok := ctx.Game.Line(models.MarketSpread)
			if !ok || spread >= 0 {
				return models.DirectionNeutral, false
			}
			// Home favored in conference play: the familiar road dog keeps
			// it closer than the market expects.
			return models.DirectionAway, true
		},
	},
	{
		name: "ranked_visitor",
		matches: func(ctx Context) (models.Direction, bool) {
			if ctx.Market != models.MarketSpread {
				return models.DirectionNeutral, false
			}
			if ctx.Game.AwayRank == nil || ctx.Game.HomeRank != nil {
				return models.DirectionNeutral, false
			}
			return models.DirectionAway, true
		},
	},
	{
		name: "tournament_under",
		matches: func(ctx Context) (models.Direction, bool) {
			if ctx.Market != models.MarketTotal || !ctx.Game.Tournament {
				return models.DirectionNeutral, false
			}
			return models.DirectionUnder, true
		},
	},
	{
		name: "short_rest_fade",
		matches: func(ctx Context) (models.Direction, bool) {
			if ctx.Market != models.MarketSpread {
				return models.DirectionNeutral, false
			}
			if ctx.Game.HomeRestDays == nil || ctx.Game.AwayRestDays == nil {
				return models.DirectionNeutral, false
			}
			if *ctx.Game.AwayRestDays <= 1 && *ctx.Game.HomeRestDays >= 3 {
				return models.DirectionHome, true
			}
			if *ctx.Game.HomeRestDays <= 1 && *ctx.Game.AwayRestDays >= 3 {
				return models.DirectionAway, true
			}
			return models.DirectionNeutral, false
		},
	},
	{
		name: "heavy_weather_under",
		matches: func(ctx Context) (models.Direction, bool) {
			if ctx.Market != models.MarketTotal || ctx.Game.Weather == nil {
				return models.DirectionNeutral, false
			}
			w := ctx.Game.Weather
			if w.WindSpeedMPH >= 20 || w.Precipitation >= 0.5 {
				return models.DirectionUnder, true
			}
			return models.DirectionNeutral, false
		},
	},
}

// AngleGenerator matches the game against the predefined angle templates and
// leans with the net direction of the matches.
type AngleGenerator struct{}

func (g *AngleGenerator) Category() models.SignalCategory {
	return models.CategoryAngle
}

func (g *AngleGenerator) Generate(ctx Context) models.SignalResult {
	counts := make(map[models.Direction]int)
	var matched []string
	for _, tpl := range angleTemplates {
		direction, ok := tpl.matches(ctx)
		if !ok || direction == models.DirectionNeutral {
			continue
		}
		counts[direction]++
		matched = append(matched, tpl.name)
	}
	if len(matched) == 0 {
		return models.NeutralSignal(g.Category(), "no angle matched")
	}

	var best models.Direction
	for direction, n := range counts {
		if best == "" || n > counts[best] {
			best = direction
		}
	}
	net := counts[best] - counts[best.Opposite()]
	if net <= 0 {
		return models.NeutralSignal(g.Category(), "angles conflict")
	}

	magnitude := float64(net) / 3.0
	confidence := clamp01(0.3 + 0.2*float64(net))
	rationale := fmt.Sprintf("angles: %s", strings.Join(matched, ", "))
	return models.NewSignalResult(g.Category(), best, magnitude, confidence, rationale)
}
