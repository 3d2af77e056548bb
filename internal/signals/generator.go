package signals

import (
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
)

// Generator produces one category of directional evidence from a Context.
// Implementations must be pure: same context, same result.
type Generator interface {
	Category() models.SignalCategory
	Generate(ctx Context) models.SignalResult
}

// DefaultGenerators returns the full battery in stable category order. The
// scorer relies on at most one result per category.
func DefaultGenerators() []Generator {
	return []Generator{
		&ModelEdgeGenerator{},
		&ATSRecordGenerator{},
		&AngleGenerator{},
		&RecentFormGenerator{},
		&HeadToHeadGenerator{},
		&RestGenerator{},
		&DivergenceGenerator{},
		&WeatherGenerator{},
		&MatchupGenerator{},
	}
}

// Evaluate runs every generator against the context, preserving generator
// order so Pick audit trails are stable across runs.
func Evaluate(ctx Context, generators []Generator) []models.SignalResult {
	results := make([]models.SignalResult, 0, len(generators))
	for _, gen := range generators {
		result := gen.Generate(ctx)
		if !result.IsNeutral() {
			metrics.SignalsGeneratedTotal.WithLabelValues(string(result.Category)).Inc()
		}
		results = append(results, result)
	}
	return results
}
