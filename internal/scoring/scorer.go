// Package scoring combines signal results into one convergence score and a
// confidence tier. Weight tables and tier thresholds are sweep outputs
// loaded from configuration, never tuned here.
package scoring

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
)

// Scorer holds the calibrated weight table and thresholds for one (sport,
// market). Build one per pair with New; a Scorer is immutable and safe for
// concurrent use by sweep workers.
type Scorer struct {
	sport         models.Sport
	market        models.Market
	weights       map[models.SignalCategory]float64
	explicit      map[models.SignalCategory]bool
	defaultWeight float64
	thresholds    config.TierThresholds
}

// New builds a Scorer from calibrated market scoring parameters. Weight keys
// must be known signal categories; the set may be partial, with absent
// categories falling back to defaultWeight at scoring time.
func New(sport models.Sport, market models.Market, scoring config.MarketScoring, defaultWeight float64) (*Scorer, error) {
	if err := sport.Validate(); err != nil {
		return nil, err
	}
	if err := market.Validate(); err != nil {
		return nil, err
	}

	weights := make(map[models.SignalCategory]float64, len(scoring.Weights))
	explicit := make(map[models.SignalCategory]bool, len(scoring.Weights))
	for name, weight := range scoring.Weights {
		category := models.SignalCategory(name)
		if !knownCategory(category) {
			return nil, fmt.Errorf("unknown signal category %q in weight table", name)
		}
		weights[category] = weight
		explicit[category] = true
	}

	return &Scorer{
		sport:         sport,
		market:        market,
		weights:       weights,
		explicit:      explicit,
		defaultWeight: defaultWeight,
		thresholds:    scoring.Thresholds,
	}, nil
}

// Weight returns the effective weight for a category. An explicit entry is
// honored literally, zero included: a zero weight silences the category,
// which is not the same as the category being missing from the table. Only a
// missing category falls back to the small default.
func (s *Scorer) Weight(category models.SignalCategory) float64 {
	if s.explicit[category] {
		return s.weights[category]
	}
	return s.defaultWeight
}

// Score collapses the signal battery into one scalar and a directional side.
// Each non-neutral signal contributes weight * magnitude * confidence to its
// direction; the winning direction's accumulated score, net of its opposite,
// is the convergence score. A zero net score yields no direction.
func (s *Scorer) Score(results []models.SignalResult) (float64, models.Direction) {
	byDirection := make(map[models.Direction]float64)
	for _, result := range results {
		if result.IsNeutral() {
			continue
		}
		weight := s.Weight(result.Category)
		if weight == 0 {
			continue
		}
		byDirection[result.Direction] += weight * result.Magnitude * result.Confidence
	}

	var best models.Direction
	for direction, total := range byDirection {
		if best == "" || total > byDirection[best] {
			best = direction
		}
	}
	if best == "" {
		return 0, models.DirectionNeutral
	}

	net := byDirection[best] - byDirection[best.Opposite()]
	if net <= 0 {
		return 0, models.DirectionNeutral
	}
	metrics.ScoreDistribution.WithLabelValues(string(s.sport), string(s.market)).Observe(net)
	return net, best
}

// Tier maps a convergence score onto the calibrated thresholds. Scores below
// the low threshold produce no pick.
func (s *Scorer) Tier(score float64) models.ConfidenceTier {
	switch {
	case score >= s.thresholds.Top:
		return models.TierTop
	case score >= s.thresholds.Mid:
		return models.TierMid
	case score >= s.thresholds.Low:
		return models.TierLow
	default:
		return models.TierNone
	}
}

// Evaluate scores the battery and maps the result to a tier in one step.
func (s *Scorer) Evaluate(results []models.SignalResult) (float64, models.Direction, models.ConfidenceTier) {
	score, direction := s.Score(results)
	if direction == models.DirectionNeutral {
		return 0, models.DirectionNeutral, models.TierNone
	}
	return score, direction, s.Tier(score)
}

// WithThresholds returns a copy of the Scorer using different tier
// thresholds. Sweep workers use this to share one weight table across
// threshold candidates.
func (s *Scorer) WithThresholds(thresholds config.TierThresholds) *Scorer {
	clone := *s
	clone.thresholds = thresholds
	return &clone
}

func knownCategory(category models.SignalCategory) bool {
	for _, known := range models.SignalCategories() {
		if category == known {
			return true
		}
	}
	return false
}
