package models

// SignalCategory labels the source of a piece of directional evidence.
type SignalCategory string

const (
	CategoryModelEdge  SignalCategory = "model_edge"
	CategoryATSRecord  SignalCategory = "ats_record"
	CategoryAngle      SignalCategory = "angle"
	CategoryRecentForm SignalCategory = "recent_form"
	CategoryHeadToHead SignalCategory = "head_to_head"
	CategoryRest       SignalCategory = "rest"
	CategoryDivergence SignalCategory = "divergence"
	CategoryWeather    SignalCategory = "weather"
	CategoryMatchup    SignalCategory = "matchup"
)

// SignalCategories lists every category a generator may emit.
func SignalCategories() []SignalCategory {
	return []SignalCategory{
		CategoryModelEdge,
		CategoryATSRecord,
		CategoryAngle,
		CategoryRecentForm,
		CategoryHeadToHead,
		CategoryRest,
		CategoryDivergence,
		CategoryWeather,
		CategoryMatchup,
	}
}

// Direction is the side a signal points toward. Spread signals point
// home/away, total signals point over/under; neutral carries no lean.
type Direction string

const (
	DirectionHome    Direction = "home"
	DirectionAway    Direction = "away"
	DirectionOver    Direction = "over"
	DirectionUnder   Direction = "under"
	DirectionNeutral Direction = "neutral"
)

// Opposite returns the opposing side for directional comparisons.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionHome:
		return DirectionAway
	case DirectionAway:
		return DirectionHome
	case DirectionOver:
		return DirectionUnder
	case DirectionUnder:
		return DirectionOver
	default:
		return DirectionNeutral
	}
}

// SignalStrength is a coarse tier derived from magnitude, used in audit
// output.
type SignalStrength string

const (
	StrengthNone     SignalStrength = "none"
	StrengthLean     SignalStrength = "lean"
	StrengthModerate SignalStrength = "moderate"
	StrengthStrong   SignalStrength = "strong"
)

// SignalResult is one generator's directional evidence for a (game, market).
// Results are purely computed and never persisted on their own; a Pick
// carries the ordered list that produced it.
type SignalResult struct {
	Category   SignalCategory `json:"category"`
	Direction  Direction      `json:"direction"`
	Magnitude  float64        `json:"magnitude"`
	Confidence float64        `json:"confidence"`
	Strength   SignalStrength `json:"strength"`
	Rationale  string         `json:"rationale,omitempty"`
}

// NewSignalResult builds a result with magnitude and confidence clamped to
// [0, 1] and the strength tier derived from magnitude.
func NewSignalResult(category SignalCategory, direction Direction, magnitude, confidence float64, rationale string) SignalResult {
	magnitude = clamp01(magnitude)
	confidence = clamp01(confidence)
	if direction == DirectionNeutral {
		magnitude = 0
	}
	return SignalResult{
		Category:   category,
		Direction:  direction,
		Magnitude:  magnitude,
		Confidence: confidence,
		Strength:   strengthFor(magnitude),
		Rationale:  rationale,
	}
}

// NeutralSignal is the graceful-degradation result: no lean, zero
// confidence. Generators return it instead of failing on thin history.
func NeutralSignal(category SignalCategory, rationale string) SignalResult {
	return SignalResult{
		Category:   category,
		Direction:  DirectionNeutral,
		Strength:   StrengthNone,
		Rationale:  rationale,
	}
}

// IsNeutral reports whether the signal carries no usable lean.
func (s SignalResult) IsNeutral() bool {
	return s.Direction == DirectionNeutral || s.Magnitude == 0
}

func strengthFor(magnitude float64) SignalStrength {
	switch {
	case magnitude >= 0.7:
		return StrengthStrong
	case magnitude >= 0.4:
		return StrengthModerate
	case magnitude > 0:
		return StrengthLean
	default:
		return StrengthNone
	}
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
