package models

import (
	"time"
)

// ModelCoefficients is a trained ridge weight vector scoped to one
// evaluation season: the fit used only games from seasons strictly before
// Season.
type ModelCoefficients struct {
	Sport         Sport     `db:"sport" json:"sport" validate:"required"`
	Season        int       `db:"season" json:"season" validate:"required,gt=1900"`
	Lambda        float64   `db:"lambda" json:"lambda" validate:"gte=0"`
	Features      []string  `db:"features" json:"features" validate:"required,min=1"`
	Weights       []float64 `db:"weights" json:"weights" validate:"required,min=1"`
	TrainingGames int       `db:"training_games" json:"training_games"`
	TrainedAt     time.Time `db:"trained_at" json:"trained_at"`
}

// Predict applies the weight vector to a feature row (intercept included as
// the first entry).
func (c *ModelCoefficients) Predict(features []float64) float64 {
	n := len(c.Weights)
	if len(features) < n {
		n = len(features)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += c.Weights[i] * features[i]
	}
	return sum
}
