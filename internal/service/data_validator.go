package service

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pick-engine/internal/datasource"
)

// DataValidator validates feed payloads before anything touches storage. A
// payload missing required fields is a schema-level failure: the ingestion
// run stops with a diagnostic rather than silently producing degraded data.
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateSnapshot validates a rating snapshot payload
func (v *DataValidator) ValidateSnapshot(snapshot datasource.SnapshotData) []string {
	var errors []string

	if snapshot.TeamName == "" {
		errors = append(errors, "team_name is required")
	}
	if snapshot.Date.IsZero() {
		errors = append(errors, "date is required")
	}
	if err := snapshot.Sport.Validate(); err != nil {
		errors = append(errors, err.Error())
	}
	if snapshot.OffensiveEff <= 0 {
		errors = append(errors, fmt.Sprintf("offensive_eff must be positive, got %v", snapshot.OffensiveEff))
	}
	if snapshot.DefensiveEff <= 0 {
		errors = append(errors, fmt.Sprintf("defensive_eff must be positive, got %v", snapshot.DefensiveEff))
	}
	if snapshot.Tempo <= 0 {
		errors = append(errors, fmt.Sprintf("tempo must be positive, got %v", snapshot.Tempo))
	}

	return errors
}

// ValidateGame validates a scheduled game payload
func (v *DataValidator) ValidateGame(game datasource.GameData) []string {
	var errors []string

	if game.HomeTeamName == "" {
		errors = append(errors, "home_team_name is required")
	}
	if game.AwayTeamName == "" {
		errors = append(errors, "away_team_name is required")
	}
	if game.HomeTeamName != "" && game.HomeTeamName == game.AwayTeamName {
		errors = append(errors, "home and away teams must differ")
	}
	if game.Date.IsZero() {
		errors = append(errors, "date is required")
	}
	if game.Season <= 1900 {
		errors = append(errors, fmt.Sprintf("season out of range, got %d", game.Season))
	}
	if err := game.Sport.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	return errors
}

// ValidateLine validates a market line payload
func (v *DataValidator) ValidateLine(line datasource.LineData) []string {
	var errors []string

	if line.HomeTeamName == "" || line.AwayTeamName == "" {
		errors = append(errors, "both team names are required")
	}
	if line.Date.IsZero() {
		errors = append(errors, "date is required")
	}
	if line.Spread == nil && line.Total == nil {
		errors = append(errors, "a line update must carry a spread or a total")
	}
	if line.Total != nil && *line.Total <= 0 {
		errors = append(errors, fmt.Sprintf("total must be positive, got %v", *line.Total))
	}

	return errors
}

// ValidateScore validates a final score payload
func (v *DataValidator) ValidateScore(score datasource.ScoreData) []string {
	var errors []string

	if score.HomeTeamName == "" || score.AwayTeamName == "" {
		errors = append(errors, "both team names are required")
	}
	if score.Date.IsZero() {
		errors = append(errors, "date is required")
	}
	if score.HomeScore < 0 || score.AwayScore < 0 {
		errors = append(errors, fmt.Sprintf("scores cannot be negative, got %d-%d", score.HomeScore, score.AwayScore))
	}

	return errors
}

// SchemaError wraps validation failures into the fatal diagnostic the run
// stops with.
func SchemaError(source, kind string, errors []string) error {
	return fmt.Errorf("malformed %s payload from %s: %v", kind, source, errors)
}
