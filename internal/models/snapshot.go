package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingSnapshot is a point-in-time record of a team's ratings, captured
// daily by an external collector. Snapshots are append-only and immutable
// once captured.
type RatingSnapshot struct {
	TeamID           uuid.UUID `db:"team_id" json:"team_id" validate:"required,uuid4"`
	Date             time.Time `db:"date" json:"date" validate:"required"`
	EfficiencyMargin float64   `db:"efficiency_margin" json:"efficiency_margin"`
	OffensiveEff     float64   `db:"offensive_eff" json:"offensive_eff" validate:"gt=0"`
	DefensiveEff     float64   `db:"defensive_eff" json:"defensive_eff" validate:"gt=0"`
	Tempo            float64   `db:"tempo" json:"tempo" validate:"gt=0"`
	CapturedAt       time.Time `db:"captured_at" json:"captured_at"`
}

// Day returns the snapshot date truncated to midnight UTC. Matching works at
// day granularity.
func (s *RatingSnapshot) Day() time.Time {
	return Day(s.Date)
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day distance from a to b (positive when b is
// after a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
