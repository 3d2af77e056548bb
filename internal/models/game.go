package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeatherObservation holds the pre-game weather reading for outdoor games.
type WeatherObservation struct {
	TemperatureF  float64 `db:"temperature_f" json:"temperature_f"`
	WindSpeedMPH  float64 `db:"wind_speed_mph" json:"wind_speed_mph"`
	Precipitation float64 `db:"precipitation" json:"precipitation"`
}

// Game represents one scheduled contest. A game is mutated exactly twice
// after creation: once when the pre-game market line is captured, once when
// the final score posts.
type Game struct {
	ID             uuid.UUID           `db:"id" json:"id" validate:"required,uuid4"`
	Sport          Sport               `db:"sport" json:"sport" validate:"required"`
	Season         int                 `db:"season" json:"season" validate:"required,gt=1900"`
	Date           time.Time           `db:"date" json:"date" validate:"required"`
	HomeTeamID     uuid.UUID           `db:"home_team_id" json:"home_team_id" validate:"required,uuid4"`
	AwayTeamID     uuid.UUID           `db:"away_team_id" json:"away_team_id" validate:"required,uuid4"`
	HomeScore      *int                `db:"home_score" json:"home_score"`
	AwayScore      *int                `db:"away_score" json:"away_score"`
	Spread         *decimal.Decimal    `db:"spread" json:"spread"`
	Total          *decimal.Decimal    `db:"total" json:"total"`
	ConferenceGame bool                `db:"conference_game" json:"conference_game"`
	NeutralSite    bool                `db:"neutral_site" json:"neutral_site"`
	Tournament     bool                `db:"tournament" json:"tournament"`
	HomeRank       *int                `db:"home_rank" json:"home_rank"`
	AwayRank       *int                `db:"away_rank" json:"away_rank"`
	HomeRestDays   *int                `db:"home_rest_days" json:"home_rest_days"`
	AwayRestDays   *int                `db:"away_rest_days" json:"away_rest_days"`
	Weather        *WeatherObservation `db:"-" json:"weather,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}

// IsFinal reports whether the final score has posted.
func (g *Game) IsFinal() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Day returns the game date truncated to midnight UTC.
func (g *Game) Day() time.Time {
	return Day(g.Date)
}

// Line returns the captured market line for the given market as a float,
// with ok=false when no line was captured.
func (g *Game) Line(market Market) (float64, bool) {
	switch market {
	case MarketSpread:
		if g.Spread == nil {
			return 0, false
		}
		return g.Spread.InexactFloat64(), true
	case MarketTotal:
		if g.Total == nil {
			return 0, false
		}
		return g.Total.InexactFloat64(), true
	default:
		return 0, false
	}
}

// TotalPoints returns the realized combined score.
func (g *Game) TotalPoints() (float64, bool) {
	if !g.IsFinal() {
		return 0, false
	}
	return float64(*g.HomeScore + *g.AwayScore), true
}

// HomeMargin returns home score minus away score.
func (g *Game) HomeMargin() (float64, bool) {
	if !g.IsFinal() {
		return 0, false
	}
	return float64(*g.HomeScore - *g.AwayScore), true
}

// Opponent returns the other team of the game, with ok=false when teamID is
// not a participant.
func (g *Game) Opponent(teamID uuid.UUID) (uuid.UUID, bool) {
	switch teamID {
	case g.HomeTeamID:
		return g.AwayTeamID, true
	case g.AwayTeamID:
		return g.HomeTeamID, true
	default:
		return uuid.Nil, false
	}
}

// Involves reports whether the team played in this game.
func (g *Game) Involves(teamID uuid.UUID) bool {
	return teamID == g.HomeTeamID || teamID == g.AwayTeamID
}
