package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/pick-engine/internal/models"
)

// FeedSource is the common surface of every external data provider. Team
// names in feed payloads are raw provider spellings; the ingestion service
// runs them through the resolver before anything touches storage.
type FeedSource interface {
	// Name returns the name of the feed source
	Name() string

	// IsEnabled returns whether this feed source is currently enabled
	IsEnabled() bool
}

// SnapshotSource provides daily rating snapshots.
type SnapshotSource interface {
	FeedSource

	// FetchSnapshots retrieves the ratings published for one day
	FetchSnapshots(ctx context.Context, date time.Time) ([]SnapshotData, error)
}

// GameSource provides schedules, market lines and final scores.
type GameSource interface {
	FeedSource

	// FetchGames retrieves scheduled games within the date range
	FetchGames(ctx context.Context, startDate, endDate time.Time) ([]GameData, error)

	// FetchLines retrieves the current pre-game market lines for one day
	FetchLines(ctx context.Context, date time.Time) ([]LineData, error)

	// FetchScores retrieves final scores for one day
	FetchScores(ctx context.Context, date time.Time) ([]ScoreData, error)
}

// SnapshotData is one team's published rating for one day.
type SnapshotData struct {
	TeamName         string       `json:"team_name"`
	Sport            models.Sport `json:"sport"`
	Date             time.Time    `json:"date"`
	EfficiencyMargin float64      `json:"efficiency_margin"`
	OffensiveEff     float64      `json:"offensive_eff"`
	DefensiveEff     float64      `json:"defensive_eff"`
	Tempo            float64      `json:"tempo"`
}

// GameData is one scheduled game as published by a feed.
type GameData struct {
	SourceID       string                     `json:"source_id"`
	Sport          models.Sport               `json:"sport"`
	Season         int                        `json:"season"`
	Date           time.Time                  `json:"date"`
	HomeTeamName   string                     `json:"home_team_name"`
	AwayTeamName   string                     `json:"away_team_name"`
	ConferenceGame bool                       `json:"conference_game"`
	NeutralSite    bool                       `json:"neutral_site"`
	Tournament     bool                       `json:"tournament"`
	HomeRank       *int                       `json:"home_rank"`
	AwayRank       *int                       `json:"away_rank"`
	HomeRestDays   *int                       `json:"home_rest_days"`
	AwayRestDays   *int                       `json:"away_rest_days"`
	Weather        *models.WeatherObservation `json:"weather,omitempty"`
}

// LineData is a pre-game market line update keyed by the matchup.
type LineData struct {
	Sport        models.Sport `json:"sport"`
	Date         time.Time    `json:"date"`
	HomeTeamName string       `json:"home_team_name"`
	AwayTeamName string       `json:"away_team_name"`
	Spread       *float64     `json:"spread"`
	Total        *float64     `json:"total"`
}

// ScoreData is a final score keyed by the matchup.
type ScoreData struct {
	Sport        models.Sport `json:"sport"`
	Date         time.Time    `json:"date"`
	HomeTeamName string       `json:"home_team_name"`
	AwayTeamName string       `json:"away_team_name"`
	HomeScore    int          `json:"home_score"`
	AwayScore    int          `json:"away_score"`
}

// FeedError represents errors from feed source operations
type FeedError struct {
	Source  string // Feed source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e FeedError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewFeedError creates a new feed error
func NewFeedError(source, code, message string, err error) FeedError {
	return FeedError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
