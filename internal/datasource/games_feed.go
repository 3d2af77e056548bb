package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pick-engine/internal/models"
)

const gamesFeedName = "games_feed"

// GamesFeedClient fetches schedules, pre-game market lines and final scores
// from the games provider's REST API.
type GamesFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      models.Sport
	enabled    bool
	logger     *logrus.Logger
}

// NewGamesFeedClient creates a games feed client
func NewGamesFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, sport models.Sport, enabled bool, logger *logrus.Logger) *GamesFeedClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &GamesFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		sport:      sport,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the feed source name
func (c *GamesFeedClient) Name() string {
	return gamesFeedName
}

// IsEnabled returns whether the feed is enabled
func (c *GamesFeedClient) IsEnabled() bool {
	return c.enabled
}

type gamesResponse struct {
	Games []struct {
		ID             string   `json:"id"`
		Season         int      `json:"season"`
		Date           string   `json:"date"`
		HomeTeam       string   `json:"home_team"`
		AwayTeam       string   `json:"away_team"`
		ConferenceGame bool     `json:"conference_game"`
		NeutralSite    bool     `json:"neutral_site"`
		Tournament     bool     `json:"tournament"`
		HomeRank       *int     `json:"home_rank"`
		AwayRank       *int     `json:"away_rank"`
		HomeRestDays   *int     `json:"home_rest_days"`
		AwayRestDays   *int     `json:"away_rest_days"`
		Weather        *struct {
			TemperatureF  float64 `json:"temperature_f"`
			WindSpeedMPH  float64 `json:"wind_speed_mph"`
			Precipitation float64 `json:"precipitation"`
		} `json:"weather"`
	} `json:"games"`
}

type linesResponse struct {
	Lines []struct {
		Date     string   `json:"date"`
		HomeTeam string   `json:"home_team"`
		AwayTeam string   `json:"away_team"`
		Spread   *float64 `json:"spread"`
		Total    *float64 `json:"total"`
	} `json:"lines"`
}

type scoresResponse struct {
	Scores []struct {
		Date      string `json:"date"`
		HomeTeam  string `json:"home_team"`
		AwayTeam  string `json:"away_team"`
		HomeScore int    `json:"home_score"`
		AwayScore int    `json:"away_score"`
		Final     bool   `json:"final"`
	} `json:"scores"`
}

// FetchGames retrieves scheduled games within the date range
func (c *GamesFeedClient) FetchGames(ctx context.Context, startDate, endDate time.Time) ([]GameData, error) {
	url := fmt.Sprintf("%s/v1/%s/games?start=%s&end=%s", c.baseURL, c.sport,
		models.Day(startDate).Format("2006-01-02"), models.Day(endDate).Format("2006-01-02"))

	var payload gamesResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	games := make([]GameData, 0, len(payload.Games))
	for _, game := range payload.Games {
		date, err := time.Parse("2006-01-02", game.Date)
		if err != nil {
			return nil, NewFeedError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("bad game date %q", game.Date), err)
		}
		data := GameData{
			SourceID:       game.ID,
			Sport:          c.sport,
			Season:         game.Season,
			Date:           date,
			HomeTeamName:   game.HomeTeam,
			AwayTeamName:   game.AwayTeam,
			ConferenceGame: game.ConferenceGame,
			NeutralSite:    game.NeutralSite,
			Tournament:     game.Tournament,
			HomeRank:       game.HomeRank,
			AwayRank:       game.AwayRank,
			HomeRestDays:   game.HomeRestDays,
			AwayRestDays:   game.AwayRestDays,
		}
		if game.Weather != nil {
			data.Weather = &models.WeatherObservation{
				TemperatureF:  game.Weather.TemperatureF,
				WindSpeedMPH:  game.Weather.WindSpeedMPH,
				Precipitation: game.Weather.Precipitation,
			}
		}
		games = append(games, data)
	}

	c.logger.WithField("count", len(games)).Debug("Fetched games")
	return games, nil
}

// FetchLines retrieves the current pre-game market lines for one day
func (c *GamesFeedClient) FetchLines(ctx context.Context, date time.Time) ([]LineData, error) {
	url := fmt.Sprintf("%s/v1/%s/lines?date=%s", c.baseURL, c.sport, models.Day(date).Format("2006-01-02"))

	var payload linesResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	lines := make([]LineData, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		day, err := time.Parse("2006-01-02", line.Date)
		if err != nil {
			return nil, NewFeedError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("bad line date %q", line.Date), err)
		}
		lines = append(lines, LineData{
			Sport:        c.sport,
			Date:         day,
			HomeTeamName: line.HomeTeam,
			AwayTeamName: line.AwayTeam,
			Spread:       line.Spread,
			Total:        line.Total,
		})
	}
	return lines, nil
}

// FetchScores retrieves final scores for one day
func (c *GamesFeedClient) FetchScores(ctx context.Context, date time.Time) ([]ScoreData, error) {
	url := fmt.Sprintf("%s/v1/%s/scores?date=%s", c.baseURL, c.sport, models.Day(date).Format("2006-01-02"))

	var payload scoresResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	scores := make([]ScoreData, 0, len(payload.Scores))
	for _, score := range payload.Scores {
		if !score.Final {
			continue
		}
		day, err := time.Parse("2006-01-02", score.Date)
		if err != nil {
			return nil, NewFeedError(c.Name(), ErrCodeInvalidData, fmt.Sprintf("bad score date %q", score.Date), err)
		}
		scores = append(scores, ScoreData{
			Sport:        c.sport,
			Date:         day,
			HomeTeamName: score.HomeTeam,
			AwayTeamName: score.AwayTeam,
			HomeScore:    score.HomeScore,
			AwayScore:    score.AwayScore,
		})
	}
	return scores, nil
}

func (c *GamesFeedClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewFeedError(c.Name(), ErrCodeInvalidData, "failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewFeedError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewFeedError(c.Name(), ErrCodeInvalidData, "failed to decode payload", err)
	}
	return nil
}
