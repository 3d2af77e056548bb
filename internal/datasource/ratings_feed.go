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

const ratingsFeedName = "ratings_feed"

// RatingsFeedClient fetches daily team rating snapshots from the ratings
// provider's REST API.
type RatingsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      models.Sport
	enabled    bool
	logger     *logrus.Logger
}

// NewRatingsFeedClient creates a ratings feed client
func NewRatingsFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, sport models.Sport, enabled bool, logger *logrus.Logger) *RatingsFeedClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &RatingsFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		sport:      sport,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the feed source name
func (c *RatingsFeedClient) Name() string {
	return ratingsFeedName
}

// IsEnabled returns whether the feed is enabled
func (c *RatingsFeedClient) IsEnabled() bool {
	return c.enabled
}

// ratingsResponse is the provider's payload shape.
type ratingsResponse struct {
	Date    string `json:"date"`
	Ratings []struct {
		Team             string  `json:"team"`
		EfficiencyMargin float64 `json:"efficiency_margin"`
		OffensiveEff     float64 `json:"offensive_efficiency"`
		DefensiveEff     float64 `json:"defensive_efficiency"`
		Tempo            float64 `json:"tempo"`
	} `json:"ratings"`
}

// FetchSnapshots retrieves the ratings published for one day. Team names are
// the provider's raw spellings.
func (c *RatingsFeedClient) FetchSnapshots(ctx context.Context, date time.Time) ([]SnapshotData, error) {
	url := fmt.Sprintf("%s/v1/%s/ratings?date=%s", c.baseURL, c.sport, models.Day(date).Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFeedError(c.Name(), ErrCodeInvalidData, "failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewFeedError(c.Name(), ErrCodeNetworkError, "ratings request failed", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var payload ratingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewFeedError(c.Name(), ErrCodeInvalidData, "failed to decode ratings payload", err)
	}

	day := models.Day(date)
	snapshots := make([]SnapshotData, 0, len(payload.Ratings))
	for _, rating := range payload.Ratings {
		snapshots = append(snapshots, SnapshotData{
			TeamName:         rating.Team,
			Sport:            c.sport,
			Date:             day,
			EfficiencyMargin: rating.EfficiencyMargin,
			OffensiveEff:     rating.OffensiveEff,
			DefensiveEff:     rating.DefensiveEff,
			Tempo:            rating.Tempo,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"date":  day.Format("2006-01-02"),
		"count": len(snapshots),
	}).Debug("Fetched rating snapshots")
	return snapshots, nil
}

// checkStatus maps HTTP status codes to feed errors.
func checkStatus(source string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewFeedError(source, ErrCodeAuthenticationFailed, resp.Status, ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewFeedError(source, ErrCodeNotFound, resp.Status, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewFeedError(source, ErrCodeRateLimitExceeded, resp.Status, ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return NewFeedError(source, ErrCodeServerError, resp.Status, nil)
	default:
		return NewFeedError(source, ErrCodeInvalidData, resp.Status, nil)
	}
}
