package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/models"
)

// Factory creates feed sources based on configuration
type Factory struct {
	logger *logrus.Logger
	sport  models.Sport
}

// NewFactory creates a new feed source factory for one sport
func NewFactory(sport models.Sport, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		sport:  sport,
	}
}

// NewFeedSource creates a feed source from a single source configuration
func (f *Factory) NewFeedSource(cfg config.SourceConfig, httpClient *RateLimitedHTTPClient) (FeedSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case ratingsFeedName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ratings feed API key is required")
		}
		return NewRatingsFeedClient(httpClient, cfg.BaseURL, cfg.APIKey, f.sport, cfg.Enabled, f.logger), nil

	case gamesFeedName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("games feed API key is required")
		}
		return NewGamesFeedClient(httpClient, cfg.BaseURL, cfg.APIKey, f.sport, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown feed source: %s", cfg.Name)
	}
}

// NewFeedSources creates all enabled feed sources from configuration
func (f *Factory) NewFeedSources(ingestionCfg config.IngestionConfig, httpClient *RateLimitedHTTPClient) ([]FeedSource, error) {
	var sources []FeedSource

	for _, srcCfg := range ingestionCfg.Sources {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled feed source")
			}
			continue
		}

		source, err := f.NewFeedSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create feed source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.WithField("source", srcCfg.Name).Info("Created feed source")
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled feed sources configured")
	}

	return sources, nil
}

// NewLineStream creates the live line stream for a source configuration that
// carries a stream URL, or nil when streaming is not configured.
func (f *Factory) NewLineStream(ingestionCfg config.IngestionConfig) *LineStreamClient {
	for _, srcCfg := range ingestionCfg.Sources {
		if !srcCfg.Enabled || srcCfg.StreamURL == "" {
			continue
		}
		return NewLineStreamClient(srcCfg.StreamURL, srcCfg.APIKey, f.sport, f.logger)
	}
	return nil
}
