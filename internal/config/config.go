// Package config provides configuration management for the pick engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig holds the point-in-time matching and regression parameters.
type EngineConfig struct {
	SnapshotWindowDays int     `mapstructure:"snapshot_window_days" validate:"required,gt=0"`
	Lambda             float64 `mapstructure:"lambda" validate:"gte=0"`
	MinTrainingGames   int     `mapstructure:"min_training_games" validate:"required,gt=0"`
	MinEdge            float64 `mapstructure:"min_edge" validate:"gte=0"`
	MomentumWindowDays int     `mapstructure:"momentum_window_days" validate:"gte=0"`
	UseMomentumFeature bool    `mapstructure:"use_momentum_feature"`
}

// TierThresholds maps a convergence score to a confidence tier. A score at or
// above Top lands in the top tier, and so on down; below Low no pick is made.
type TierThresholds struct {
	Top float64 `mapstructure:"top" validate:"required,gt=0"`
	Mid float64 `mapstructure:"mid" validate:"required,gt=0"`
	Low float64 `mapstructure:"low" validate:"required,gt=0"`
}

// MarketScoring holds the calibrated scorer parameters for one (sport,
// market). Weights is keyed by signal category; an explicit zero entry means
// the category is deliberately silenced, which is different from the category
// being absent from the map.
type MarketScoring struct {
	Weights    map[string]float64 `mapstructure:"weights" validate:"required,min=1"`
	Thresholds TierThresholds     `mapstructure:"thresholds" validate:"required"`
}

// ScoringConfig represents the scorer's weight tables and tier thresholds,
// keyed sport -> market. These values are outputs of the sweep harness,
// never hand-tuned in place.
type ScoringConfig struct {
	DefaultWeight float64                             `mapstructure:"default_weight" validate:"gte=0,lte=0.1"`
	Sports        map[string]map[string]MarketScoring `mapstructure:"sports" validate:"required,min=1"`
}

// BacktestConfig represents walk-forward backtest configuration
type BacktestConfig struct {
	Sport             string  `mapstructure:"sport" validate:"required,sport"`
	Market            string  `mapstructure:"market" validate:"required,market"`
	StartSeason       int     `mapstructure:"start_season" validate:"required,gt=1900"`
	EndSeason         int     `mapstructure:"end_season" validate:"required,gt=1900"`
	MinTierSamples    int     `mapstructure:"min_tier_samples" validate:"required,gt=0"`
	PicksPerWeekMin   float64 `mapstructure:"picks_per_week_min" validate:"gte=0"`
	PicksPerWeekMax   float64 `mapstructure:"picks_per_week_max" validate:"required,gt=0"`
	MinTopTierWinRate float64 `mapstructure:"min_top_tier_win_rate" validate:"required,gt=0,lt=1"`
	OutputPath        string  `mapstructure:"output_path" validate:"required"`
}

// SweepConfig names a space of candidate tier configurations.
type SweepConfig struct {
	Name          string           `mapstructure:"name"`
	MinEdges      []float64        `mapstructure:"min_edges"`
	TempoCeilings []float64        `mapstructure:"tempo_ceilings"`
	LineCeilings  []float64        `mapstructure:"line_ceilings"`
	ThresholdSets []TierThresholds `mapstructure:"threshold_sets"`
	TopN          int              `mapstructure:"top_n" validate:"gte=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []SourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
}

// SourceConfig represents a single feed source configuration
type SourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url" validate:"omitempty,url"`
	StreamURL string `mapstructure:"stream_url"`
	APIKey    string `mapstructure:"api_key"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents feed collection scheduling
type ScheduleConfig struct {
	DailyCollection            string `mapstructure:"daily_collection" validate:"required"`
	LivePollingIntervalSeconds int    `mapstructure:"live_polling_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MarketScoringFor returns the calibrated scorer parameters for a (sport,
// market) pair.
func (c *Config) MarketScoringFor(sport, market string) (MarketScoring, error) {
	markets, ok := c.Scoring.Sports[sport]
	if !ok {
		return MarketScoring{}, fmt.Errorf("no scoring configuration for sport %q", sport)
	}
	scoring, ok := markets[market]
	if !ok {
		return MarketScoring{}, fmt.Errorf("no scoring configuration for market %q under sport %q", market, sport)
	}
	return scoring, nil
}
