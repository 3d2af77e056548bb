package database

import (
	"context"
	"fmt"

	"github.com/yourusername/pick-engine/internal/config"
)

// schema holds the engine's tables. Snapshots are append-only: ingestion
// inserts with ON CONFLICT DO NOTHING and nothing ever updates a captured
// row. Picks carry a unique natural key so regeneration upserts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		sport TEXT NOT NULL,
		conference TEXT NOT NULL DEFAULT '',
		aliases TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (sport, name)
	)`,
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		team_id UUID NOT NULL REFERENCES teams(id),
		date DATE NOT NULL,
		efficiency_margin DOUBLE PRECISION NOT NULL,
		offensive_eff DOUBLE PRECISION NOT NULL,
		defensive_eff DOUBLE PRECISION NOT NULL,
		tempo DOUBLE PRECISION NOT NULL,
		captured_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (team_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		sport TEXT NOT NULL,
		season INT NOT NULL,
		date DATE NOT NULL,
		home_team_id UUID NOT NULL REFERENCES teams(id),
		away_team_id UUID NOT NULL REFERENCES teams(id),
		home_score INT,
		away_score INT,
		spread NUMERIC(6,2),
		total NUMERIC(6,2),
		conference_game BOOLEAN NOT NULL DEFAULT FALSE,
		neutral_site BOOLEAN NOT NULL DEFAULT FALSE,
		tournament BOOLEAN NOT NULL DEFAULT FALSE,
		home_rank INT,
		away_rank INT,
		home_rest_days INT,
		away_rest_days INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (sport, date, home_team_id, away_team_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_sport_season ON games (sport, season)`,
	`CREATE INDEX IF NOT EXISTS idx_games_date ON games (date)`,
	`CREATE TABLE IF NOT EXISTS picks (
		id UUID PRIMARY KEY,
		game_id UUID NOT NULL REFERENCES games(id),
		date DATE NOT NULL,
		sport TEXT NOT NULL,
		market TEXT NOT NULL,
		side TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		tier TEXT NOT NULL,
		signals JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (date, sport, market, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS backtest_runs (
		id UUID PRIMARY KEY,
		config_name TEXT NOT NULL,
		sport TEXT NOT NULL,
		market TEXT NOT NULL,
		season INT NOT NULL,
		tier_records JSONB NOT NULL DEFAULT '{}',
		picks_per_week DOUBLE PRECISION NOT NULL,
		rmse DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS resolution_misses (
		raw_name TEXT PRIMARY KEY,
		stripped_name TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		count INT NOT NULL DEFAULT 1,
		last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return db, nil
}
