package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/models"
)

const errScanBacktestRun = "failed to scan backtest run: %w"

// PostgresBacktestRunRepository implements BacktestRunRepository for
// PostgreSQL
type PostgresBacktestRunRepository struct {
	db *database.DB
}

// NewPostgresBacktestRunRepository creates a new backtest run repository
func NewPostgresBacktestRunRepository(db *database.DB) *PostgresBacktestRunRepository {
	return &PostgresBacktestRunRepository{db: db}
}

// Create inserts a scored backtest run
func (r *PostgresBacktestRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	tierRecords, err := run.MarshalTierRecords()
	if err != nil {
		return fmt.Errorf("failed to marshal tier records: %w", err)
	}

	query := `
		INSERT INTO backtest_runs (id, config_name, sport, market, season, tier_records, picks_per_week, rmse)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		run.ID, run.ConfigName, run.Sport, run.Market, run.Season,
		tierRecords, run.PicksPerWeek, run.RMSE,
	)
	if err != nil {
		return fmt.Errorf("failed to create backtest run: %w", err)
	}

	return nil
}

// GetByConfigName retrieves all runs recorded under one configuration name,
// newest first
func (r *PostgresBacktestRunRepository) GetByConfigName(ctx context.Context, configName string) ([]*models.BacktestRun, error) {
	query := `
		SELECT id, config_name, sport, market, season, tier_records, picks_per_week, rmse, created_at
		FROM backtest_runs
		WHERE config_name = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, configName)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest runs by config: %w", err)
	}
	defer rows.Close()

	return scanBacktestRuns(rows)
}

// GetLatest retrieves the most recent runs across all configurations
func (r *PostgresBacktestRunRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	query := `
		SELECT id, config_name, sport, market, season, tier_records, picks_per_week, rmse, created_at
		FROM backtest_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest backtest runs: %w", err)
	}
	defer rows.Close()

	return scanBacktestRuns(rows)
}

func scanBacktestRuns(rows pgx.Rows) ([]*models.BacktestRun, error) {
	var runs []*models.BacktestRun
	for rows.Next() {
		run := &models.BacktestRun{}
		var tierRecords json.RawMessage
		err := rows.Scan(
			&run.ID, &run.ConfigName, &run.Sport, &run.Market, &run.Season,
			&tierRecords, &run.PicksPerWeek, &run.RMSE, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanBacktestRun, err)
		}
		if err := run.UnmarshalTierRecords(tierRecords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tier records: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
