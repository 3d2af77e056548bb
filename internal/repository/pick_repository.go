package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/models"
)

const errScanPick = "failed to scan pick: %w"

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) *PostgresPickRepository {
	return &PostgresPickRepository{db: db}
}

// Upsert writes a pick by its natural key. Regenerating picks for a date
// overwrites side, score, tier and signals in place instead of duplicating.
func (r *PostgresPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	signals, err := json.Marshal(pick.Signals)
	if err != nil {
		return fmt.Errorf("failed to marshal pick signals: %w", err)
	}

	query := `
		INSERT INTO picks (id, game_id, date, sport, market, side, score, tier, signals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (date, sport, market, game_id) DO UPDATE SET
			side = EXCLUDED.side,
			score = EXCLUDED.score,
			tier = EXCLUDED.tier,
			signals = EXCLUDED.signals,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		pick.ID, pick.GameID, models.Day(pick.Date), pick.Sport, pick.Market,
		pick.Side, pick.Score, pick.Tier, signals,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}

	return nil
}

// GetByDate retrieves picks for a (sport, date), highest score first
func (r *PostgresPickRepository) GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Pick, error) {
	query := `
		SELECT id, game_id, date, sport, market, side, score, tier, signals, created_at, updated_at
		FROM picks
		WHERE sport = $1 AND date = $2
		ORDER BY score DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, models.Day(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by date: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// GetByGameID retrieves all picks made on one game
func (r *PostgresPickRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Pick, error) {
	query := `
		SELECT id, game_id, date, sport, market, side, score, tier, signals, created_at, updated_at
		FROM picks
		WHERE game_id = $1
		ORDER BY market ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks by game: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

func scanPicks(rows pgx.Rows) ([]*models.Pick, error) {
	var picks []*models.Pick
	for rows.Next() {
		pick := &models.Pick{}
		var signals []byte
		err := rows.Scan(
			&pick.ID, &pick.GameID, &pick.Date, &pick.Sport, &pick.Market,
			&pick.Side, &pick.Score, &pick.Tier, &signals, &pick.CreatedAt, &pick.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPick, err)
		}
		if len(signals) > 0 {
			if err := json.Unmarshal(signals, &pick.Signals); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pick signals: %w", err)
			}
		}
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}
