package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
)

const (
	errScanGame = "failed to scan game: %w"

	gameColumns = `id, sport, season, date, home_team_id, away_team_id,
	       home_score, away_score, spread, total,
	       conference_game, neutral_site, tournament,
	       home_rank, away_rank, home_rest_days, away_rest_days,
	       created_at, updated_at`
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new game. A game already present for the same matchup and
// date returns models.ErrDuplicateKey.
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, sport, season, date, home_team_id, away_team_id,
			home_score, away_score, spread, total,
			conference_game, neutral_site, tournament,
			home_rank, away_rank, home_rest_days, away_rest_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Sport, game.Season, game.Date, game.HomeTeamID, game.AwayTeamID,
		game.HomeScore, game.AwayScore, game.Spread, game.Total,
		game.ConferenceGame, game.NeutralSite, game.Tournament,
		game.HomeRank, game.AwayRank, game.HomeRestDays, game.AwayRestDays,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	metrics.GamesIngestedTotal.Inc()

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Sport, &game.Season, &game.Date, &game.HomeTeamID, &game.AwayTeamID,
		&game.HomeScore, &game.AwayScore, &game.Spread, &game.Total,
		&game.ConferenceGame, &game.NeutralSite, &game.Tournament,
		&game.HomeRank, &game.AwayRank, &game.HomeRestDays, &game.AwayRestDays,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetBySportSeasons retrieves a sport's games across a season range,
// chronological. This is the bulk load for backtest datasets.
func (r *PostgresGameRepository) GetBySportSeasons(ctx context.Context, sport models.Sport, startSeason, endSeason int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE sport = $1 AND season >= $2 AND season <= $3
		ORDER BY date ASC`

	rows, err := r.db.GetPool().Query(ctx, query, sport, startSeason, endSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByDate retrieves a sport's games on one day, chronological
func (r *PostgresGameRepository) GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Game, error) {
	day := models.Day(date)
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE sport = $1 AND date = $2
		ORDER BY date ASC`

	rows, err := r.db.GetPool().Query(ctx, query, sport, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// UpdateLines captures pre-game market lines. Nil values leave the column
// untouched so a totals-only feed cannot erase a captured spread.
func (r *PostgresGameRepository) UpdateLines(ctx context.Context, id uuid.UUID, spread, total *float64) error {
	query := `
		UPDATE games SET
			spread = COALESCE($2, spread), total = COALESCE($3, total), updated_at = NOW()
		WHERE id = $1
	`

	var spreadVal, totalVal *decimal.Decimal
	if spread != nil {
		d := decimal.NewFromFloat(*spread)
		spreadVal = &d
	}
	if total != nil {
		d := decimal.NewFromFloat(*total)
		totalVal = &d
	}

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, spreadVal, totalVal)
	if err != nil {
		return fmt.Errorf("failed to update market lines: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	metrics.LinesCapturedTotal.Inc()

	return nil
}

// UpdateScore posts the final score
func (r *PostgresGameRepository) UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	query := `
		UPDATE games SET
			home_score = $2, away_score = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.Sport, &game.Season, &game.Date, &game.HomeTeamID, &game.AwayTeamID,
			&game.HomeScore, &game.AwayScore, &game.Spread, &game.Total,
			&game.ConferenceGame, &game.NeutralSite, &game.Tournament,
			&game.HomeRank, &game.AwayRank, &game.HomeRestDays, &game.AwayRestDays,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
