package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/models"
)

const errScanTeam = "failed to scan team: %w"

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Create inserts a new team
func (r *PostgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, sport, conference, aliases)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		team.ID, team.Name, team.Sport, team.Conference, team.Aliases,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := `
		SELECT id, name, sport, conference, aliases, created_at, updated_at
		FROM teams WHERE id = $1
	`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.Sport, &team.Conference, &team.Aliases,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// GetBySport retrieves the full catalog for one sport, ordered by name
func (r *PostgresTeamRepository) GetBySport(ctx context.Context, sport models.Sport) ([]*models.Team, error) {
	query := `
		SELECT id, name, sport, conference, aliases, created_at, updated_at
		FROM teams
		WHERE sport = $1
		ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by sport: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(
			&team.ID, &team.Name, &team.Sport, &team.Conference, &team.Aliases,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// AddAlias appends a new feed spelling to a team's alias set, skipping
// duplicates
func (r *PostgresTeamRepository) AddAlias(ctx context.Context, id uuid.UUID, alias string) error {
	query := `
		UPDATE teams SET
			aliases = array_append(aliases, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(aliases))
	`

	_, err := r.db.GetPool().Exec(ctx, query, id, alias)
	if err != nil {
		return fmt.Errorf("failed to add alias: %w", err)
	}

	return nil
}

// Update updates an existing team
func (r *PostgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $2, conference = $3, aliases = $4, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, team.ID, team.Name, team.Conference, team.Aliases)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
