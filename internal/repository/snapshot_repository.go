package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
)

const errScanSnapshot = "failed to scan rating snapshot: %w"

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL.
// Rating snapshots are append-only: inserts use ON CONFLICT DO NOTHING so a
// re-run of the daily collector can never rewrite a captured rating.
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Insert appends one snapshot. A duplicate (team, date) is a silent no-op.
func (r *PostgresSnapshotRepository) Insert(ctx context.Context, snapshot *models.RatingSnapshot) error {
	query := `
		INSERT INTO rating_snapshots (team_id, date, efficiency_margin, offensive_eff, defensive_eff, tempo, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (team_id, date) DO NOTHING
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		snapshot.TeamID, snapshot.Date, snapshot.EfficiencyMargin,
		snapshot.OffensiveEff, snapshot.DefensiveEff, snapshot.Tempo, snapshot.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rating snapshot: %w", err)
	}
	if tag.RowsAffected() > 0 {
		metrics.SnapshotsIngestedTotal.Inc()
	}

	return nil
}

// InsertBatch appends a batch of snapshots inside one transaction
func (r *PostgresSnapshotRepository) InsertBatch(ctx context.Context, snapshots []*models.RatingSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO rating_snapshots (team_id, date, efficiency_margin, offensive_eff, defensive_eff, tempo, captured_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (team_id, date) DO NOTHING
		`
		for _, snapshot := range snapshots {
			tag, err := tx.Exec(ctx, query,
				snapshot.TeamID, snapshot.Date, snapshot.EfficiencyMargin,
				snapshot.OffensiveEff, snapshot.DefensiveEff, snapshot.Tempo, snapshot.CapturedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert rating snapshot batch: %w", err)
			}
			if tag.RowsAffected() > 0 {
				metrics.SnapshotsIngestedTotal.Inc()
			}
		}
		return nil
	})
}

// GetByTeamID retrieves one team's snapshots within a date range, oldest
// first
func (r *PostgresSnapshotRepository) GetByTeamID(ctx context.Context, teamID uuid.UUID, start, end time.Time) ([]*models.RatingSnapshot, error) {
	query := `
		SELECT team_id, date, efficiency_margin, offensive_eff, defensive_eff, tempo, captured_at
		FROM rating_snapshots
		WHERE team_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots by team: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetBySport retrieves all snapshots for a sport's teams, oldest first. This
// is the bulk load the backtest dataset is built from.
func (r *PostgresSnapshotRepository) GetBySport(ctx context.Context, sport models.Sport) ([]*models.RatingSnapshot, error) {
	query := `
		SELECT s.team_id, s.date, s.efficiency_margin, s.offensive_eff, s.defensive_eff, s.tempo, s.captured_at
		FROM rating_snapshots s
		JOIN teams t ON t.id = s.team_id
		WHERE t.sport = $1
		ORDER BY s.date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots by sport: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows pgx.Rows) ([]*models.RatingSnapshot, error) {
	var snapshots []*models.RatingSnapshot
	for rows.Next() {
		snapshot := &models.RatingSnapshot{}
		err := rows.Scan(
			&snapshot.TeamID, &snapshot.Date, &snapshot.EfficiencyMargin,
			&snapshot.OffensiveEff, &snapshot.DefensiveEff, &snapshot.Tempo, &snapshot.CapturedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanSnapshot, err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}
