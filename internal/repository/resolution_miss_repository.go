package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/models"
)

// PostgresResolutionMissRepository implements ResolutionMissRepository for
// PostgreSQL
type PostgresResolutionMissRepository struct {
	db *database.DB
}

// NewPostgresResolutionMissRepository creates a new resolution miss
// repository
func NewPostgresResolutionMissRepository(db *database.DB) *PostgresResolutionMissRepository {
	return &PostgresResolutionMissRepository{db: db}
}

// Record upserts a miss, bumping its count on repeat sightings of the same
// raw name
func (r *PostgresResolutionMissRepository) Record(ctx context.Context, miss *models.ResolutionMiss) error {
	query := `
		INSERT INTO resolution_misses (raw_name, stripped_name, source, count, last_seen)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (raw_name) DO UPDATE SET
			count = resolution_misses.count + 1,
			stripped_name = EXCLUDED.stripped_name,
			source = EXCLUDED.source,
			last_seen = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, miss.RawName, miss.StrippedName, miss.Source)
	if err != nil {
		return fmt.Errorf("failed to record resolution miss: %w", err)
	}

	return nil
}

// List retrieves misses ordered by frequency, the curation worklist
func (r *PostgresResolutionMissRepository) List(ctx context.Context, limit int) ([]*models.ResolutionMiss, error) {
	query := `
		SELECT raw_name, stripped_name, source, count, last_seen
		FROM resolution_misses
		ORDER BY count DESC, raw_name ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolution misses: %w", err)
	}
	defer rows.Close()

	var misses []*models.ResolutionMiss
	for rows.Next() {
		miss := &models.ResolutionMiss{}
		err := rows.Scan(&miss.RawName, &miss.StrippedName, &miss.Source, &miss.Count, &miss.LastSeen)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution miss: %w", err)
		}
		misses = append(misses, miss)
	}

	return misses, rows.Err()
}
