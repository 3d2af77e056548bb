package repository

import (
	"fmt"
	"time"

	"github.com/yourusername/pick-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team           TeamRepository
	Snapshot       SnapshotRepository
	Game           GameRepository
	Pick           PickRepository
	BacktestRun    BacktestRunRepository
	ResolutionMiss ResolutionMissRepository
}

// NewRepositories creates and returns all repository implementations. The
// team repository is wrapped in a read-through cache because the resolver
// hits the catalog for every raw name in a feed batch.
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Team:           NewCachedTeamRepository(NewPostgresTeamRepository(db), 10*time.Minute),
		Snapshot:       NewPostgresSnapshotRepository(db),
		Game:           NewPostgresGameRepository(db),
		Pick:           NewPostgresPickRepository(db),
		BacktestRun:    NewPostgresBacktestRunRepository(db),
		ResolutionMiss: NewPostgresResolutionMissRepository(db),
	}, nil
}
