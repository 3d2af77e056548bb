package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/pick-engine/internal/models"
)

// TeamRepository defines the interface for team catalog access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetBySport(ctx context.Context, sport models.Sport) ([]*models.Team, error)
	AddAlias(ctx context.Context, id uuid.UUID, alias string) error
	Update(ctx context.Context, team *models.Team) error
}

// SnapshotRepository defines the interface for rating snapshot access.
// Snapshots are append-only; there is deliberately no update or delete.
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.RatingSnapshot) error
	InsertBatch(ctx context.Context, snapshots []*models.RatingSnapshot) error
	GetByTeamID(ctx context.Context, teamID uuid.UUID, start, end time.Time) ([]*models.RatingSnapshot, error)
	GetBySport(ctx context.Context, sport models.Sport) ([]*models.RatingSnapshot, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetBySportSeasons(ctx context.Context, sport models.Sport, startSeason, endSeason int) ([]*models.Game, error)
	GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Game, error)
	UpdateLines(ctx context.Context, id uuid.UUID, spread, total *float64) error
	UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error
}

// PickRepository defines the interface for pick persistence. Upsert works on
// the (date, sport, market, game) natural key so regeneration never
// duplicates.
type PickRepository interface {
	Upsert(ctx context.Context, pick *models.Pick) error
	GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Pick, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Pick, error)
}

// BacktestRunRepository defines backtest run persistence
type BacktestRunRepository interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	GetByConfigName(ctx context.Context, configName string) ([]*models.BacktestRun, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error)
}

// ResolutionMissRepository defines resolution miss persistence for
// alias-table curation
type ResolutionMissRepository interface {
	Record(ctx context.Context, miss *models.ResolutionMiss) error
	List(ctx context.Context, limit int) ([]*models.ResolutionMiss, error)
}
