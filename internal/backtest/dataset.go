// Package backtest implements the walk-forward evaluation and tier-sweep
// harness. The harness calibrates scorer weights and thresholds against
// realized outcomes; it never emits production picks itself.
package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/pit"
	"github.com/yourusername/pick-engine/internal/repository"
)

// Dataset is the immutable in-memory view a backtest runs over. Everything
// is loaded once up front; no I/O happens inside the scoring hot path, and
// sweep workers share one Dataset across goroutines.
type Dataset struct {
	Sport     models.Sport
	Teams     map[uuid.UUID]*models.Team
	Games     *pit.GameIndex
	Snapshots *pit.SnapshotIndex
}

// NewDataset builds a dataset from already-materialized slices.
func NewDataset(sport models.Sport, teams []*models.Team, games []*models.Game, snapshots []*models.RatingSnapshot, windowDays int) *Dataset {
	byID := make(map[uuid.UUID]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	return &Dataset{
		Sport:     sport,
		Teams:     byID,
		Games:     pit.NewGameIndex(games),
		Snapshots: pit.NewSnapshotIndex(snapshots, windowDays),
	}
}

// Load materializes a dataset from storage. firstSeason should be the
// earliest training season, not the earliest evaluated one: evaluating
// season S needs games from the seasons before it.
func Load(ctx context.Context, repos *repository.Repositories, sport models.Sport, firstSeason, lastSeason, windowDays int) (*Dataset, error) {
	teams, err := repos.Team.GetBySport(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to load team catalog: %w", err)
	}

	games, err := repos.Game.GetBySportSeasons(ctx, sport, firstSeason, lastSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	snapshots, err := repos.Snapshot.GetBySport(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating snapshots: %w", err)
	}

	return NewDataset(sport, teams, games, snapshots, windowDays), nil
}
