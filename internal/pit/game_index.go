package pit

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
)

// GameIndex is a per-run view of game history. Like SnapshotIndex it is
// immutable after construction; every accessor that feeds a decision takes
// the decision date and returns only strictly earlier games.
type GameIndex struct {
	all      []*models.Game
	byTeam   map[uuid.UUID][]*models.Game
	bySeason map[int][]*models.Game
}

// NewGameIndex builds the index. Games are kept in chronological order.
func NewGameIndex(games []*models.Game) *GameIndex {
	sorted := make([]*models.Game, len(games))
	copy(sorted, games)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	idx := &GameIndex{
		all:      sorted,
		byTeam:   make(map[uuid.UUID][]*models.Game),
		bySeason: make(map[int][]*models.Game),
	}
	for _, game := range sorted {
		idx.byTeam[game.HomeTeamID] = append(idx.byTeam[game.HomeTeamID], game)
		idx.byTeam[game.AwayTeamID] = append(idx.byTeam[game.AwayTeamID], game)
		idx.bySeason[game.Season] = append(idx.bySeason[game.Season], game)
	}
	return idx
}

// TeamGamesBefore returns a team's completed games dated strictly before the
// cutoff, oldest first. Season <= 0 means all seasons.
func (idx *GameIndex) TeamGamesBefore(teamID uuid.UUID, cutoff time.Time, season int) []*models.Game {
	cutoffDay := models.Day(cutoff)
	var out []*models.Game
	for _, game := range idx.byTeam[teamID] {
		if !game.Day().Before(cutoffDay) {
			break
		}
		if season > 0 && game.Season != season {
			continue
		}
		if !game.IsFinal() {
			continue
		}
		out = append(out, game)
	}
	return out
}

// HeadToHeadBefore returns prior completed meetings between two teams dated
// strictly before the cutoff, oldest first.
func (idx *GameIndex) HeadToHeadBefore(a, b uuid.UUID, cutoff time.Time) []*models.Game {
	cutoffDay := models.Day(cutoff)
	var out []*models.Game
	for _, game := range idx.byTeam[a] {
		if !game.Day().Before(cutoffDay) {
			break
		}
		if !game.Involves(b) || !game.IsFinal() {
			continue
		}
		out = append(out, game)
	}
	return out
}

// SeasonGames returns all games of one season, chronological.
func (idx *GameIndex) SeasonGames(season int) []*models.Game {
	return idx.bySeason[season]
}

// GamesBeforeSeason returns completed games from seasons strictly before the
// given season, chronological. This is the training set boundary for
// walk-forward fitting.
func (idx *GameIndex) GamesBeforeSeason(season int) []*models.Game {
	var out []*models.Game
	for _, game := range idx.all {
		if game.Season < season && game.IsFinal() {
			out = append(out, game)
		}
	}
	return out
}

// GamesOn returns games scheduled on one day, chronological.
func (idx *GameIndex) GamesOn(day time.Time) []*models.Game {
	target := models.Day(day)
	var out []*models.Game
	for _, game := range idx.all {
		if game.Day().Equal(target) {
			out = append(out, game)
		}
	}
	return out
}

// Seasons returns the distinct seasons present, ascending.
func (idx *GameIndex) Seasons() []int {
	seasons := make([]int, 0, len(idx.bySeason))
	for season := range idx.bySeason {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons
}
