// Package pit provides point-in-time access to historical data. Every lookup
// is bounded by a decision date so that nothing dated on or after the date
// being decided can leak into a prediction.
package pit

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
)

// DefaultWindowDays bounds how far back the matcher will reach for a rating
// snapshot.
const DefaultWindowDays = 3

// SnapshotIndex is a date-indexed view of rating snapshot history, built
// once per run and passed through the pipeline. It is immutable after
// construction, so sweep workers can share one instance.
type SnapshotIndex struct {
	byTeamDay  map[uuid.UUID]map[time.Time]*models.RatingSnapshot
	daysByTeam map[uuid.UUID][]time.Time
	windowDays int
}

// NewSnapshotIndex builds the index. windowDays <= 0 falls back to
// DefaultWindowDays. Duplicate (team, day) entries keep the first snapshot
// seen: snapshots are immutable once captured.
func NewSnapshotIndex(snapshots []*models.RatingSnapshot, windowDays int) *SnapshotIndex {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	idx := &SnapshotIndex{
		byTeamDay:  make(map[uuid.UUID]map[time.Time]*models.RatingSnapshot),
		daysByTeam: make(map[uuid.UUID][]time.Time),
		windowDays: windowDays,
	}
	for _, snap := range snapshots {
		day := snap.Day()
		days, ok := idx.byTeamDay[snap.TeamID]
		if !ok {
			days = make(map[time.Time]*models.RatingSnapshot)
			idx.byTeamDay[snap.TeamID] = days
		}
		if _, exists := days[day]; exists {
			continue
		}
		days[day] = snap
		idx.daysByTeam[snap.TeamID] = append(idx.daysByTeam[snap.TeamID], day)
	}
	for teamID := range idx.daysByTeam {
		days := idx.daysByTeam[teamID]
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}
	return idx
}

// Match selects the snapshot to use for a team ahead of a game date. It
// prefers the day before the game, then walks back one day at a time to the
// window bound. The selected snapshot is always dated strictly before the
// game date: a same-day or later snapshot would leak the game's own result
// into its prediction, which silently inflates in-sample accuracy while
// collapsing out of sample.
func (idx *SnapshotIndex) Match(teamID uuid.UUID, gameDate time.Time) (*models.RatingSnapshot, error) {
	days, ok := idx.byTeamDay[teamID]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", teamID, models.ErrSnapshotUnavailable)
	}

	gameDay := models.Day(gameDate)
	for offset := 1; offset <= idx.windowDays; offset++ {
		day := gameDay.AddDate(0, 0, -offset)
		snap, found := days[day]
		if !found {
			continue
		}
		if !snap.Day().Before(gameDay) {
			return nil, fmt.Errorf("snapshot dated %s not before game date %s: %w",
				snap.Day().Format("2006-01-02"), gameDay.Format("2006-01-02"), models.ErrSnapshotUnavailable)
		}
		return snap, nil
	}

	return nil, fmt.Errorf("team %s has no snapshot within %d days of %s: %w",
		teamID, idx.windowDays, gameDay.Format("2006-01-02"), models.ErrSnapshotUnavailable)
}

// MatchGame matches both teams of a game. A game missing either snapshot is
// excluded from regression-derived signals; other signals may still fire.
func (idx *SnapshotIndex) MatchGame(game *models.Game) (home, away *models.RatingSnapshot, err error) {
	home, err = idx.Match(game.HomeTeamID, game.Date)
	if err != nil {
		return nil, nil, err
	}
	away, err = idx.Match(game.AwayTeamID, game.Date)
	if err != nil {
		return nil, nil, err
	}
	return home, away, nil
}

// Momentum returns the change in efficiency margin over a trailing window
// ending at the matched snapshot, with ok=false when history is too thin.
// Both endpoints are strictly before the game date.
func (idx *SnapshotIndex) Momentum(teamID uuid.UUID, gameDate time.Time, trailingDays int) (float64, bool) {
	current, err := idx.Match(teamID, gameDate)
	if err != nil {
		return 0, false
	}

	days := idx.daysByTeam[teamID]
	cutoff := current.Day().AddDate(0, 0, -trailingDays)

	// Earliest snapshot on or after the cutoff but before the current one.
	i := sort.Search(len(days), func(i int) bool { return !days[i].Before(cutoff) })
	if i >= len(days) {
		return 0, false
	}
	baseline := idx.byTeamDay[teamID][days[i]]
	if !baseline.Day().Before(current.Day()) {
		return 0, false
	}
	return current.EfficiencyMargin - baseline.EfficiencyMargin, true
}

// WindowDays reports the configured look-back bound.
func (idx *SnapshotIndex) WindowDays() int {
	return idx.windowDays
}
