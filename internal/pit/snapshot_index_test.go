package pit

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func snap(teamID uuid.UUID, date time.Time, margin float64) *models.RatingSnapshot {
	return &models.RatingSnapshot{
		TeamID:           teamID,
		Date:             date,
		EfficiencyMargin: margin,
		OffensiveEff:     110,
		DefensiveEff:     95,
		Tempo:            68,
	}
}

func TestMatchPrefersDayBefore(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 8), 5.0),
		snap(teamID, day(2024, 1, 9), 6.0),
	}, 3)

	got, err := idx.Match(teamID, day(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.EfficiencyMargin)
}

func TestMatchWalksBackWithinWindow(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 7), 4.0),
	}, 3)

	got, err := idx.Match(teamID, day(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.EfficiencyMargin)
}

func TestMatchNeverUsesSameDaySnapshot(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 10), 9.0),
	}, 3)

	_, err := idx.Match(teamID, day(2024, 1, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestMatchNeverUsesLaterSnapshot(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 12), 9.0),
	}, 3)

	_, err := idx.Match(teamID, day(2024, 1, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestMatchOutsideWindowFails(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 5), 4.0),
	}, 3)

	// Window of 3 reaches back to Jan 7; the Jan 5 snapshot is too old.
	_, err := idx.Match(teamID, day(2024, 1, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestMatchUnknownTeam(t *testing.T) {
	idx := NewSnapshotIndex(nil, 3)

	_, err := idx.Match(uuid.New(), day(2024, 1, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestMatchGameRequiresBothTeams(t *testing.T) {
	homeID := uuid.New()
	awayID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(homeID, day(2024, 1, 9), 5.0),
	}, 3)

	game := &models.Game{
		ID:         uuid.New(),
		Sport:      models.SportBasketball,
		Season:     2024,
		Date:       day(2024, 1, 10),
		HomeTeamID: homeID,
		AwayTeamID: awayID,
	}
	_, _, err := idx.MatchGame(game)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestDuplicateCaptureKeepsFirst(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 9), 5.0),
		snap(teamID, day(2024, 1, 9), 99.0),
	}, 3)

	got, err := idx.Match(teamID, day(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.EfficiencyMargin)
}

func TestMomentum(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 1), 2.0),
		snap(teamID, day(2024, 1, 9), 7.0),
	}, 3)

	delta, ok := idx.Momentum(teamID, day(2024, 1, 10), 10)
	require.True(t, ok)
	assert.InDelta(t, 5.0, delta, 1e-9)
}

func TestMomentumThinHistory(t *testing.T) {
	teamID := uuid.New()
	idx := NewSnapshotIndex([]*models.RatingSnapshot{
		snap(teamID, day(2024, 1, 9), 7.0),
	}, 3)

	_, ok := idx.Momentum(teamID, day(2024, 1, 10), 10)
	assert.False(t, ok)
}

func TestWindowDaysDefault(t *testing.T) {
	idx := NewSnapshotIndex(nil, 0)
	assert.Equal(t, DefaultWindowDays, idx.WindowDays())
}
