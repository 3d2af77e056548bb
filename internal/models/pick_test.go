package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPickIDDeterministic(t *testing.T) {
	gameID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	first := PickID(date, SportBasketball, MarketTotal, gameID)
	second := PickID(date, SportBasketball, MarketTotal, gameID)
	assert.Equal(t, first, second, "regeneration must produce the same ID")

	// Time-of-day is irrelevant: only the calendar day participates.
	evening := PickID(date.Add(19*time.Hour), SportBasketball, MarketTotal, gameID)
	assert.Equal(t, first, evening)

	assert.NotEqual(t, first, PickID(date.AddDate(0, 0, 1), SportBasketball, MarketTotal, gameID))
	assert.NotEqual(t, first, PickID(date, SportBasketball, MarketSpread, gameID))
	assert.NotEqual(t, first, PickID(date, SportFootball, MarketTotal, gameID))
	assert.NotEqual(t, first, PickID(date, SportBasketball, MarketTotal, uuid.New()))
}

func TestNaturalKey(t *testing.T) {
	gameID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	pick := &Pick{
		GameID: gameID,
		Date:   time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC),
		Sport:  SportBasketball,
		Market: MarketSpread,
	}
	assert.Equal(t, "2024-01-15|basketball|spread|6ba7b810-9dad-11d1-80b4-00c04fd430c8", pick.NaturalKey())
}

func TestTierRank(t *testing.T) {
	assert.Greater(t, TierTop.Rank(), TierMid.Rank())
	assert.Greater(t, TierMid.Rank(), TierLow.Rank())
	assert.Greater(t, TierLow.Rank(), TierNone.Rank())
	assert.Equal(t, 0, ConfidenceTier("garbage").Rank())
}

func TestTierRecordWinRateExcludesPushes(t *testing.T) {
	record := TierRecord{Wins: 6, Losses: 4, Pushes: 10}
	assert.Equal(t, 20, record.Picks())
	assert.InDelta(t, 0.6, record.WinRate(), 1e-9)

	assert.Equal(t, 0.0, TierRecord{Pushes: 5}.WinRate())
	assert.Equal(t, 0.0, TierRecord{}.WinRate())
}

func TestMonotonic(t *testing.T) {
	run := &BacktestRun{TierRecords: map[ConfidenceTier]TierRecord{
		TierLow: {Wins: 10, Losses: 10},
		TierMid: {Wins: 11, Losses: 9},
		TierTop: {Wins: 14, Losses: 6},
	}}
	assert.True(t, run.Monotonic())

	run.TierRecords[TierMid] = TierRecord{Wins: 15, Losses: 5}
	assert.False(t, run.Monotonic(), "mid above top breaks monotonicity")

	// Undecided tiers are skipped, not treated as zero.
	sparse := &BacktestRun{TierRecords: map[ConfidenceTier]TierRecord{
		TierLow: {Wins: 10, Losses: 10},
		TierMid: {Pushes: 3},
		TierTop: {Wins: 12, Losses: 8},
	}}
	assert.True(t, sparse.Monotonic())

	assert.True(t, (&BacktestRun{}).Monotonic())
}

func TestTierRecordsRoundTrip(t *testing.T) {
	run := &BacktestRun{TierRecords: map[ConfidenceTier]TierRecord{
		TierTop: {Wins: 18, Losses: 6, Pushes: 1},
	}}

	raw, err := run.MarshalTierRecords()
	assert.NoError(t, err)

	restored := &BacktestRun{}
	assert.NoError(t, restored.UnmarshalTierRecords(raw))
	assert.Equal(t, run.TierRecords, restored.TierRecords)

	empty := &BacktestRun{}
	assert.NoError(t, empty.UnmarshalTierRecords(nil))
	assert.NotNil(t, empty.TierRecords)
}
