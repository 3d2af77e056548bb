package backtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/scoring"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		SnapshotWindowDays: 3,
		Lambda:             0,
		MinTrainingGames:   20,
	}
}

func testScorer(t *testing.T) *scoring.Scorer {
	t.Helper()
	scorer, err := scoring.New(models.SportBasketball, models.MarketTotal, config.MarketScoring{
		Weights: map[string]float64{
			"model_edge": 0.5,
			"matchup":    0.0,
			"divergence": 0.0,
		},
		Thresholds: config.TierThresholds{Top: 0.20, Mid: 0.10, Low: 0.05},
	}, 0.0)
	require.NoError(t, err)
	return scorer
}

// syntheticDataset builds seasons where the combined score is exactly
// sumOff - sumDef + avgTempo over the day-before snapshots. Evaluation-season
// games carry a total line a few points under the realized total, so a
// zero-lambda model always leans over and always wins.
func syntheticDataset(seasons []int, gamesPerSeason int, lineUnderBy float64) *Dataset {
	teams := make([]*models.Team, 4)
	for i := range teams {
		teams[i] = &models.Team{ID: uuid.New(), Sport: models.SportBasketball}
	}

	lastSeason := seasons[len(seasons)-1]
	var games []*models.Game
	var snaps []*models.RatingSnapshot

	for si, season := range seasons {
		for g := 0; g < gamesPerSeason; g++ {
			home := teams[g%len(teams)].ID
			away := teams[(g+1)%len(teams)].ID
			date := day(season-1, time.November, 1).AddDate(0, 0, g*2)

			homeOff := 100.0 + float64((g+si)%12)
			awayOff := 104.0 + float64(g%9)
			homeDef := 90.0 + float64(g%7)
			awayDef := 93.0 + float64((g+si)%5)
			homeTempo := 64.0 + float64(g%6)*2
			awayTempo := 66.0 + float64(g%4)*2

			snaps = append(snaps,
				&models.RatingSnapshot{
					TeamID: home, Date: date.AddDate(0, 0, -1),
					OffensiveEff: homeOff, DefensiveEff: homeDef, Tempo: homeTempo,
				},
				&models.RatingSnapshot{
					TeamID: away, Date: date.AddDate(0, 0, -1),
					OffensiveEff: awayOff, DefensiveEff: awayDef, Tempo: awayTempo,
				},
			)

			total := int((homeOff + awayOff) - (homeDef + awayDef) + (homeTempo+awayTempo)/2)
			homeScore := total/2 + 3
			awayScore := total - homeScore

			game := &models.Game{
				ID:         uuid.New(),
				Sport:      models.SportBasketball,
				Season:     season,
				Date:       date,
				HomeTeamID: home,
				AwayTeamID: away,
				HomeScore:  &homeScore,
				AwayScore:  &awayScore,
			}
			if season == lastSeason {
				line := decimal.NewFromFloat(float64(total) - lineUnderBy)
				game.Total = &line
			}
			games = append(games, game)
		}
	}

	return NewDataset(models.SportBasketball, teams, games, snaps, 3)
}

func TestEvaluateSeasonPerfectModelSweepsTier(t *testing.T) {
	ds := syntheticDataset([]int{2022, 2023, 2024}, 30, 6.0)
	harness := NewHarness("fixture", testEngineConfig(), testScorer(t), Filters{}, nil)

	run, err := harness.EvaluateSeason(ds, models.MarketTotal, 2024)
	require.NoError(t, err)

	// The line sits 6 under the realized total, so every pick is an over and
	// every over wins. Edge 6 on the 8-point scale scores 0.5*0.75*conf,
	// landing every pick in the top tier.
	top := run.Record(models.TierTop)
	assert.Equal(t, 30, top.Wins)
	assert.Equal(t, 0, top.Losses)
	assert.Equal(t, 0, top.Pushes)
	assert.InDelta(t, 0.0, run.RMSE, 1e-6)
	assert.Greater(t, run.PicksPerWeek, 0.0)
}

func TestEvaluateSeasonExactLineLandsPush(t *testing.T) {
	ds := syntheticDataset([]int{2022, 2023, 2024}, 30, 0.0)
	harness := NewHarness("fixture", testEngineConfig(), testScorer(t), Filters{}, nil)

	run, err := harness.EvaluateSeason(ds, models.MarketTotal, 2024)
	require.NoError(t, err)

	// Prediction equals the line exactly: no direction, no picks at all.
	for _, tier := range models.Tiers() {
		assert.Equal(t, 0, run.Record(tier).Picks())
	}
}

func TestRunSkipsSeasonsWithoutTraining(t *testing.T) {
	ds := syntheticDataset([]int{2022, 2023, 2024}, 30, 6.0)
	harness := NewHarness("fixture", testEngineConfig(), testScorer(t), Filters{}, nil)

	// 2022 is the first season in the dataset; nothing earlier exists to
	// train on, so it is skipped rather than failed.
	runs, err := harness.Run(ds, models.MarketTotal, 2022, 2024)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2023, runs[0].Season)
	assert.Equal(t, 2024, runs[1].Season)
}

func TestLineCeilingFilter(t *testing.T) {
	ds := syntheticDataset([]int{2022, 2023, 2024}, 30, 6.0)
	harness := NewHarness("fixture", testEngineConfig(), testScorer(t),
		Filters{LineCeiling: 1.0}, nil)

	run, err := harness.EvaluateSeason(ds, models.MarketTotal, 2024)
	require.NoError(t, err)
	for _, tier := range models.Tiers() {
		assert.Equal(t, 0, run.Record(tier).Picks(), "every line is above the ceiling")
	}
}

func TestMinEdgeFilter(t *testing.T) {
	ds := syntheticDataset([]int{2022, 2023, 2024}, 30, 6.0)
	harness := NewHarness("fixture", testEngineConfig(), testScorer(t),
		Filters{MinEdge: 10.0}, nil)

	run, err := harness.EvaluateSeason(ds, models.MarketTotal, 2024)
	require.NoError(t, err)
	for _, tier := range models.Tiers() {
		assert.Equal(t, 0, run.Record(tier).Picks(), "edge of 6 is below the floor")
	}
}

func TestAggregate(t *testing.T) {
	runs := []*models.BacktestRun{
		{
			Sport: models.SportBasketball, Market: models.MarketTotal, Season: 2023,
			TierRecords:  map[models.ConfidenceTier]models.TierRecord{models.TierTop: {Wins: 10, Losses: 5}},
			PicksPerWeek: 2.0, RMSE: 8.0,
		},
		{
			Sport: models.SportBasketball, Market: models.MarketTotal, Season: 2024,
			TierRecords:  map[models.ConfidenceTier]models.TierRecord{models.TierTop: {Wins: 20, Losses: 5, Pushes: 1}},
			PicksPerWeek: 4.0, RMSE: 10.0,
		},
	}

	merged := Aggregate("agg", runs)
	top := merged.Record(models.TierTop)
	assert.Equal(t, 30, top.Wins)
	assert.Equal(t, 10, top.Losses)
	assert.Equal(t, 1, top.Pushes)
	assert.InDelta(t, 3.0, merged.PicksPerWeek, 1e-9)
	assert.InDelta(t, 9.0, merged.RMSE, 1e-9)
}

func TestSettleSpread(t *testing.T) {
	homeScore, awayScore := 80, 74
	game := &models.Game{HomeScore: &homeScore, AwayScore: &awayScore}

	tests := []struct {
		name    string
		side    models.Direction
		line    float64
		outcome outcome
	}{
		{"favorite covers", models.DirectionHome, -3.5, outcomeWin},
		{"favorite fails to cover", models.DirectionHome, -7.5, outcomeLoss},
		{"dog covers", models.DirectionAway, -7.5, outcomeWin},
		{"exact land", models.DirectionHome, -6.0, outcomePush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, settled := settle(game, models.MarketSpread, tt.side, tt.line)
			require.True(t, settled)
			assert.Equal(t, tt.outcome, got)
		})
	}
}

func TestSettleTotal(t *testing.T) {
	homeScore, awayScore := 70, 68
	game := &models.Game{HomeScore: &homeScore, AwayScore: &awayScore}

	got, settled := settle(game, models.MarketTotal, models.DirectionOver, 135.5)
	require.True(t, settled)
	assert.Equal(t, outcomeWin, got)

	got, settled = settle(game, models.MarketTotal, models.DirectionUnder, 140.5)
	require.True(t, settled)
	assert.Equal(t, outcomeWin, got)

	got, settled = settle(game, models.MarketTotal, models.DirectionOver, 138.0)
	require.True(t, settled)
	assert.Equal(t, outcomePush, got)
}

func TestSettleUnplayedGame(t *testing.T) {
	game := &models.Game{}
	_, settled := settle(game, models.MarketTotal, models.DirectionOver, 140.0)
	assert.False(t, settled)
}
