package regression

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/pit"
)

type fixture struct {
	games     *pit.GameIndex
	snapshots *pit.SnapshotIndex
	eval      []*models.Game
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildFixture generates seasons of games whose combined score is exactly
// sumOff - sumDef + avgTempo over the day-before snapshots, so a zero-lambda
// fit reproduces the totals.
func buildFixture(t *testing.T, seasons []int, gamesPerSeason int) *fixture {
	t.Helper()

	teams := make([]uuid.UUID, 4)
	for i := range teams {
		teams[i] = uuid.New()
	}

	var games []*models.Game
	var snaps []*models.RatingSnapshot
	var eval []*models.Game

	for si, season := range seasons {
		for g := 0; g < gamesPerSeason; g++ {
			home := teams[g%len(teams)]
			away := teams[(g+1)%len(teams)]
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
			games = append(games, game)
			if season == seasons[len(seasons)-1] {
				eval = append(eval, game)
			}
		}
	}

	return &fixture{
		games:     pit.NewGameIndex(games),
		snapshots: pit.NewSnapshotIndex(snaps, 3),
		eval:      eval,
	}
}

func TestFitSeasonRecoversLinearTotals(t *testing.T) {
	fx := buildFixture(t, []int{2022, 2023, 2024}, 30)
	trainer := &Trainer{Lambda: 0, MinTrainingGames: 20}

	coeffs, err := trainer.FitSeason(models.SportBasketball, models.MarketTotal, 2024, fx.games, fx.snapshots)
	require.NoError(t, err)
	assert.Equal(t, 60, coeffs.TrainingGames)
	assert.Equal(t, []string{
		FeatureIntercept, FeatureSumDefEff, FeatureSumOffEff, FeatureAvgTempo,
	}, coeffs.Features)

	for _, game := range fx.eval {
		prediction, err := trainer.Predict(coeffs, game, fx.snapshots)
		require.NoError(t, err)
		total, ok := game.TotalPoints()
		require.True(t, ok)
		assert.InDelta(t, total, prediction, 1e-6)
	}
}

func TestFitSeasonInsufficientData(t *testing.T) {
	fx := buildFixture(t, []int{2023, 2024}, 10)
	trainer := &Trainer{Lambda: 0, MinTrainingGames: 50}

	_, err := trainer.FitSeason(models.SportBasketball, models.MarketTotal, 2024, fx.games, fx.snapshots)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientTrainingData))
}

func TestFitSeasonFirstSeasonHasNoTraining(t *testing.T) {
	fx := buildFixture(t, []int{2023}, 30)
	trainer := &Trainer{Lambda: 0, MinTrainingGames: 1}

	_, err := trainer.FitSeason(models.SportBasketball, models.MarketTotal, 2023, fx.games, fx.snapshots)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientTrainingData))
}

func TestPredictWithoutSnapshot(t *testing.T) {
	fx := buildFixture(t, []int{2022, 2023}, 30)
	trainer := &Trainer{Lambda: 0, MinTrainingGames: 10}

	coeffs, err := trainer.FitSeason(models.SportBasketball, models.MarketTotal, 2023, fx.games, fx.snapshots)
	require.NoError(t, err)

	orphan := &models.Game{
		ID:         uuid.New(),
		Sport:      models.SportBasketball,
		Season:     2023,
		Date:       day(2023, 1, 15),
		HomeTeamID: uuid.New(),
		AwayTeamID: uuid.New(),
	}
	_, err = trainer.Predict(coeffs, orphan, fx.snapshots)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSnapshotUnavailable))
}

func TestEdgeDirections(t *testing.T) {
	tests := []struct {
		name       string
		prediction float64
		line       float64
		market     models.Market
		direction  models.Direction
		magnitude  float64
	}{
		{"total over", 150, 144.5, models.MarketTotal, models.DirectionOver, 5.5},
		{"total under", 140, 144.5, models.MarketTotal, models.DirectionUnder, 4.5},
		{"total push", 144.5, 144.5, models.MarketTotal, models.DirectionNeutral, 0},
		{"home covers", 5, -2.5, models.MarketSpread, models.DirectionHome, 2.5},
		{"away covers", 1, -2.5, models.MarketSpread, models.DirectionAway, 1.5},
		{"spread exact", 2.5, -2.5, models.MarketSpread, models.DirectionNeutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, magnitude := Edge(tt.prediction, tt.line, tt.market)
			assert.Equal(t, tt.direction, direction)
			assert.InDelta(t, tt.magnitude, magnitude, 1e-9)
		})
	}
}
