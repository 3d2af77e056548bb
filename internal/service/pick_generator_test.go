package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
)

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		name  string
		sport models.Sport
		date  time.Time
		want  int
	}{
		{"basketball november opener", models.SportBasketball, time.Date(2023, 11, 6, 0, 0, 0, 0, time.UTC), 2024},
		{"basketball december", models.SportBasketball, time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), 2024},
		{"basketball january", models.SportBasketball, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 2024},
		{"basketball march", models.SportBasketball, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 2024},
		{"football september", models.SportFootball, time.Date(2023, 9, 2, 0, 0, 0, 0, time.UTC), 2023},
		{"football december", models.SportFootball, time.Date(2023, 12, 9, 0, 0, 0, 0, time.UTC), 2023},
		{"football january bowl", models.SportFootball, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 2023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonFor(tt.sport, tt.date))
		})
	}
}

func TestSeasonForIgnoresTimeOfDay(t *testing.T) {
	evening := time.Date(2023, 11, 6, 22, 30, 0, 0, time.UTC)
	midnight := time.Date(2023, 11, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, SeasonFor(models.SportBasketball, midnight), SeasonFor(models.SportBasketball, evening))
}

func generatorConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			SnapshotWindowDays: 3,
			Lambda:             0,
			MinTrainingGames:   20,
		},
		Scoring: config.ScoringConfig{
			DefaultWeight: 0,
			Sports: map[string]map[string]config.MarketScoring{
				"basketball": {
					"total": {
						Weights: map[string]float64{
							"model_edge": 0.5,
							"matchup":    0.0,
							"divergence": 0.0,
						},
						Thresholds: config.TierThresholds{Top: 0.20, Mid: 0.10, Low: 0.05},
					},
				},
			},
		},
	}
}

// seedTrainingSeasons writes completed seasons whose combined score is
// exactly sumOff - sumDef + avgTempo over the day-before snapshots, so a
// zero-lambda fit reproduces the totals.
func seedTrainingSeasons(games *fakeGameRepo, snaps *fakeSnapshotRepo, teams []*models.Team, seasons []int, perSeason int) {
	for si, season := range seasons {
		for g := 0; g < perSeason; g++ {
			home := teams[g%len(teams)].ID
			away := teams[(g+1)%len(teams)].ID
			date := time.Date(season-1, time.November, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, g*2)

			homeOff := 100.0 + float64((g+si)%12)
			awayOff := 104.0 + float64(g%9)
			homeDef := 90.0 + float64(g%7)
			awayDef := 93.0 + float64((g+si)%5)
			homeTempo := 64.0 + float64(g%6)*2
			awayTempo := 66.0 + float64(g%4)*2

			snaps.snapshots = append(snaps.snapshots,
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
			games.games = append(games.games, &models.Game{
				ID:         uuid.New(),
				Sport:      models.SportBasketball,
				Season:     season,
				Date:       date,
				HomeTeamID: home,
				AwayTeamID: away,
				HomeScore:  &homeScore,
				AwayScore:  &awayScore,
			})
		}
	}
}

// seedSlateGame adds an upcoming game with day-before snapshots and a total
// line sitting a fixed amount under the model projection.
func seedSlateGame(games *fakeGameRepo, snaps *fakeSnapshotRepo, home, away *models.Team, day time.Time, homeOff, homeDef, homeTempo, awayOff, awayDef, awayTempo, lineUnderBy float64) *models.Game {
	snaps.snapshots = append(snaps.snapshots,
		&models.RatingSnapshot{
			TeamID: home.ID, Date: day.AddDate(0, 0, -1),
			OffensiveEff: homeOff, DefensiveEff: homeDef, Tempo: homeTempo,
		},
		&models.RatingSnapshot{
			TeamID: away.ID, Date: day.AddDate(0, 0, -1),
			OffensiveEff: awayOff, DefensiveEff: awayDef, Tempo: awayTempo,
		},
	)

	projected := (homeOff + awayOff) - (homeDef + awayDef) + (homeTempo+awayTempo)/2
	game := &models.Game{
		ID:         uuid.New(),
		Sport:      models.SportBasketball,
		Season:     2024,
		Date:       day,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Total:      decimalFrom(projected - lineUnderBy),
	}
	games.games = append(games.games, game)
	return game
}

func TestGenerateForDateIdempotent(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	gameRepo := &fakeGameRepo{}
	snapRepo := &fakeSnapshotRepo{}
	pickRepo := &fakePickRepo{}
	repos := &repository.Repositories{
		Team:           teamRepo,
		Snapshot:       snapRepo,
		Game:           gameRepo,
		Pick:           pickRepo,
		BacktestRun:    &fakeBacktestRunRepo{},
		ResolutionMiss: &fakeMissRepo{},
	}

	teams := make([]*models.Team, 4)
	for i := range teams {
		teams[i] = &models.Team{ID: uuid.New(), Name: fmt.Sprintf("Team %d", i), Sport: models.SportBasketball}
		teamRepo.teams = append(teamRepo.teams, teams[i])
	}
	seedTrainingSeasons(gameRepo, snapRepo, teams, []int{2022, 2023}, 30)

	slateDay := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	seedSlateGame(gameRepo, snapRepo, teams[0], teams[1], slateDay, 110, 92, 66, 106, 95, 68, 6.0)
	seedSlateGame(gameRepo, snapRepo, teams[2], teams[3], slateDay, 120, 90, 70, 114, 96, 72, 6.0)

	gen := NewPickGenerator(generatorConfig(), repos, discardLogger())
	ctx := context.Background()

	first, err := gen.GenerateForDate(ctx, models.SportBasketball, slateDay)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := gen.GenerateForDate(ctx, models.SportBasketball, slateDay)
	require.NoError(t, err)
	require.Len(t, second, 2)

	byID := func(picks []*models.Pick) {
		sort.Slice(picks, func(i, j int) bool { return picks[i].ID.String() < picks[j].ID.String() })
	}
	byID(first)
	byID(second)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "regeneration must reuse the natural-key ID")
		assert.Equal(t, first[i].GameID, second[i].GameID)
		assert.Equal(t, first[i].Side, second[i].Side)
		assert.Equal(t, first[i].Tier, second[i].Tier)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-9)

		assert.Equal(t, models.DirectionOver, first[i].Side)
		assert.Equal(t, models.TierTop, first[i].Tier)
	}

	// Two generations, four upserts, still one stored pick per natural key.
	assert.Equal(t, 4, pickRepo.upserts)
	assert.Len(t, pickRepo.store, 2)
}

func TestGenerateForDateEmptySlate(t *testing.T) {
	repos := newFakeRepos()
	gen := NewPickGenerator(generatorConfig(), repos, discardLogger())

	picks, err := gen.GenerateForDate(context.Background(), models.SportBasketball, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestGenerateForDateRejectsUnknownSport(t *testing.T) {
	gen := NewPickGenerator(generatorConfig(), newFakeRepos(), discardLogger())

	_, err := gen.GenerateForDate(context.Background(), models.Sport("cricket"), time.Now())
	assert.Error(t, err)
}
