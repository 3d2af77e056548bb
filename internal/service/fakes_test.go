package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/datasource"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
)

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func decimalFrom(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// In-memory repositories backing service tests. They mirror the postgres
// implementations' contracts: appends are chronological, pick upserts key on
// the natural key, game creation rejects an existing matchup with
// ErrDuplicateKey.

type fakeTeamRepo struct {
	teams []*models.Team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	r.teams = append(r.teams, team)
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	for _, team := range r.teams {
		if team.ID == id {
			return team, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeTeamRepo) GetBySport(ctx context.Context, sport models.Sport) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		if team.Sport == sport {
			out = append(out, team)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) AddAlias(ctx context.Context, id uuid.UUID, alias string) error {
	team, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	team.AddAlias(alias)
	return nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	return nil
}

type fakeSnapshotRepo struct {
	snapshots []*models.RatingSnapshot
}

func (r *fakeSnapshotRepo) Insert(ctx context.Context, snapshot *models.RatingSnapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *fakeSnapshotRepo) InsertBatch(ctx context.Context, snapshots []*models.RatingSnapshot) error {
	r.snapshots = append(r.snapshots, snapshots...)
	return nil
}

func (r *fakeSnapshotRepo) GetByTeamID(ctx context.Context, teamID uuid.UUID, start, end time.Time) ([]*models.RatingSnapshot, error) {
	var out []*models.RatingSnapshot
	for _, s := range r.snapshots {
		if s.TeamID == teamID && !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) GetBySport(ctx context.Context, sport models.Sport) ([]*models.RatingSnapshot, error) {
	return r.snapshots, nil
}

type fakeGameRepo struct {
	games []*models.Game
}

func (r *fakeGameRepo) Create(ctx context.Context, game *models.Game) error {
	for _, g := range r.games {
		if g.Sport == game.Sport && g.Day().Equal(game.Day()) &&
			g.HomeTeamID == game.HomeTeamID && g.AwayTeamID == game.AwayTeamID {
			return models.ErrDuplicateKey
		}
	}
	r.games = append(r.games, game)
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	for _, g := range r.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeGameRepo) GetBySportSeasons(ctx context.Context, sport models.Sport, startSeason, endSeason int) ([]*models.Game, error) {
	var out []*models.Game
	for _, g := range r.games {
		if g.Sport == sport && g.Season >= startSeason && g.Season <= endSeason {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Game, error) {
	day := models.Day(date)
	var out []*models.Game
	for _, g := range r.games {
		if g.Sport == sport && g.Day().Equal(day) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) UpdateLines(ctx context.Context, id uuid.UUID, spread, total *float64) error {
	game, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if spread != nil {
		d := decimalFrom(*spread)
		game.Spread = d
	}
	if total != nil {
		d := decimalFrom(*total)
		game.Total = d
	}
	return nil
}

func (r *fakeGameRepo) UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	game, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	game.HomeScore = &homeScore
	game.AwayScore = &awayScore
	return nil
}

type fakePickRepo struct {
	store   map[string]*models.Pick
	upserts int
}

func (r *fakePickRepo) Upsert(ctx context.Context, pick *models.Pick) error {
	if r.store == nil {
		r.store = make(map[string]*models.Pick)
	}
	r.upserts++
	r.store[pick.NaturalKey()] = pick
	return nil
}

func (r *fakePickRepo) GetByDate(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Pick, error) {
	day := models.Day(date)
	var out []*models.Pick
	for _, pick := range r.store {
		if pick.Sport == sport && pick.Date.Equal(day) {
			out = append(out, pick)
		}
	}
	return out, nil
}

func (r *fakePickRepo) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, pick := range r.store {
		if pick.GameID == gameID {
			out = append(out, pick)
		}
	}
	return out, nil
}

type fakeBacktestRunRepo struct {
	runs []*models.BacktestRun
}

func (r *fakeBacktestRunRepo) Create(ctx context.Context, run *models.BacktestRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeBacktestRunRepo) GetByConfigName(ctx context.Context, configName string) ([]*models.BacktestRun, error) {
	var out []*models.BacktestRun
	for _, run := range r.runs {
		if run.ConfigName == configName {
			out = append(out, run)
		}
	}
	return out, nil
}

func (r *fakeBacktestRunRepo) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	if limit > len(r.runs) {
		limit = len(r.runs)
	}
	return r.runs[len(r.runs)-limit:], nil
}

type fakeMissRepo struct {
	misses []*models.ResolutionMiss
}

func (r *fakeMissRepo) Record(ctx context.Context, miss *models.ResolutionMiss) error {
	r.misses = append(r.misses, miss)
	return nil
}

func (r *fakeMissRepo) List(ctx context.Context, limit int) ([]*models.ResolutionMiss, error) {
	if limit > len(r.misses) {
		limit = len(r.misses)
	}
	return r.misses[:limit], nil
}

func newFakeRepos() *repository.Repositories {
	return &repository.Repositories{
		Team:           &fakeTeamRepo{},
		Snapshot:       &fakeSnapshotRepo{},
		Game:           &fakeGameRepo{},
		Pick:           &fakePickRepo{},
		BacktestRun:    &fakeBacktestRunRepo{},
		ResolutionMiss: &fakeMissRepo{},
	}
}

// Feed source fakes.

type fakeSnapshotSource struct {
	name     string
	payloads []datasource.SnapshotData
	err      error
}

func (s *fakeSnapshotSource) Name() string    { return s.name }
func (s *fakeSnapshotSource) IsEnabled() bool { return true }

func (s *fakeSnapshotSource) FetchSnapshots(ctx context.Context, date time.Time) ([]datasource.SnapshotData, error) {
	return s.payloads, s.err
}

type fakeGameSource struct {
	name   string
	games  []datasource.GameData
	lines  []datasource.LineData
	scores []datasource.ScoreData
}

func (s *fakeGameSource) Name() string    { return s.name }
func (s *fakeGameSource) IsEnabled() bool { return true }

func (s *fakeGameSource) FetchGames(ctx context.Context, startDate, endDate time.Time) ([]datasource.GameData, error) {
	return s.games, nil
}

func (s *fakeGameSource) FetchLines(ctx context.Context, date time.Time) ([]datasource.LineData, error) {
	return s.lines, nil
}

func (s *fakeGameSource) FetchScores(ctx context.Context, date time.Time) ([]datasource.ScoreData, error) {
	return s.scores, nil
}
