// Package service orchestrates feed ingestion and daily pick generation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/datasource"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
	"github.com/yourusername/pick-engine/internal/resolver"
)

// IngestionService pulls feed payloads, resolves raw team names against the
// catalog and writes the results through the repositories. It is the single
// writer for snapshots, games, lines and scores. A resolution miss skips the
// row and records it for alias curation; a malformed payload aborts the run.
type IngestionService struct {
	sources    []datasource.FeedSource
	repos      *repository.Repositories
	resolver   *resolver.Resolver
	validator  *DataValidator
	metrics    *IngestionMetrics
	logger     *logrus.Logger
	pickLogger *logger.PickLogger
	sport      models.Sport
	batchSize  int
}

// NewIngestionService creates the ingestion service. The resolver is built
// from the team catalog at construction; new aliases require a restart or a
// fresh service.
func NewIngestionService(
	ctx context.Context,
	sources []datasource.FeedSource,
	repos *repository.Repositories,
	sport models.Sport,
	batchSize int,
	log *logrus.Logger,
) (*IngestionService, error) {
	if log == nil {
		log = logrus.New()
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	teams, err := repos.Team.GetBySport(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to load team catalog: %w", err)
	}

	return &IngestionService{
		sources:    sources,
		repos:      repos,
		resolver:   resolver.New(teams),
		validator:  NewDataValidator(log),
		metrics:    &IngestionMetrics{},
		logger:     log,
		pickLogger: logger.NewPickLogger(log),
		sport:      sport,
		batchSize:  batchSize,
	}, nil
}

// Metrics returns the counters of the most recent run.
func (s *IngestionService) Metrics() IngestionMetrics {
	return s.metrics.Snapshot()
}

// CollectDailySnapshots fetches the day's rating snapshots from every enabled
// snapshot source and appends them to storage. Already-captured (team, date)
// rows are silently skipped by the repository.
func (s *IngestionService) CollectDailySnapshots(ctx context.Context, date time.Time) error {
	s.metrics.Reset()
	defer s.metrics.Finish()

	for _, src := range s.sources {
		snapshotSrc, ok := src.(datasource.SnapshotSource)
		if !ok || !src.IsEnabled() {
			continue
		}

		payloads, err := snapshotSrc.FetchSnapshots(ctx, date)
		if err != nil {
			s.metrics.addError()
			return fmt.Errorf("snapshot fetch from %s failed: %w", src.Name(), err)
		}

		batch := make([]*models.RatingSnapshot, 0, len(payloads))
		for _, payload := range payloads {
			if errs := s.validator.ValidateSnapshot(payload); len(errs) > 0 {
				s.metrics.addValidationError()
				return SchemaError(src.Name(), "snapshot", errs)
			}
			team := s.resolveTeam(payload.TeamName, src.Name())
			if team == nil {
				continue
			}
			batch = append(batch, &models.RatingSnapshot{
				TeamID:           team.ID,
				Date:             models.Day(payload.Date),
				EfficiencyMargin: payload.EfficiencyMargin,
				OffensiveEff:     payload.OffensiveEff,
				DefensiveEff:     payload.DefensiveEff,
				Tempo:            payload.Tempo,
				CapturedAt:       time.Now().UTC(),
			})

			if len(batch) >= s.batchSize {
				if err := s.repos.Snapshot.InsertBatch(ctx, batch); err != nil {
					s.metrics.addError()
					return fmt.Errorf("snapshot batch insert failed: %w", err)
				}
				s.metrics.addSnapshots(len(batch))
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			if err := s.repos.Snapshot.InsertBatch(ctx, batch); err != nil {
				s.metrics.addError()
				return fmt.Errorf("snapshot batch insert failed: %w", err)
			}
			s.metrics.addSnapshots(len(batch))
		}
	}

	if err := s.flushMisses(ctx); err != nil {
		return err
	}

	run := s.metrics.Snapshot()
	s.logger.WithFields(logrus.Fields{
		"date":      models.Day(date).Format("2006-01-02"),
		"snapshots": run.TotalSnapshots,
		"misses":    run.ResolutionMisses,
	}).Info("Daily snapshot collection complete")
	return nil
}

// IngestSchedule fetches scheduled games in the date range and creates any
// not yet known. Games already present for the same matchup and date count as
// duplicates and are left untouched.
func (s *IngestionService) IngestSchedule(ctx context.Context, startDate, endDate time.Time) error {
	s.metrics.Reset()
	defer s.metrics.Finish()

	for _, src := range s.sources {
		gameSrc, ok := src.(datasource.GameSource)
		if !ok || !src.IsEnabled() {
			continue
		}

		payloads, err := gameSrc.FetchGames(ctx, startDate, endDate)
		if err != nil {
			s.metrics.addError()
			return fmt.Errorf("game fetch from %s failed: %w", src.Name(), err)
		}

		for _, payload := range payloads {
			if errs := s.validator.ValidateGame(payload); len(errs) > 0 {
				s.metrics.addValidationError()
				return SchemaError(src.Name(), "game", errs)
			}
			home := s.resolveTeam(payload.HomeTeamName, src.Name())
			away := s.resolveTeam(payload.AwayTeamName, src.Name())
			if home == nil || away == nil {
				continue
			}

			existing, err := s.findGame(ctx, payload.Date, home.ID, away.ID)
			if err != nil {
				s.metrics.addError()
				return err
			}
			if existing != nil {
				s.metrics.addDuplicate()
				continue
			}

			game := &models.Game{
				ID:             uuid.New(),
				Sport:          s.sport,
				Season:         payload.Season,
				Date:           models.Day(payload.Date),
				HomeTeamID:     home.ID,
				AwayTeamID:     away.ID,
				ConferenceGame: payload.ConferenceGame,
				NeutralSite:    payload.NeutralSite,
				Tournament:     payload.Tournament,
				HomeRank:       payload.HomeRank,
				AwayRank:       payload.AwayRank,
				HomeRestDays:   payload.HomeRestDays,
				AwayRestDays:   payload.AwayRestDays,
				Weather:        payload.Weather,
			}
			if err := s.repos.Game.Create(ctx, game); err != nil {
				// A concurrent writer can land the matchup between the
				// duplicate pre-check and the insert.
				if errors.Is(err, models.ErrDuplicateKey) {
					s.metrics.addDuplicate()
					continue
				}
				s.metrics.addError()
				return fmt.Errorf("failed to create game: %w", err)
			}
			s.metrics.addGames(1)
		}
	}

	return s.flushMisses(ctx)
}

// CaptureLines fetches the current pre-game market lines for one day and
// freezes them onto the matching games.
func (s *IngestionService) CaptureLines(ctx context.Context, date time.Time) error {
	s.metrics.Reset()
	defer s.metrics.Finish()

	for _, src := range s.sources {
		gameSrc, ok := src.(datasource.GameSource)
		if !ok || !src.IsEnabled() {
			continue
		}

		payloads, err := gameSrc.FetchLines(ctx, date)
		if err != nil {
			s.metrics.addError()
			return fmt.Errorf("line fetch from %s failed: %w", src.Name(), err)
		}

		for _, payload := range payloads {
			if errs := s.validator.ValidateLine(payload); len(errs) > 0 {
				s.metrics.addValidationError()
				return SchemaError(src.Name(), "line", errs)
			}
			if err := s.applyLine(ctx, payload, src.Name()); err != nil {
				s.metrics.addError()
				return err
			}
		}
	}

	return s.flushMisses(ctx)
}

// PostScores fetches final scores for one day and settles the matching games.
func (s *IngestionService) PostScores(ctx context.Context, date time.Time) error {
	s.metrics.Reset()
	defer s.metrics.Finish()

	for _, src := range s.sources {
		gameSrc, ok := src.(datasource.GameSource)
		if !ok || !src.IsEnabled() {
			continue
		}

		payloads, err := gameSrc.FetchScores(ctx, date)
		if err != nil {
			s.metrics.addError()
			return fmt.Errorf("score fetch from %s failed: %w", src.Name(), err)
		}

		for _, payload := range payloads {
			if errs := s.validator.ValidateScore(payload); len(errs) > 0 {
				s.metrics.addValidationError()
				return SchemaError(src.Name(), "score", errs)
			}
			home := s.resolveTeam(payload.HomeTeamName, src.Name())
			away := s.resolveTeam(payload.AwayTeamName, src.Name())
			if home == nil || away == nil {
				continue
			}
			game, err := s.findGame(ctx, payload.Date, home.ID, away.ID)
			if err != nil {
				s.metrics.addError()
				return err
			}
			if game == nil {
				s.logger.WithFields(logrus.Fields{
					"home": payload.HomeTeamName,
					"away": payload.AwayTeamName,
					"date": models.Day(payload.Date).Format("2006-01-02"),
				}).Warn("Score for unknown game")
				continue
			}
			if err := s.repos.Game.UpdateScore(ctx, game.ID, payload.HomeScore, payload.AwayScore); err != nil {
				s.metrics.addError()
				return fmt.Errorf("failed to post score: %w", err)
			}
			s.metrics.addScores(1)
		}
	}

	return s.flushMisses(ctx)
}

// HandleLineUpdate applies a single streamed line update. It is registered as
// a line stream handler; failures are logged by the stream, not fatal.
func (s *IngestionService) HandleLineUpdate(line datasource.LineData) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.validator.ValidateLine(line); len(errs) > 0 {
		s.metrics.addValidationError()
		return SchemaError("line_stream", "line", errs)
	}
	return s.applyLine(ctx, line, "line_stream")
}

func (s *IngestionService) applyLine(ctx context.Context, line datasource.LineData, source string) error {
	home := s.resolveTeam(line.HomeTeamName, source)
	away := s.resolveTeam(line.AwayTeamName, source)
	if home == nil || away == nil {
		return nil
	}
	game, err := s.findGame(ctx, line.Date, home.ID, away.ID)
	if err != nil {
		return err
	}
	if game == nil {
		s.logger.WithFields(logrus.Fields{
			"home": line.HomeTeamName,
			"away": line.AwayTeamName,
			"date": models.Day(line.Date).Format("2006-01-02"),
		}).Warn("Line for unknown game")
		return nil
	}
	if err := s.repos.Game.UpdateLines(ctx, game.ID, line.Spread, line.Total); err != nil {
		return fmt.Errorf("failed to capture line: %w", err)
	}
	s.metrics.addLines(1)
	return nil
}

// resolveTeam maps a raw feed name to a canonical team, or nil on a miss.
func (s *IngestionService) resolveTeam(raw, source string) *models.Team {
	team, stripped, err := s.resolver.Resolve(raw, source)
	if err != nil {
		if errors.Is(err, models.ErrResolutionMiss) {
			s.metrics.addMiss()
			s.pickLogger.LogResolutionMiss(raw, stripped, source)
		}
		return nil
	}
	return team
}

// findGame locates the game for a matchup on a day, or nil when none exists.
func (s *IngestionService) findGame(ctx context.Context, date time.Time, homeID, awayID uuid.UUID) (*models.Game, error) {
	games, err := s.repos.Game.GetByDate(ctx, s.sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up games for %s: %w", models.Day(date).Format("2006-01-02"), err)
	}
	for _, game := range games {
		if game.HomeTeamID == homeID && game.AwayTeamID == awayID {
			return game, nil
		}
	}
	return nil, nil
}

// flushMisses persists the resolver's accumulated misses for curation.
func (s *IngestionService) flushMisses(ctx context.Context) error {
	for _, miss := range s.resolver.Misses() {
		m := miss
		if err := s.repos.ResolutionMiss.Record(ctx, &m); err != nil {
			return fmt.Errorf("failed to record resolution miss %q: %w", miss.RawName, err)
		}
	}
	return nil
}
