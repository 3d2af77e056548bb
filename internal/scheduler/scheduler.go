// Package scheduler drives the daily ingestion cadence: one snapshot
// collection per day, line polling through game days and score posting after.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/service"
)

// Scheduler manages the recurring ingestion and pick generation jobs.
type Scheduler struct {
	cron            *cron.Cron
	ingestionSvc    *service.IngestionService
	pickGen         *service.PickGenerator
	sport           models.Sport
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler. All jobs run in UTC; snapshot capture
// dates must not drift with the host timezone.
func NewScheduler(ingestionSvc *service.IngestionService, pickGen *service.PickGenerator, sport models.Sport, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:    ingestionSvc,
		pickGen:         pickGen,
		sport:           sport,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleDailyCollection schedules the daily snapshot capture, schedule
// refresh and pick generation at the given cron expression. The snapshot run
// comes first: picks for the day depend on it.
func (s *Scheduler) ScheduleDailyCollection(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
		defer cancel()

		today := models.Day(time.Now())
		s.logger.WithField("date", today.Format("2006-01-02")).Info("Starting daily collection")

		if err := s.ingestionSvc.CollectDailySnapshots(ctx, today); err != nil {
			s.logger.WithError(err).Error("Daily snapshot collection failed")
			return
		}
		if err := s.ingestionSvc.IngestSchedule(ctx, today, today.AddDate(0, 0, 7)); err != nil {
			s.logger.WithError(err).Error("Schedule ingestion failed")
			return
		}
		if err := s.ingestionSvc.CaptureLines(ctx, today); err != nil {
			s.logger.WithError(err).Error("Line capture failed")
			return
		}
		if err := s.ingestionSvc.PostScores(ctx, today.AddDate(0, 0, -1)); err != nil {
			s.logger.WithError(err).Error("Score posting failed")
			return
		}
		if _, err := s.pickGen.GenerateForDate(ctx, s.sport, today); err != nil {
			s.logger.WithError(err).Error("Pick generation failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add daily collection job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled daily collection")
	return nil
}

// ScheduleLinePolling schedules the line capture poll. On game days the
// stream is the primary path; this poll backstops it.
func (s *Scheduler) ScheduleLinePolling(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if err := s.ingestionSvc.CaptureLines(ctx, models.Day(time.Now())); err != nil {
			s.logger.WithError(err).Error("Line polling failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add line polling job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled line polling")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
