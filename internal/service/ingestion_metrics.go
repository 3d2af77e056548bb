package service

import (
	"sync"
	"time"
)

// IngestionMetrics tracks one ingestion run's counters. Counters reset at the
// start of each run.
type IngestionMetrics struct {
	mu sync.Mutex

	TotalSnapshots   int
	TotalGames       int
	LinesCaptured    int
	ScoresPosted     int
	ResolutionMisses int
	ValidationErrors int
	Duplicates       int
	Errors           int

	StartTime time.Time
	Duration  time.Duration
}

// Reset clears all counters and marks the run start.
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalSnapshots = 0
	m.TotalGames = 0
	m.LinesCaptured = 0
	m.ScoresPosted = 0
	m.ResolutionMisses = 0
	m.ValidationErrors = 0
	m.Duplicates = 0
	m.Errors = 0
	m.StartTime = time.Now()
	m.Duration = 0
}

// Finish records the run duration.
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

func (m *IngestionMetrics) addSnapshots(n int) {
	m.mu.Lock()
	m.TotalSnapshots += n
	m.mu.Unlock()
}

func (m *IngestionMetrics) addGames(n int) {
	m.mu.Lock()
	m.TotalGames += n
	m.mu.Unlock()
}

func (m *IngestionMetrics) addLines(n int) {
	m.mu.Lock()
	m.LinesCaptured += n
	m.mu.Unlock()
}

func (m *IngestionMetrics) addScores(n int) {
	m.mu.Lock()
	m.ScoresPosted += n
	m.mu.Unlock()
}

func (m *IngestionMetrics) addMiss() {
	m.mu.Lock()
	m.ResolutionMisses++
	m.mu.Unlock()
}

func (m *IngestionMetrics) addValidationError() {
	m.mu.Lock()
	m.ValidationErrors++
	m.mu.Unlock()
}

func (m *IngestionMetrics) addDuplicate() {
	m.mu.Lock()
	m.Duplicates++
	m.mu.Unlock()
}

func (m *IngestionMetrics) addError() {
	m.mu.Lock()
	m.Errors++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (m *IngestionMetrics) Snapshot() IngestionMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return IngestionMetrics{
		TotalSnapshots:   m.TotalSnapshots,
		TotalGames:       m.TotalGames,
		LinesCaptured:    m.LinesCaptured,
		ScoresPosted:     m.ScoresPosted,
		ResolutionMisses: m.ResolutionMisses,
		ValidationErrors: m.ValidationErrors,
		Duplicates:       m.Duplicates,
		Errors:           m.Errors,
		StartTime:        m.StartTime,
		Duration:         m.Duration,
	}
}
