package backtest

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/scoring"
)

// Candidate is one point in the sweep space: a filter combination plus a
// tier threshold set.
type Candidate struct {
	Name       string
	Filters    Filters
	Thresholds config.TierThresholds
}

// CandidateResult is a fully evaluated candidate with its per-season runs
// and cross-season aggregate.
type CandidateResult struct {
	Candidate        Candidate
	Runs             []*models.BacktestRun
	Aggregate        *models.BacktestRun
	MonotonicSeasons int
	Accepted         bool
}

// TopTierWinRate is the primary ranking key.
func (r *CandidateResult) TopTierWinRate() float64 {
	return r.Aggregate.Record(models.TierTop).WinRate()
}

// Acceptance holds the constraints a configuration must satisfy before it is
// eligible for ranking.
type Acceptance struct {
	MinTierSamples    int
	PicksPerWeekMin   float64
	PicksPerWeekMax   float64
	MinTopTierWinRate float64
}

// AcceptanceFromConfig lifts the acceptance constraints out of the backtest
// configuration.
func AcceptanceFromConfig(cfg config.BacktestConfig) Acceptance {
	return Acceptance{
		MinTierSamples:    cfg.MinTierSamples,
		PicksPerWeekMin:   cfg.PicksPerWeekMin,
		PicksPerWeekMax:   cfg.PicksPerWeekMax,
		MinTopTierWinRate: cfg.MinTopTierWinRate,
	}
}

// Accepts applies the constraints to a candidate's runs: enough samples in
// every pick-eligible tier, pick volume inside the band, non-decreasing win
// rates across tiers in aggregate, and a floor on the top tier's win rate.
func (a Acceptance) Accepts(result *CandidateResult) bool {
	if len(result.Runs) == 0 {
		return false
	}
	aggregate := result.Aggregate
	for _, tier := range models.Tiers() {
		if aggregate.Record(tier).Picks() < a.MinTierSamples {
			return false
		}
	}
	if aggregate.PicksPerWeek < a.PicksPerWeekMin || aggregate.PicksPerWeek > a.PicksPerWeekMax {
		return false
	}
	if !aggregate.Monotonic() {
		return false
	}
	return aggregate.Record(models.TierTop).WinRate() >= a.MinTopTierWinRate
}

// Sweeper enumerates and evaluates the candidate space over one shared
// dataset.
type Sweeper struct {
	cfg       *config.Config
	market    models.Market
	dataset   *Dataset
	logger    *logrus.Logger
	workerCap int
}

// NewSweeper creates a sweeper. Candidates are independent, so evaluation
// fans out across workers sharing the immutable dataset.
func NewSweeper(cfg *config.Config, market models.Market, ds *Dataset, logger *logrus.Logger) *Sweeper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Sweeper{
		cfg:       cfg,
		market:    market,
		dataset:   ds,
		logger:    logger,
		workerCap: runtime.GOMAXPROCS(0),
	}
}

// Candidates expands the configured sweep space into the full cross product.
// Empty dimensions collapse to a single disabled entry so a sweep can vary
// one axis at a time.
func (s *Sweeper) Candidates() []Candidate {
	sweep := s.cfg.Sweep
	minEdges := sweep.MinEdges
	if len(minEdges) == 0 {
		minEdges = []float64{0}
	}
	tempoCeilings := sweep.TempoCeilings
	if len(tempoCeilings) == 0 {
		tempoCeilings = []float64{0}
	}
	lineCeilings := sweep.LineCeilings
	if len(lineCeilings) == 0 {
		lineCeilings = []float64{0}
	}

	var candidates []Candidate
	for _, minEdge := range minEdges {
		for _, tempoCeiling := range tempoCeilings {
			for _, lineCeiling := range lineCeilings {
				for i, thresholds := range sweep.ThresholdSets {
					filters := Filters{MinEdge: minEdge, TempoCeiling: tempoCeiling, LineCeiling: lineCeiling}
					candidates = append(candidates, Candidate{
						Name:       fmt.Sprintf("%s[%s,t%d]", sweep.Name, filters, i),
						Filters:    filters,
						Thresholds: thresholds,
					})
				}
			}
		}
	}
	return candidates
}

// Run evaluates every candidate and returns the accepted ones ranked by
// top-tier win rate, ties broken by the number of seasons in which tier
// monotonicity held.
func (s *Sweeper) Run() ([]*CandidateResult, error) {
	marketScoring, err := s.cfg.MarketScoringFor(string(s.dataset.Sport), string(s.market))
	if err != nil {
		return nil, err
	}
	baseScorer, err := scoring.New(s.dataset.Sport, s.market, marketScoring, s.cfg.Scoring.DefaultWeight)
	if err != nil {
		return nil, err
	}

	candidates := s.Candidates()
	acceptance := AcceptanceFromConfig(s.cfg.Backtest)
	results := make([]*CandidateResult, len(candidates))
	errs := make([]error, len(candidates))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workerCap; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = s.evaluate(candidates[i], baseScorer, acceptance)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var accepted []*CandidateResult
	for i, result := range results {
		if errs[i] != nil {
			return nil, fmt.Errorf("candidate %s: %w", candidates[i].Name, errs[i])
		}
		metrics.SweepConfigsEvaluatedTotal.Inc()
		if result.Accepted {
			accepted = append(accepted, result)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].TopTierWinRate() != accepted[j].TopTierWinRate() {
			return accepted[i].TopTierWinRate() > accepted[j].TopTierWinRate()
		}
		return accepted[i].MonotonicSeasons > accepted[j].MonotonicSeasons
	})

	s.logger.WithFields(logrus.Fields{
		"evaluated": len(candidates),
		"accepted":  len(accepted),
	}).Info("Sweep complete")
	return accepted, nil
}

func (s *Sweeper) evaluate(candidate Candidate, baseScorer *scoring.Scorer, acceptance Acceptance) (*CandidateResult, error) {
	scorer := baseScorer.WithThresholds(candidate.Thresholds)
	harness := NewHarness(candidate.Name, s.cfg.Engine, scorer, candidate.Filters, s.logger)

	runs, err := harness.Run(s.dataset, s.market, s.cfg.Backtest.StartSeason, s.cfg.Backtest.EndSeason)
	if err != nil {
		return nil, err
	}

	result := &CandidateResult{
		Candidate: candidate,
		Runs:      runs,
		Aggregate: Aggregate(candidate.Name, runs),
	}
	for _, run := range runs {
		if run.Monotonic() {
			result.MonotonicSeasons++
		}
	}
	result.Accepted = acceptance.Accepts(result)
	return result, nil
}
