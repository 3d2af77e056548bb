package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/pick-engine/internal/models"
)

// GenerateConsoleReport formats per-season and aggregate backtest results
// for terminal output.
func GenerateConsoleReport(configName string, runs []*models.BacktestRun) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Backtest Report: %s\n", configName))
	builder.WriteString("==================================\n")

	for _, run := range runs {
		builder.WriteString(fmt.Sprintf("\nSeason %d (%s %s)\n", run.Season, run.Sport, run.Market))
		writeTierLines(&builder, run)
		builder.WriteString(fmt.Sprintf("  Picks/week: %.2f  RMSE: %.3f  Monotonic: %v\n",
			run.PicksPerWeek, run.RMSE, run.Monotonic()))
	}

	aggregate := Aggregate(configName, runs)
	builder.WriteString(fmt.Sprintf("\nAggregate over %d seasons\n", len(runs)))
	writeTierLines(&builder, aggregate)
	builder.WriteString(fmt.Sprintf("  Picks/week: %.2f  RMSE: %.3f  Monotonic: %v\n",
		aggregate.PicksPerWeek, aggregate.RMSE, aggregate.Monotonic()))

	return builder.String()
}

// GenerateSweepReport formats the ranked accepted candidates, top N first.
func GenerateSweepReport(results []*CandidateResult, topN int) string {
	var builder strings.Builder
	builder.WriteString("Tier Sweep Report\n")
	builder.WriteString("==================================\n")
	if len(results) == 0 {
		builder.WriteString("No configuration satisfied the acceptance constraints.\n")
		return builder.String()
	}
	if topN <= 0 || topN > len(results) {
		topN = len(results)
	}

	for i := 0; i < topN; i++ {
		result := results[i]
		top := result.Aggregate.Record(models.TierTop)
		builder.WriteString(fmt.Sprintf("\n#%d %s\n", i+1, result.Candidate.Name))
		builder.WriteString(fmt.Sprintf("  Top-tier win rate: %.1f%% (%d-%d-%d)\n",
			top.WinRate()*100, top.Wins, top.Losses, top.Pushes))
		builder.WriteString(fmt.Sprintf("  Monotonic seasons: %d/%d  Picks/week: %.2f\n",
			result.MonotonicSeasons, len(result.Runs), result.Aggregate.PicksPerWeek))
		builder.WriteString(fmt.Sprintf("  Thresholds: top=%.2f mid=%.2f low=%.2f\n",
			result.Candidate.Thresholds.Top, result.Candidate.Thresholds.Mid, result.Candidate.Thresholds.Low))
	}
	return builder.String()
}

// GenerateCSVExport writes per-season results for spreadsheets.
func GenerateCSVExport(runs []*models.BacktestRun, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("season,sport,market,tier,wins,losses,pushes,win_rate,picks_per_week,rmse\n")
	for _, run := range runs {
		for _, tier := range models.Tiers() {
			record := run.Record(tier)
			if record.Picks() == 0 {
				continue
			}
			builder.WriteString(fmt.Sprintf("%d,%s,%s,%s,%d,%d,%d,%.4f,%.2f,%.4f\n",
				run.Season, run.Sport, run.Market, tier,
				record.Wins, record.Losses, record.Pushes, record.WinRate(),
				run.PicksPerWeek, run.RMSE))
		}
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

func writeTierLines(builder *strings.Builder, run *models.BacktestRun) {
	for _, tier := range models.Tiers() {
		record := run.Record(tier)
		if record.Picks() == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %-4s %3d-%3d-%2d  %.1f%%\n",
			tier, record.Wins, record.Losses, record.Pushes, record.WinRate()*100))
	}
}
