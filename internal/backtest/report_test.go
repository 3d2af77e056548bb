package backtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/models"
)

func reportRuns() []*models.BacktestRun {
	return []*models.BacktestRun{
		{
			ConfigName: "baseline", Sport: models.SportBasketball, Market: models.MarketTotal, Season: 2023,
			TierRecords: map[models.ConfidenceTier]models.TierRecord{
				models.TierTop: {Wins: 12, Losses: 6},
				models.TierLow: {Wins: 20, Losses: 19, Pushes: 2},
			},
			PicksPerWeek: 3.1, RMSE: 9.4,
		},
		{
			ConfigName: "baseline", Sport: models.SportBasketball, Market: models.MarketTotal, Season: 2024,
			TierRecords: map[models.ConfidenceTier]models.TierRecord{
				models.TierTop: {Wins: 14, Losses: 7},
			},
			PicksPerWeek: 2.8, RMSE: 9.9,
		},
	}
}

func TestGenerateConsoleReport(t *testing.T) {
	report := GenerateConsoleReport("baseline", reportRuns())

	assert.Contains(t, report, "Backtest Report: baseline")
	assert.Contains(t, report, "Season 2023 (basketball total)")
	assert.Contains(t, report, "Season 2024 (basketball total)")
	assert.Contains(t, report, "Aggregate over 2 seasons")
	// The empty mid tier is omitted rather than printed as 0-0-0.
	assert.NotContains(t, report, "mid ")
}

func TestGenerateSweepReport(t *testing.T) {
	results := []*CandidateResult{
		{
			Candidate: Candidate{
				Name:       "calibration[edge=4.0,tempo=0.0,line=0.0,t0]",
				Thresholds: config.TierThresholds{Top: 0.30, Mid: 0.20, Low: 0.10},
			},
			Runs:      reportRuns(),
			Aggregate: Aggregate("calibration", reportRuns()),
		},
	}

	report := GenerateSweepReport(results, 5)
	assert.Contains(t, report, "#1 calibration[edge=4.0,tempo=0.0,line=0.0,t0]")
	assert.Contains(t, report, "Thresholds: top=0.30 mid=0.20 low=0.10")

	empty := GenerateSweepReport(nil, 5)
	assert.Contains(t, empty, "No configuration satisfied")
}

func TestGenerateCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "backtest.csv")
	require.NoError(t, GenerateCSVExport(reportRuns(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")

	assert.Equal(t, "season,sport,market,tier,wins,losses,pushes,win_rate,picks_per_week,rmse", lines[0])
	// 2023 contributes top and low rows, 2024 only top: empty tiers never
	// produce a row.
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "2023,basketball,total,top,12,6,0")
}
