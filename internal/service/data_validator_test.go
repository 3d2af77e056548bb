package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-engine/internal/datasource"
	"github.com/yourusername/pick-engine/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func validSnapshot() datasource.SnapshotData {
	return datasource.SnapshotData{
		TeamName:     "Duke",
		Sport:        models.SportBasketball,
		Date:         time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		OffensiveEff: 118.2,
		DefensiveEff: 94.1,
		Tempo:        68.5,
	}
}

func TestValidateSnapshot(t *testing.T) {
	v := NewDataValidator(nil)

	assert.Empty(t, v.ValidateSnapshot(validSnapshot()))

	missing := validSnapshot()
	missing.TeamName = ""
	missing.Tempo = 0
	errs := v.ValidateSnapshot(missing)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "team_name")
	assert.Contains(t, errs[1], "tempo")

	bad := validSnapshot()
	bad.Sport = models.Sport("cricket")
	assert.NotEmpty(t, v.ValidateSnapshot(bad))
}

func TestValidateGame(t *testing.T) {
	v := NewDataValidator(nil)

	game := datasource.GameData{
		Sport:        models.SportBasketball,
		Season:       2024,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamName: "Duke",
		AwayTeamName: "North Carolina",
	}
	assert.Empty(t, v.ValidateGame(game))

	game.AwayTeamName = "Duke"
	errs := v.ValidateGame(game)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must differ")

	game.AwayTeamName = "North Carolina"
	game.Season = 1850
	errs = v.ValidateGame(game)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "season")
}

func TestValidateLine(t *testing.T) {
	v := NewDataValidator(nil)

	line := datasource.LineData{
		Sport:        models.SportBasketball,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamName: "Duke",
		AwayTeamName: "North Carolina",
		Total:        floatPtr(148.5),
	}
	assert.Empty(t, v.ValidateLine(line))

	// Spread-only is also a complete update.
	line.Total = nil
	line.Spread = floatPtr(-3.5)
	assert.Empty(t, v.ValidateLine(line))

	line.Spread = nil
	errs := v.ValidateLine(line)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "spread or a total")

	line.Total = floatPtr(-10)
	errs = v.ValidateLine(line)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "positive")
}

func TestValidateScore(t *testing.T) {
	v := NewDataValidator(nil)

	score := datasource.ScoreData{
		Sport:        models.SportBasketball,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamName: "Duke",
		AwayTeamName: "North Carolina",
		HomeScore:    78,
		AwayScore:    74,
	}
	assert.Empty(t, v.ValidateScore(score))

	score.HomeScore = -1
	assert.NotEmpty(t, v.ValidateScore(score))

	score.HomeScore = 78
	score.AwayTeamName = ""
	assert.NotEmpty(t, v.ValidateScore(score))
}

func TestSchemaError(t *testing.T) {
	err := SchemaError("ratings-feed", "snapshot", []string{"team_name is required"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed snapshot payload from ratings-feed")
	assert.Contains(t, err.Error(), "team_name is required")
}
