package signals

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/pick-engine/internal/models"
)

// minRecordGames is the smallest per-team sample an against-the-line record
// signal will fire on.
const minRecordGames = 5

// ATSRecordGenerator leans toward the team with the better season
// against-the-spread record, or toward over/under from the teams' combined
// season over rate.
type ATSRecordGenerator struct{}

func (g *ATSRecordGenerator) Category() models.SignalCategory {
	return models.CategoryATSRecord
}

func (g *ATSRecordGenerator) Generate(ctx Context) models.SignalResult {
	switch ctx.Market {
	case models.MarketSpread:
		return g.spreadLean(ctx)
	case models.MarketTotal:
		return g.totalLean(ctx)
	default:
		return models.NeutralSignal(g.Category(), "unsupported market")
	}
}

func (g *ATSRecordGenerator) spreadLean(ctx Context) models.SignalResult {
	homeRate, homeN := atsRate(ctx.HomeGames, ctx.Game.HomeTeamID)
	awayRate, awayN := atsRate(ctx.AwayGames, ctx.Game.AwayTeamID)
	if homeN < minRecordGames || awayN < minRecordGames {
		return models.NeutralSignal(g.Category(), "insufficient season sample")
	}

	diff := homeRate - awayRate
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "even cover rates")
	}
	direction := models.DirectionHome
	if diff < 0 {
		direction = models.DirectionAway
		diff = -diff
	}

	sample := homeN
	if awayN < sample {
		sample = awayN
	}
	magnitude := diff / 0.5
	confidence := clamp01(float64(sample) / 15.0)
	rationale := fmt.Sprintf("cover rates %.0f%% vs %.0f%%", homeRate*100, awayRate*100)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

func (g *ATSRecordGenerator) totalLean(ctx Context) models.SignalResult {
	overs, unders := 0, 0
	for _, game := range append(append([]*models.Game{}, ctx.HomeGames...), ctx.AwayGames...) {
		over, push, ok := overResult(game)
		if !ok || push {
			continue
		}
		if over {
			overs++
		} else {
			unders++
		}
	}
	decided := overs + unders
	if decided < 2*minRecordGames {
		return models.NeutralSignal(g.Category(), "insufficient season sample")
	}

	overRate := float64(overs) / float64(decided)
	diff := overRate - 0.5
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "even over rate")
	}
	direction := models.DirectionOver
	if diff < 0 {
		direction = models.DirectionUnder
		diff = -diff
	}
	magnitude := diff / 0.25
	confidence := clamp01(float64(decided) / 30.0)
	rationale := fmt.Sprintf("combined over rate %.0f%% across %d games", overRate*100, decided)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

// atsRate returns a team's season cover rate and the number of decided
// (non-push) games behind it.
func atsRate(games []*models.Game, teamID uuid.UUID) (float64, int) {
	covers, decided := 0, 0
	for _, game := range games {
		result, ok := coverResult(game, teamID)
		if !ok || result == atsPush {
			continue
		}
		decided++
		if result == atsCover {
			covers++
		}
	}
	if decided == 0 {
		return 0, 0
	}
	return float64(covers) / float64(decided), decided
}
