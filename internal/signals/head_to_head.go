package signals

import (
	"fmt"

	"github.com/yourusername/pick-engine/internal/models"
)

// minMeetings is the smallest head-to-head sample the signal fires on.
const minMeetings = 2

// HeadToHeadGenerator leans with the historical pattern of prior meetings
// between the two teams.
type HeadToHeadGenerator struct{}

func (g *HeadToHeadGenerator) Category() models.SignalCategory {
	return models.CategoryHeadToHead
}

func (g *HeadToHeadGenerator) Generate(ctx Context) models.SignalResult {
	if len(ctx.HeadToHead) < minMeetings {
		return models.NeutralSignal(g.Category(), "too few prior meetings")
	}
	switch ctx.Market {
	case models.MarketSpread:
		return g.winnerLean(ctx)
	case models.MarketTotal:
		return g.scoringLean(ctx)
	default:
		return models.NeutralSignal(g.Category(), "unsupported market")
	}
}

func (g *HeadToHeadGenerator) winnerLean(ctx Context) models.SignalResult {
	homeWins, decided := 0, 0
	for _, meeting := range ctx.HeadToHead {
		margin, ok := meeting.HomeMargin()
		if !ok || margin == 0 {
			continue
		}
		winner := meeting.HomeTeamID
		if margin < 0 {
			winner = meeting.AwayTeamID
		}
		decided++
		if winner == ctx.Game.HomeTeamID {
			homeWins++
		}
	}
	if decided < minMeetings {
		return models.NeutralSignal(g.Category(), "too few decided meetings")
	}

	rate := float64(homeWins) / float64(decided)
	diff := rate - 0.5
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "split series")
	}
	direction := models.DirectionHome
	if diff < 0 {
		direction = models.DirectionAway
		diff = -diff
	}
	magnitude := diff / 0.5
	confidence := clamp01(float64(decided) / 6.0)
	rationale := fmt.Sprintf("series %d-%d over %d meetings", homeWins, decided-homeWins, decided)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}

func (g *HeadToHeadGenerator) scoringLean(ctx Context) models.SignalResult {
	if !ctx.HasLine {
		return models.NeutralSignal(g.Category(), "no market line captured")
	}
	sum, n := 0.0, 0
	for _, meeting := range ctx.HeadToHead {
		points, ok := meeting.TotalPoints()
		if !ok {
			continue
		}
		sum += points
		n++
	}
	if n < minMeetings {
		return models.NeutralSignal(g.Category(), "too few completed meetings")
	}

	avg := sum / float64(n)
	diff := avg - ctx.Line
	if diff == 0 {
		return models.NeutralSignal(g.Category(), "series scoring matches the line")
	}
	direction := models.DirectionOver
	if diff < 0 {
		direction = models.DirectionUnder
		diff = -diff
	}
	magnitude := diff / 12.0
	confidence := clamp01(float64(n) / 6.0)
	rationale := fmt.Sprintf("series average %.1f vs line %.1f", avg, ctx.Line)
	return models.NewSignalResult(g.Category(), direction, magnitude, confidence, rationale)
}
