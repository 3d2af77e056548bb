// Package logger provides pick-lifecycle logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PickLogger provides dedicated logging for pick generation and backtesting.
type PickLogger struct {
	*logrus.Entry
}

// NewPickLogger creates a new pick logger.
func NewPickLogger(baseLogger *logrus.Logger) *PickLogger {
	return &PickLogger{
		Entry: baseLogger.WithField("component", "picks"),
	}
}

// LogPickGenerated logs a generated pick.
func (pl *PickLogger) LogPickGenerated(pickID, gameID, sport, market, side, tier string, score float64, signalCount int) {
	pl.WithFields(logrus.Fields{
		"pick_id":      pickID,
		"game_id":      gameID,
		"sport":        sport,
		"market":       market,
		"side":         side,
		"tier":         tier,
		"score":        score,
		"signal_count": signalCount,
	}).Info("Pick generated")
}

// LogGameSkipped logs a game excluded from pick generation.
func (pl *PickLogger) LogGameSkipped(gameID, sport, market, reason string) {
	pl.WithFields(logrus.Fields{
		"game_id": gameID,
		"sport":   sport,
		"market":  market,
		"reason":  reason,
	}).Debug("Game skipped")
}

// LogSeasonEvaluated logs one walk-forward season result.
func (pl *PickLogger) LogSeasonEvaluated(configName, sport, market string, season, picks int, topTierWinRate, rmse float64) {
	pl.WithFields(logrus.Fields{
		"config":            configName,
		"sport":             sport,
		"market":            market,
		"season":            season,
		"picks":             picks,
		"top_tier_win_rate": topTierWinRate,
		"rmse":              rmse,
	}).Info("Season evaluated")
}

// LogResolutionMiss logs a team name that could not be resolved.
func (pl *PickLogger) LogResolutionMiss(rawName, strippedName, source string) {
	pl.WithFields(logrus.Fields{
		"raw_name":      rawName,
		"stripped_name": strippedName,
		"source":        source,
	}).Warn("Team name resolution miss")
}
