package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConfidenceTier is the ordinal confidence level of a Pick. Tier thresholds
// are calibrated by the sweep harness, never hand-tuned.
type ConfidenceTier string

const (
	TierTop  ConfidenceTier = "top"
	TierMid  ConfidenceTier = "mid"
	TierLow  ConfidenceTier = "low"
	TierNone ConfidenceTier = "none"
)

// Tiers lists the pick-eligible tiers from highest to lowest.
func Tiers() []ConfidenceTier {
	return []ConfidenceTier{TierTop, TierMid, TierLow}
}

// Rank orders tiers: higher rank means higher confidence. TierNone ranks 0.
func (t ConfidenceTier) Rank() int {
	switch t {
	case TierTop:
		return 3
	case TierMid:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Pick is one ranked decision for a (game, market). Regeneration upserts by
// natural key, never duplicates.
type Pick struct {
	ID        uuid.UUID      `db:"id" json:"id" validate:"required,uuid4"`
	GameID    uuid.UUID      `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Date      time.Time      `db:"date" json:"date" validate:"required"`
	Sport     Sport          `db:"sport" json:"sport" validate:"required"`
	Market    Market         `db:"market" json:"market" validate:"required"`
	Side      Direction      `db:"side" json:"side" validate:"required"`
	Score     float64        `db:"score" json:"score"`
	Tier      ConfidenceTier `db:"tier" json:"tier" validate:"required"`
	Signals   []SignalResult `db:"-" json:"signals"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// NaturalKey is the upsert key for a pick.
func (p *Pick) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%s|%s", p.Date.UTC().Format("2006-01-02"), p.Sport, p.Market, p.GameID)
}

// PickID derives a deterministic pick ID from the natural key so that
// regenerating picks for a date produces identical IDs.
func PickID(date time.Time, sport Sport, market Market, gameID uuid.UUID) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%s", date.UTC().Format("2006-01-02"), sport, market, gameID)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}
