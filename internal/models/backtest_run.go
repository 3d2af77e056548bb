package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TierRecord holds realized outcomes for one confidence tier.
type TierRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Pushes int `json:"pushes"`
}

// Picks returns the number of settled picks in the tier, pushes included.
func (t TierRecord) Picks() int {
	return t.Wins + t.Losses + t.Pushes
}

// WinRate returns wins over decided picks; pushes are excluded. Zero decided
// picks yields 0.
func (t TierRecord) WinRate() float64 {
	decided := t.Wins + t.Losses
	if decided == 0 {
		return 0
	}
	return float64(t.Wins) / float64(decided)
}

// Add merges another record into this one.
func (t *TierRecord) Add(other TierRecord) {
	t.Wins += other.Wins
	t.Losses += other.Losses
	t.Pushes += other.Pushes
}

// BacktestRun is the scored result of evaluating one configuration on one
// held-out season.
type BacktestRun struct {
	ID           uuid.UUID                     `db:"id" json:"id"`
	ConfigName   string                        `db:"config_name" json:"config_name" validate:"required"`
	Sport        Sport                         `db:"sport" json:"sport" validate:"required"`
	Market       Market                        `db:"market" json:"market" validate:"required"`
	Season       int                           `db:"season" json:"season" validate:"required"`
	TierRecords  map[ConfidenceTier]TierRecord `db:"-" json:"tier_records"`
	PicksPerWeek float64                       `db:"picks_per_week" json:"picks_per_week"`
	RMSE         float64                       `db:"rmse" json:"rmse"`
	CreatedAt    time.Time                     `db:"created_at" json:"created_at"`
}

// Record returns the tier record, zero-valued when the tier saw no picks.
func (r *BacktestRun) Record(tier ConfidenceTier) TierRecord {
	if r.TierRecords == nil {
		return TierRecord{}
	}
	return r.TierRecords[tier]
}

// Monotonic reports whether realized win rates are non-decreasing from low
// tier to top tier. Tiers with no decided picks are skipped.
func (r *BacktestRun) Monotonic() bool {
	prev := -1.0
	for _, tier := range []ConfidenceTier{TierLow, TierMid, TierTop} {
		rec := r.Record(tier)
		if rec.Wins+rec.Losses == 0 {
			continue
		}
		rate := rec.WinRate()
		if prev >= 0 && rate < prev {
			return false
		}
		prev = rate
	}
	return true
}

// MarshalTierRecords serializes the per-tier counts for persistence.
func (r *BacktestRun) MarshalTierRecords() (json.RawMessage, error) {
	return json.Marshal(r.TierRecords)
}

// UnmarshalTierRecords restores the per-tier counts from persistence.
func (r *BacktestRun) UnmarshalTierRecords(raw json.RawMessage) error {
	if len(raw) == 0 {
		r.TierRecords = map[ConfidenceTier]TierRecord{}
		return nil
	}
	return json.Unmarshal(raw, &r.TierRecords)
}
