package regression

import (
	"github.com/yourusername/pick-engine/internal/models"
)

// Feature names, in design-matrix column order. The intercept is always the
// first column and is exempt from regularization.
const (
	FeatureIntercept    = "intercept"
	FeatureSumDefEff    = "sum_defensive_eff"
	FeatureSumOffEff    = "sum_offensive_eff"
	FeatureAvgTempo     = "avg_tempo"
	FeatureTempoDiff    = "tempo_diff"
	FeatureMarginDiff   = "margin_diff"
	FeatureMomentumDiff = "momentum_diff"
)

// FeatureSet controls which columns beyond the base four enter the design
// matrix. The zero value is the fixed four-feature set (intercept, summed
// defensive efficiency, summed offensive efficiency, average tempo).
type FeatureSet struct {
	TempoDiff          bool
	MarginDiff         bool
	Momentum           bool
	MomentumWindowDays int
}

// Names returns the ordered feature list for this set.
func (fs FeatureSet) Names() []string {
	names := []string{FeatureIntercept, FeatureSumDefEff, FeatureSumOffEff, FeatureAvgTempo}
	if fs.TempoDiff {
		names = append(names, FeatureTempoDiff)
	}
	if fs.MarginDiff {
		names = append(names, FeatureMarginDiff)
	}
	if fs.Momentum {
		names = append(names, FeatureMomentumDiff)
	}
	return names
}

// Row builds one design-matrix row from the two matched snapshots.
// homeMomentum and awayMomentum are ignored unless the set includes the
// momentum feature.
func (fs FeatureSet) Row(home, away *models.RatingSnapshot, homeMomentum, awayMomentum float64) []float64 {
	row := []float64{
		1.0,
		home.DefensiveEff + away.DefensiveEff,
		home.OffensiveEff + away.OffensiveEff,
		(home.Tempo + away.Tempo) / 2.0,
	}
	if fs.TempoDiff {
		row = append(row, home.Tempo-away.Tempo)
	}
	if fs.MarginDiff {
		row = append(row, home.EfficiencyMargin-away.EfficiencyMargin)
	}
	if fs.Momentum {
		row = append(row, homeMomentum-awayMomentum)
	}
	return row
}
