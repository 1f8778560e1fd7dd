package cornering

import (
	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

//nolint:tagliatelle // snake case by convention
type Momentum struct {
	AvgMomentumGainPct    float64 `json:"avg_momentum_gain_pct"`
	AvgSpeedEfficiencyPct float64 `json:"avg_speed_efficiency_pct"`
	Score                 float64 `json:"momentum_efficiency_score"`
	Rating                string  `json:"rating"`
}

// MomentumEfficiency rates how well momentum is carried through the corners
func MomentumEfficiency(corners []Metrics) model.Result[Momentum] {
	if len(corners) == 0 {
		return model.Insufficient[Momentum]("No corner data")
	}
	gain := numeric.Finite(numeric.Mean(lo.Map(corners,
		func(m Metrics, _ int) float64 { return m.MomentumGainPct })))
	eff := numeric.Finite(numeric.Mean(lo.Map(corners,
		func(m Metrics, _ int) float64 { return m.SpeedEfficiencyPct })))
	score := (gain + eff) / 2
	return model.OK(Momentum{
		AvgMomentumGainPct:    numeric.Round(gain, 1),
		AvgSpeedEfficiencyPct: numeric.Round(eff, 1),
		Score:                 numeric.Round(score, 1),
		Rating:                momentumRating(score),
	})
}

func momentumRating(score float64) string {
	switch {
	case score > 80:
		return "Excellent"
	case score > 60:
		return "Good"
	default:
		return "Needs Improvement"
	}
}
