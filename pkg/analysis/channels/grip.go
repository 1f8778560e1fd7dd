package channels

import (
	"math"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	highGripG = 0.8
	lowGripG  = 0.4
)

//nolint:tagliatelle // snake case by convention
type Grip struct {
	MaxCombinedG      float64 `json:"max_combined_g"`
	AvgCombinedG      float64 `json:"avg_combined_g"`
	EfficiencyPct     float64 `json:"grip_efficiency_pct"`
	HighGripPct       float64 `json:"time_in_high_grip_pct"`
	MidGripPct        float64 `json:"time_in_mid_grip_pct"`
	LowGripPct        float64 `json:"time_in_low_grip_pct"`
	TheoreticalLimitG float64 `json:"theoretical_limit_g"`
}

// CombinedG returns sqrt(x²+y²) for the positionally aligned values of
// both channels. The result has the length of the shorter input.
func CombinedG(accx, accy []float64) []float64 {
	n := min(len(accx), len(accy))
	ret := make([]float64, n)
	for i := range n {
		ret[i] = math.Hypot(accx[i], accy[i])
	}
	return ret
}

// Grip evaluates the traction circle usage over the whole session
func (a *Analyzer) Grip(samples []model.TelemetrySample) model.Result[Grip] {
	combined := CombinedG(
		Series(samples, model.ChannelAccX),
		Series(samples, model.ChannelAccY))
	if len(combined) == 0 {
		return model.Insufficient[Grip]("No acceleration data")
	}
	n := float64(len(combined))
	high := numeric.CountIf(combined, func(v float64) bool { return v > highGripG })
	low := numeric.CountIf(combined, func(v float64) bool { return v <= lowGripG })
	maxG := numeric.Max(combined)
	mu := a.vehicle.FrictionCoefficient
	return model.OK(Grip{
		MaxCombinedG:      numeric.Round(maxG, 2),
		AvgCombinedG:      numeric.Round(numeric.Mean(combined), 2),
		EfficiencyPct:     numeric.Round(numeric.Pct(maxG, mu), 1),
		HighGripPct:       numeric.Round(numeric.Pct(float64(high), n), 1),
		MidGripPct:        numeric.Round(numeric.Pct(float64(len(combined)-high-low), n), 1),
		LowGripPct:        numeric.Round(numeric.Pct(float64(low), n), 1),
		TheoreticalLimitG: mu,
	})
}
