package cornering

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	StyleAggressive   = "Aggressive"
	StyleSmoothFast   = "Smooth & Fast"
	StyleConservative = "Conservative"
	StyleBalanced     = "Balanced"

	neutralScore = 50.0
)

// Fingerprint summarizes the behavior of a driver
//
//nolint:tagliatelle // snake case by convention
type Fingerprint struct {
	Style              string  `json:"driving_style"`
	BrakeAggression    float64 `json:"brake_aggression_pct"`
	ThrottleSmoothness float64 `json:"throttle_smoothness_pct"`
	AvgGripUtilization float64 `json:"avg_grip_utilization_pct"`
	AvgSpeedEfficiency float64 `json:"avg_speed_efficiency_pct"`
	Signature          string  `json:"signature"`
}

type styleRule struct {
	style string
	match func(f Fingerprint) bool
}

// first match wins
var styleRules = []styleRule{
	{StyleAggressive, func(f Fingerprint) bool {
		return f.AvgGripUtilization > 85 && f.BrakeAggression > 70
	}},
	{StyleSmoothFast, func(f Fingerprint) bool {
		return f.AvgSpeedEfficiency > 90 && f.ThrottleSmoothness > 80
	}},
	{StyleConservative, func(f Fingerprint) bool {
		return f.AvgGripUtilization < 75
	}},
}

// Classify maps the scores of f to a driving style
func Classify(f Fingerprint) string {
	for _, r := range styleRules {
		if r.match(f) {
			return r.style
		}
	}
	return StyleBalanced
}

type Classifier struct {
	brakeThreshold float64
}

func NewClassifier(th model.Thresholds) *Classifier {
	return &Classifier{brakeThreshold: th.BrakeThresholdBar}
}

// Fingerprint computes the driver fingerprint from the corners and the
// driver's brake and throttle traces
//
//nolint:whitespace // editor/linter issue
func (c *Classifier) Fingerprint(
	corners []Metrics, samples []model.TelemetrySample,
) model.Result[Fingerprint] {
	if len(corners) == 0 {
		return model.Insufficient[Fingerprint]("Insufficient corner data")
	}
	f := Fingerprint{
		BrakeAggression:    c.brakeAggression(channels.Series(samples, model.ChannelBrakeFront)),
		ThrottleSmoothness: throttleSmoothness(channels.Series(samples, model.ChannelThrottle)),
		AvgGripUtilization: numeric.Finite(numeric.Mean(lo.Map(corners,
			func(m Metrics, _ int) float64 { return m.GripUtilizationPct }))),
		AvgSpeedEfficiency: numeric.Finite(numeric.Mean(lo.Map(corners,
			func(m Metrics, _ int) float64 { return m.SpeedEfficiencyPct }))),
	}
	f.Style = Classify(f)
	f.Signature = fmt.Sprintf("%s - %d%% grip, %d%% brake",
		f.Style, int(f.AvgGripUtilization), int(f.BrakeAggression))
	return model.OK(f)
}

// Rounded returns f with the output precision applied
func (f Fingerprint) Rounded() Fingerprint {
	f.BrakeAggression = numeric.Round(f.BrakeAggression, 1)
	f.ThrottleSmoothness = numeric.Round(f.ThrottleSmoothness, 1)
	f.AvgGripUtilization = numeric.Round(f.AvgGripUtilization, 1)
	f.AvgSpeedEfficiency = numeric.Round(f.AvgSpeedEfficiency, 1)
	return f
}

// brakeAggression is the mean braking pressure relative to the 99th
// percentile pressure
func (c *Classifier) brakeAggression(front []float64) float64 {
	p99 := numeric.Quantile(front, 0.99)
	avg := numeric.Mean(numeric.Above(front, c.brakeThreshold))
	if math.IsNaN(p99) || p99 <= 0 || math.IsNaN(avg) {
		return neutralScore
	}
	return avg / p99 * 100
}

func throttleSmoothness(throttle []float64) float64 {
	std := numeric.StdDev(throttle)
	if math.IsNaN(std) {
		return neutralScore
	}
	return math.Max(0, 100-std)
}
