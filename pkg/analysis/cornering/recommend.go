package cornering

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const maxRecommendations = 5

type recommendationInput struct {
	corners     []Metrics
	fingerprint Fingerprint
	avgSpeedEff float64
	avgGrip     float64
}

type recommendationRule func(in recommendationInput) (string, bool)

// evaluated in order, the output keeps that order
var recommendationRules = []recommendationRule{
	func(in recommendationInput) (string, bool) {
		return fmt.Sprintf(
				"Carry %.1f%% more speed through corners - you're leaving time on the table",
				numeric.Round(100-in.avgSpeedEff, 1)),
			in.avgSpeedEff < 85
	},
	func(in recommendationInput) (string, bool) {
		return fmt.Sprintf("Push harder! Using only %.1f%% of available grip - aim for 90%%+",
			numeric.Round(in.avgGrip, 1)), in.avgGrip < 80
	},
	func(in recommendationInput) (string, bool) {
		return "Very aggressive! Consider slight margin for safety", in.avgGrip > 95
	},
	func(in recommendationInput) (string, bool) {
		losing := lo.CountBy(in.corners, func(m Metrics) bool { return m.MomentumGainPct < 0 })
		return "Losing momentum in 30%+ of corners - focus on exit speed over entry speed",
			float64(losing) > float64(len(in.corners))*0.3
	},
	func(in recommendationInput) (string, bool) {
		return "Be more aggressive with throttle application - you have grip available",
			in.fingerprint.Style == StyleConservative
	},
	func(in recommendationInput) (string, bool) {
		return "Smooth inputs will improve consistency and tire life",
			in.fingerprint.Style == StyleAggressive
	},
}

// Recommend returns up to five recommendations derived from the corners
// and the driver fingerprint
func Recommend(corners []Metrics, f Fingerprint) []string {
	if len(corners) == 0 {
		return []string{"Insufficient data for recommendations"}
	}
	in := recommendationInput{
		corners:     corners,
		fingerprint: f,
		avgSpeedEff: numeric.Finite(numeric.Mean(lo.Map(corners,
			func(m Metrics, _ int) float64 { return m.SpeedEfficiencyPct }))),
		avgGrip: numeric.Finite(numeric.Mean(lo.Map(corners,
			func(m Metrics, _ int) float64 { return m.GripUtilizationPct }))),
	}
	ret := []string{}
	for _, rule := range recommendationRules {
		if msg, ok := rule(in); ok {
			ret = append(ret, msg)
		}
		if len(ret) == maxRecommendations {
			break
		}
	}
	return ret
}
