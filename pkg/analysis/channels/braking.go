package channels

import (
	"math"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	brakeSpikeFactor    = 1.1  // p99 pressure is capped at this factor of the limit
	defaultFrontBias    = 70.0 // pct
	brakingDecelG       = -0.1 // longitudinal g below counts as braking
	brakeZoneTurnFactor = 0.6
	defaultTurns        = 17
	brakingPercentile   = 0.99
)

type (
	//nolint:tagliatelle // snake case by convention
	Braking struct {
		DriverID    string            `json:"driver_id"`
		Metrics     BrakingMetrics    `json:"braking_metrics"`
		GForces     BrakingGForces    `json:"g_forces"`
		Efficiency  BrakingEfficiency `json:"efficiency"`
		Technique   BrakingTechnique  `json:"technique"`
		BrakeSystem model.Brakes      `json:"brake_system"`
	}

	//nolint:tagliatelle // snake case by convention
	BrakingMetrics struct {
		BrakeApplications   int     `json:"brake_applications"`
		ExpectedPerLap      int     `json:"expected_per_lap"`
		MaxFrontPressureBar float64 `json:"max_front_pressure_bar"`
		MaxRearPressureBar  float64 `json:"max_rear_pressure_bar"`
		AvgFrontPressureBar float64 `json:"avg_front_pressure_bar"`
		AvgRearPressureBar  float64 `json:"avg_rear_pressure_bar"`
		BrakeBiasFrontPct   float64 `json:"brake_bias_front_pct"`
		ConsistencyBar      float64 `json:"consistency_bar"`
	}

	//nolint:tagliatelle // snake case by convention
	BrakingGForces struct {
		MaxBrakingG    float64 `json:"max_braking_g"`
		AvgBrakingG    float64 `json:"avg_braking_g"`
		VehicleLimitG  float64 `json:"vehicle_limit_g"`
		UtilizationPct float64 `json:"utilization_pct"`
	}

	//nolint:tagliatelle // snake case by convention
	BrakingEfficiency struct {
		FrontPct   float64 `json:"front_brake_efficiency_pct"`
		RearPct    float64 `json:"rear_brake_efficiency_pct"`
		OverallPct float64 `json:"overall_efficiency_pct"`
	}

	//nolint:tagliatelle // snake case by convention
	BrakingTechnique struct {
		TrailBrakingPct float64 `json:"trail_braking_pct"`
		Rating          string  `json:"rating"`
	}

	//nolint:tagliatelle // snake case by convention
	BasicBraking struct {
		DriverID          string  `json:"driver_id"`
		BrakeApplications int     `json:"brake_applications"`
		AvgBrakePressure  float64 `json:"avg_brake_pressure"`
		MaxBrakePressure  float64 `json:"max_brake_pressure"`
		BrakingEfficiency float64 `json:"braking_efficiency"`
	}
)

// Braking analyzes the brake pressure channels of one driver.
// track is the zero value if the track is unknown.
//
//nolint:funlen // readability
func (a *Analyzer) Braking(
	driverID string,
	samples []model.TelemetrySample,
	track model.TrackSpec,
) model.Result[Braking] {
	front := Series(samples, model.ChannelBrakeFront)
	rear := Series(samples, model.ChannelBrakeRear)
	if len(front) == 0 && len(rear) == 0 {
		return model.Insufficient[Braking]("No braking data available")
	}
	limits := a.vehicle.Brakes
	threshold := a.th.BrakeThresholdBar

	// front and rear are counted in sequence, each press shows up twice
	applications := countApplications(append(append([]float64{}, front...), rear...), threshold)

	maxFront := math.Min(numeric.Finite(numeric.Quantile(front, brakingPercentile)),
		limits.MaxPressureFrontBar*brakeSpikeFactor)
	maxRear := math.Min(numeric.Finite(numeric.Quantile(rear, brakingPercentile)),
		limits.MaxPressureRearBar*brakeSpikeFactor)
	frontBraking := numeric.Above(front, threshold)
	avgFront := numeric.Finite(numeric.Mean(frontBraking))
	avgRear := numeric.Finite(numeric.Mean(numeric.Above(rear, threshold)))

	bias := defaultFrontBias
	if maxFront > 0 && maxRear > 0 {
		bias = numeric.Pct(maxFront, maxFront+maxRear)
	}

	var maxG, avgG float64
	if accx := Series(samples, model.ChannelAccX); len(accx) > 0 {
		decel := numeric.Below(accx, brakingDecelG)
		maxG = math.Abs(numeric.Finite(numeric.Min(decel)))
		avgG = math.Abs(numeric.Finite(numeric.Mean(decel)))
	} else {
		// estimate from pressure, the front limit corresponds to the vehicle limit
		maxG = numeric.SafeDiv(maxFront, limits.MaxPressureFrontBar) * limits.LimitG
		avgG = numeric.SafeDiv(avgFront, limits.MaxPressureFrontBar) * limits.LimitG
	}

	frontEff := numeric.Pct(maxFront, limits.MaxPressureFrontBar)
	rearEff := numeric.Pct(maxRear, limits.MaxPressureRearBar)
	trail := a.trailBrakingPct(front, Series(samples, model.ChannelAccY))

	turns := track.Turns
	if turns == 0 {
		turns = defaultTurns
	}

	return model.OK(Braking{
		DriverID: driverID,
		Metrics: BrakingMetrics{
			BrakeApplications:   applications / 2,
			ExpectedPerLap:      int(float64(turns) * brakeZoneTurnFactor),
			MaxFrontPressureBar: numeric.Round(maxFront, 2),
			MaxRearPressureBar:  numeric.Round(maxRear, 2),
			AvgFrontPressureBar: numeric.Round(avgFront, 2),
			AvgRearPressureBar:  numeric.Round(avgRear, 2),
			BrakeBiasFrontPct:   numeric.Round(bias, 1),
			ConsistencyBar:      numeric.Round(numeric.StdDev(frontBraking), 2),
		},
		GForces: BrakingGForces{
			MaxBrakingG:    numeric.Round(maxG, 2),
			AvgBrakingG:    numeric.Round(avgG, 2),
			VehicleLimitG:  limits.LimitG,
			UtilizationPct: numeric.Round(numeric.Pct(maxG, limits.LimitG), 1),
		},
		Efficiency: BrakingEfficiency{
			FrontPct:   numeric.Round(frontEff, 1),
			RearPct:    numeric.Round(rearEff, 1),
			OverallPct: numeric.Round((frontEff+rearEff)/2, 1),
		},
		Technique: BrakingTechnique{
			TrailBrakingPct: numeric.Round(trail, 1),
			Rating:          trailBrakingRating(trail),
		},
		BrakeSystem: limits,
	})
}

// countApplications counts the transitions into the braking state
func countApplications(pressure []float64, threshold float64) int {
	count := 0
	braking := false
	for _, p := range pressure {
		switch {
		case p > threshold && !braking:
			count++
			braking = true
		case p <= threshold:
			braking = false
		}
	}
	return count
}

// trailBrakingPct is the share of braking samples with lateral load.
// Both channels are aligned by position.
func (a *Analyzer) trailBrakingPct(brake, lateral []float64) float64 {
	n := min(len(brake), len(lateral))
	braking, trail := 0, 0
	for i := range n {
		if brake[i] <= a.th.BrakeThresholdBar {
			continue
		}
		braking++
		if math.Abs(lateral[i]) > a.th.TrailBrakingLateralG {
			trail++
		}
	}
	return numeric.Pct(float64(trail), float64(braking))
}

func trailBrakingRating(pct float64) string {
	switch {
	case pct > 30:
		return "Advanced"
	case pct > 15:
		return "Intermediate"
	default:
		return "Basic"
	}
}

// BasicBraking summarizes all channels containing "brake" in their name
func (a *Analyzer) BasicBraking(driverID string, samples []model.TelemetrySample) model.Result[BasicBraking] {
	brake := SeriesMatching(samples, "brake")
	if len(brake) == 0 {
		return model.Insufficient[BasicBraking]("No braking data available")
	}
	avg := numeric.Mean(brake)
	maxP := numeric.Max(brake)
	return model.OK(BasicBraking{
		DriverID:          driverID,
		BrakeApplications: len(numeric.Above(brake, 0)),
		AvgBrakePressure:  numeric.Finite(avg),
		MaxBrakePressure:  numeric.Finite(maxP),
		BrakingEfficiency: numeric.Pct(avg, maxP),
	})
}
