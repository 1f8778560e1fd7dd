package channels

import (
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	highSpeedKmh = 150.0
	lowSpeedKmh  = 100.0
)

type (
	//nolint:tagliatelle // snake case by convention
	Speed struct {
		DriverID     string            `json:"driver_id"`
		Metrics      SpeedMetrics      `json:"speed_metrics"`
		Comparison   SpeedComparison   `json:"vehicle_comparison"`
		Distribution SpeedDistribution `json:"speed_distribution"`
	}

	//nolint:tagliatelle // snake case by convention
	SpeedMetrics struct {
		VMax  float64 `json:"vmax_kmh"`
		VMin  float64 `json:"vmin_kmh"`
		VAvg  float64 `json:"vavg_kmh"`
		Range float64 `json:"speed_range_kmh"`
	}

	//nolint:tagliatelle // snake case by convention
	SpeedComparison struct {
		TheoreticalMax float64 `json:"theoretical_max_kmh"`
		UtilizationPct float64 `json:"speed_utilization_pct"`
		GapToMax       float64 `json:"gap_to_max_kmh"`
	}

	//nolint:tagliatelle // snake case by convention
	SpeedDistribution struct {
		HighPct float64 `json:"high_speed_pct"`
		MidPct  float64 `json:"mid_speed_pct"`
		LowPct  float64 `json:"low_speed_pct"`
	}

	//nolint:tagliatelle // snake case by convention
	BasicSpeed struct {
		DriverID        string  `json:"driver_id"`
		VMax            float64 `json:"vmax"`
		VMin            float64 `json:"vmin"`
		VAvg            float64 `json:"vavg"`
		Range           float64 `json:"speed_range"`
		AvgAcceleration float64 `json:"avg_acceleration"`
	}
)

const noSpeedReason = "No speed data available"

// Speed analyzes the vehicle speed channel against the vehicle top speed
func (a *Analyzer) Speed(driverID string, samples []model.TelemetrySample) model.Result[Speed] {
	speed := Series(samples, model.ChannelVehicleSpeed)
	if len(speed) == 0 {
		return model.Insufficient[Speed](noSpeedReason)
	}
	vmax, vmin := numeric.Max(speed), numeric.Min(speed)
	n := float64(len(speed))
	high := numeric.CountIf(speed, func(v float64) bool { return v > highSpeedKmh })
	low := numeric.CountIf(speed, func(v float64) bool { return v <= lowSpeedKmh })
	top := a.vehicle.TopSpeedKmh
	return model.OK(Speed{
		DriverID: driverID,
		Metrics: SpeedMetrics{
			VMax:  vmax,
			VMin:  vmin,
			VAvg:  numeric.Round(numeric.Mean(speed), 2),
			Range: vmax - vmin,
		},
		Comparison: SpeedComparison{
			TheoreticalMax: top,
			UtilizationPct: numeric.Round(numeric.Pct(vmax, top), 1),
			GapToMax:       top - vmax,
		},
		Distribution: SpeedDistribution{
			HighPct: numeric.Round(numeric.Pct(float64(high), n), 1),
			MidPct:  numeric.Round(numeric.Pct(float64(len(speed)-high-low), n), 1),
			LowPct:  numeric.Round(numeric.Pct(float64(low), n), 1),
		},
	})
}

// BasicSpeed reports the speed envelope and the mean of all acceleration
// channels
func (a *Analyzer) BasicSpeed(driverID string, samples []model.TelemetrySample) model.Result[BasicSpeed] {
	speed := Series(samples, model.ChannelVehicleSpeed)
	if len(speed) == 0 {
		return model.Insufficient[BasicSpeed](noSpeedReason)
	}
	vmax, vmin := numeric.Max(speed), numeric.Min(speed)
	return model.OK(BasicSpeed{
		DriverID:        driverID,
		VMax:            vmax,
		VMin:            vmin,
		VAvg:            numeric.Finite(numeric.Mean(speed)),
		Range:           vmax - vmin,
		AvgAcceleration: numeric.Finite(numeric.Mean(SeriesMatching(samples, "acc"))),
	})
}
