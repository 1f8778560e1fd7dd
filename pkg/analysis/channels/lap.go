package channels

import (
	"fmt"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

type (
	//nolint:tagliatelle // snake case by convention
	LapSummary struct {
		LapNumber   int           `json:"lap_number"`
		DriverID    string        `json:"driver_id"`
		Speed       SpeedEnvelope `json:"speed"`
		ThrottleAvg float64       `json:"throttle_avg"`
		DataPoints  int           `json:"data_points"`
	}
	SpeedEnvelope struct {
		Max float64 `json:"max"`
		Avg float64 `json:"avg"`
		Min float64 `json:"min"`
	}
)

// LapSummary summarizes the samples of a single lap of one driver
//
//nolint:whitespace // editor/linter issue
func (a *Analyzer) LapSummary(
	driverID string, lap int, samples []model.TelemetrySample,
) model.Result[LapSummary] {
	lapSamples := ForLap(samples, lap)
	if len(lapSamples) == 0 {
		return model.NoData[LapSummary](fmt.Sprintf("No data for lap %d", lap))
	}
	speed := Series(lapSamples, model.ChannelVehicleSpeed)
	return model.OK(LapSummary{
		LapNumber: lap,
		DriverID:  driverID,
		Speed: SpeedEnvelope{
			Max: numeric.Finite(numeric.Max(speed)),
			Avg: numeric.Finite(numeric.Mean(speed)),
			Min: numeric.Finite(numeric.Min(speed)),
		},
		ThrottleAvg: numeric.Finite(numeric.Mean(Series(lapSamples, model.ChannelThrottle))),
		DataPoints:  len(lapSamples),
	})
}
