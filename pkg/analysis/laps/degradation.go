package laps

import (
	"slices"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const MinDegradationLaps = 5

type (
	//nolint:tagliatelle // snake case by convention
	LapDelta struct {
		Lap   int     `json:"lap"`
		Delta float64 `json:"delta"`
	}

	//nolint:tagliatelle // snake case by convention
	Degradation struct {
		DriverID              string     `json:"driver_id"`
		DegradationRatePerLap float64    `json:"degradation_rate_per_lap"`
		BestLap               float64    `json:"best_lap"`
		CurrentDelta          float64    `json:"current_delta"`
		LapsAnalyzed          int        `json:"laps_analyzed"`
		LapDeltas             []LapDelta `json:"lap_deltas"`
	}
)

// PredictDegradation fits a least squares line through the delta to the
// best lap over the lap number. The slope is reported unclamped, a
// negative value means the pace improved.
//
//nolint:whitespace // editor/linter issue
func PredictDegradation(
	driverID string, laps []model.LapRecord,
) model.Result[Degradation] {
	if len(laps) < MinDegradationLaps {
		return model.Insufficient[Degradation](
			"Insufficient data for tire degradation analysis")
	}
	laps = slices.Clone(laps)
	slices.SortFunc(laps, compareRecords)
	best := slices.Min(Durations(laps))
	deltas := lo.Map(laps, func(r model.LapRecord, _ int) LapDelta {
		return LapDelta{Lap: r.Lap, Delta: r.Duration - best}
	})
	xs := lo.Map(deltas, func(d LapDelta, _ int) float64 { return float64(d.Lap) })
	ys := lo.Map(deltas, func(d LapDelta, _ int) float64 { return d.Delta })
	return model.OK(Degradation{
		DriverID:              driverID,
		DegradationRatePerLap: numeric.Finite(numeric.Slope(xs, ys)),
		BestLap:               best,
		CurrentDelta:          deltas[len(deltas)-1].Delta,
		LapsAnalyzed:          len(laps),
		LapDeltas:             deltas,
	})
}
