package laps

import (
	"fmt"
	"slices"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

// laps within this delta to the best lap count as consistent
const (
	consistencyWindow = 0.5
	extendedWindow    = 1.0
)

//nolint:tagliatelle // snake case by convention
type Consistency struct {
	DriverID               string  `json:"driver_id"`
	ConsistencyScore       float64 `json:"consistency_score"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	BestLap                float64 `json:"best_lap"`
	AverageLap             float64 `json:"average_lap"`
	StdDeviation           float64 `json:"std_deviation"`
	LapsWithin05s          int     `json:"laps_within_05s"`
	TotalLaps              int     `json:"total_laps"`
	Rating                 string  `json:"rating"`
}

type ratingRule struct {
	min   float64
	label string
}

var ratingRules = []ratingRule{
	{min: 80, label: "Elite"},
	{min: 60, label: "Professional"},
	{min: 40, label: "Advanced"},
}

// Rating maps a consistency score to its label. Lower bounds are inclusive.
func Rating(score float64) string {
	for _, r := range ratingRules {
		if score >= r.min {
			return r.label
		}
	}
	return "Developing"
}

func noDriverData[T any](driverID string) model.Result[T] {
	return model.NoData[T](fmt.Sprintf("No data for driver %s", driverID))
}

// AnalyzeConsistency computes the dispersion of the driver's lap times.
func AnalyzeConsistency(driverID string, laps []model.LapRecord) model.Result[Consistency] {
	if len(laps) == 0 {
		return noDriverData[Consistency](driverID)
	}
	times := Durations(laps)
	best := slices.Min(times)
	mean := numeric.Mean(times)
	within := numeric.CountIf(times, func(v float64) bool {
		return v <= best+consistencyWindow
	})
	score := numeric.Pct(float64(within), float64(len(times)))
	std := numeric.Finite(numeric.StdDev(times))
	return model.OK(Consistency{
		DriverID:               driverID,
		ConsistencyScore:       score,
		CoefficientOfVariation: numeric.Pct(std, mean),
		BestLap:                best,
		AverageLap:             mean,
		StdDeviation:           std,
		LapsWithin05s:          within,
		TotalLaps:              len(times),
		Rating:                 Rating(score),
	})
}
