// Package channels computes descriptive statistics of single telemetry
// channels (brake pressure, speed, acceleration) and relates them to the
// vehicle limits.
package channels

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

const NoTelemetryReason = "No telemetry data available"

// ForVehicle returns the samples of one vehicle ordered by timestamp.
// Samples with equal timestamps keep their input order.
//
//nolint:whitespace // editor/linter issue
func ForVehicle(
	samples []model.TelemetrySample, vehicleID string,
) []model.TelemetrySample {
	ret := lo.Filter(samples, func(s model.TelemetrySample, _ int) bool {
		return s.VehicleID == vehicleID
	})
	slices.SortStableFunc(ret, func(a, b model.TelemetrySample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return ret
}

// ForLap returns the samples of the given lap
func ForLap(samples []model.TelemetrySample, lap int) []model.TelemetrySample {
	return lo.Filter(samples, func(s model.TelemetrySample, _ int) bool {
		return s.Lap == lap
	})
}

// Series extracts the values of channel name in sample order
func Series(samples []model.TelemetrySample, name string) []float64 {
	return lo.FilterMap(samples, func(s model.TelemetrySample, _ int) (float64, bool) {
		return s.Value, s.Name == name
	})
}

// SeriesMatching extracts the values of all channels whose name contains
// part (case insensitive) in sample order
func SeriesMatching(samples []model.TelemetrySample, part string) []float64 {
	part = strings.ToLower(part)
	return lo.FilterMap(samples, func(s model.TelemetrySample, _ int) (float64, bool) {
		return s.Value, strings.Contains(strings.ToLower(s.Name), part)
	})
}

// Vehicles returns the distinct vehicle ids in ascending order
func Vehicles(samples []model.TelemetrySample) []string {
	ret := lo.Uniq(lo.Map(samples, func(s model.TelemetrySample, _ int) string {
		return s.VehicleID
	}))
	slices.SortFunc(ret, cmp.Compare[string])
	return ret
}

// Analyzer holds the reference data used to relate channel values to
// vehicle limits
type Analyzer struct {
	vehicle model.VehicleSpec
	th      model.Thresholds
}

func NewAnalyzer(vehicle model.VehicleSpec, th model.Thresholds) *Analyzer {
	return &Analyzer{vehicle: vehicle, th: th}
}
