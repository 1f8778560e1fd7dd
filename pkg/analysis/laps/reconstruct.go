// Package laps derives lap records from lap boundary events and computes
// the lap time based statistics (consistency, pace, degradation).
package laps

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

type (
	lapKey struct {
		vehicleID string
		lap       int
	}
	Reconstructor struct {
		minSeconds float64
		maxSeconds float64
	}
)

func NewReconstructor(th model.Thresholds) *Reconstructor {
	return &Reconstructor{minSeconds: th.MinLapSeconds, maxSeconds: th.MaxLapSeconds}
}

// Reconstruct pairs start and end events with equal (vehicle, lap).
// Unpaired events are dropped. Durations not strictly between the
// configured bounds are discarded. If a key occurs more than once the
// earliest timestamp is used, so the result does not depend on the order
// of the input. The result is ordered by vehicle and lap.
//
//nolint:whitespace // editor/linter issue
func (r *Reconstructor) Reconstruct(
	starts, ends []model.LapBoundaryEvent,
) []model.LapRecord {
	startIdx := earliest(starts)
	endIdx := earliest(ends)
	ret := make([]model.LapRecord, 0, len(startIdx))
	for k, start := range startIdx {
		end, ok := endIdx[k]
		if !ok {
			continue
		}
		d := end.Timestamp.Sub(start.Timestamp).Seconds()
		if d <= r.minSeconds || d >= r.maxSeconds {
			continue
		}
		ret = append(ret, model.LapRecord{VehicleID: k.vehicleID, Lap: k.lap, Duration: d})
	}
	slices.SortFunc(ret, compareRecords)
	return ret
}

func earliest(events []model.LapBoundaryEvent) map[lapKey]model.LapBoundaryEvent {
	ret := make(map[lapKey]model.LapBoundaryEvent, len(events))
	for _, e := range events {
		k := lapKey{vehicleID: e.VehicleID, lap: e.Lap}
		if cur, ok := ret[k]; !ok || e.Timestamp.Before(cur.Timestamp) {
			ret[k] = e
		}
	}
	return ret
}

func compareRecords(a, b model.LapRecord) int {
	return cmp.Or(
		cmp.Compare(a.VehicleID, b.VehicleID),
		cmp.Compare(a.Lap, b.Lap),
	)
}

// ForVehicle returns the records of one vehicle ordered by lap
func ForVehicle(records []model.LapRecord, vehicleID string) []model.LapRecord {
	ret := lo.Filter(records, func(r model.LapRecord, _ int) bool {
		return r.VehicleID == vehicleID
	})
	slices.SortFunc(ret, compareRecords)
	return ret
}

// Drivers returns the distinct vehicle ids in ascending order
func Drivers(records []model.LapRecord) []string {
	ret := lo.Uniq(lo.Map(records, func(r model.LapRecord, _ int) string {
		return r.VehicleID
	}))
	slices.Sort(ret)
	return ret
}

// Durations extracts the lap times in record order
func Durations(records []model.LapRecord) []float64 {
	return lo.Map(records, func(r model.LapRecord, _ int) float64 {
		return r.Duration
	})
}
