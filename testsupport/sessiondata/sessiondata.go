// Package sessiondata builds a small deterministic session for tests
package sessiondata

import (
	"context"
	"time"

	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
)

const (
	Track     = "barber"
	Session   = "R1"
	DriverA   = "GR86-002-2"  // laps and telemetry of lap 2
	DriverB   = "GR86-004-78" // laps only
	TelemLap  = 2
	NoLapsSes = "R2" // telemetry only, no lap tables
)

var (
	Start = time.Date(2025, 9, 6, 18, 40, 0, 0, time.UTC)

	LapTimes = map[string][]float64{
		DriverA: {98.0, 98.3, 98.2, 98.9, 99.1, 99.4},
		DriverB: {97.5, 97.9, 98.4, 98.0, 98.8, 99.0},
	}
)

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// LapTables returns the lap start and end tables of both drivers
func LapTables() (starts, ends *datasource.Table) {
	starts = &datasource.Table{Kind: model.KindLapStart}
	ends = &datasource.Table{Kind: model.KindLapEnd}
	for _, driver := range []string{DriverA, DriverB} {
		ts := Start
		for i, d := range LapTimes[driver] {
			lap := i + 1
			end := ts.Add(seconds(d))
			starts.Events = append(starts.Events, model.LapBoundaryEvent{
				VehicleID: driver, Lap: lap, Timestamp: ts, Kind: model.KindLapStart,
			})
			ends.Events = append(ends.Events, model.LapBoundaryEvent{
				VehicleID: driver, Lap: lap, Timestamp: end, Kind: model.KindLapEnd,
			})
			ts = end
		}
	}
	return starts, ends
}

// Telemetry returns 100 samples per channel for lap TelemLap of DriverA
// at 10 Hz. There are two corners, samples [20,40) at 0.9 g and [60,75)
// at -1.0 g lateral, each preceded by a braking zone.
func Telemetry() *datasource.Table {
	t := &datasource.Table{Kind: model.KindTelemetry}
	lapStart := Start.Add(seconds(LapTimes[DriverA][0]))
	add := func(i int, name string, v float64) {
		t.Samples = append(t.Samples, model.TelemetrySample{
			VehicleID: DriverA,
			Lap:       TelemLap,
			Name:      name,
			Value:     v,
			Timestamp: lapStart.Add(time.Duration(i) * 100 * time.Millisecond),
		})
	}
	for i := range 100 {
		inCorner := (i >= 20 && i < 40) || (i >= 60 && i < 75)
		braking := (i >= 10 && i < 20) || (i >= 50 && i < 60)

		lat := 0.1
		switch {
		case i >= 20 && i < 40:
			lat = 0.9
		case i >= 60 && i < 75:
			lat = -1.0
		}
		speed := 160.0
		switch {
		case inCorner:
			speed = 95 + float64(i%10)
		case braking:
			speed = 130
		}
		long, front, rear, throttle, steering := 0.2, 0.0, 0.0, 90.0, 2.0
		if braking {
			long, front, rear, throttle = -0.8, 60, 25, 0
		}
		if inCorner {
			throttle, steering = 40, 35
		}
		add(i, model.ChannelAccY, lat)
		add(i, model.ChannelAccX, long)
		add(i, model.ChannelSpeed, speed)
		add(i, model.ChannelVehicleSpeed, speed)
		add(i, model.ChannelBrakeFront, front)
		add(i, model.ChannelBrakeRear, rear)
		add(i, model.ChannelThrottle, throttle)
		add(i, model.ChannelSteering, steering)
	}
	return t
}

// Memory returns a source with session Session (laps and telemetry) and
// session NoLapsSes (telemetry only) of Track
func Memory(ctx context.Context) (*datasource.Memory, error) {
	m := datasource.NewMemory()
	starts, ends := LapTables()
	for _, tbl := range []*datasource.Table{starts, ends, Telemetry()} {
		if err := m.Store(ctx, Track, Session, tbl); err != nil {
			return nil, err
		}
	}
	if err := m.Store(ctx, Track, NoLapsSes, Telemetry()); err != nil {
		return nil, err
	}
	return m, nil
}
