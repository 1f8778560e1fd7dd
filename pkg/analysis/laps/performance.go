package laps

import (
	"slices"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	minPaceLaps            = 5
	theoreticalBestFactor  = 0.98
	noLapDataReason        = "No lap time data available"
	insufficientPaceReason = "Insufficient laps for pace analysis"
)

type (
	//nolint:tagliatelle // snake case by convention
	BestLap struct {
		BestLapTime float64 `json:"best_lap_time"`
		DriverID    string  `json:"driver_id"`
		LapNumber   int     `json:"lap_number"`
		Track       string  `json:"track"`
		Session     string  `json:"session"`
	}

	//nolint:tagliatelle // snake case by convention
	Performance struct {
		DriverID         string    `json:"driver_id"`
		BestLap          float64   `json:"best_lap"`
		AverageLap       float64   `json:"average_lap"`
		StdDeviation     float64   `json:"std_deviation"`
		ConsistencyScore float64   `json:"consistency_score"`
		TotalLaps        int       `json:"total_laps"`
		LapTimes         []float64 `json:"lap_times"`
	}

	//nolint:tagliatelle // snake case by convention
	DetailedPerformance struct {
		DriverID     string                     `json:"driver_id"`
		Track        string                     `json:"track"`
		Session      string                     `json:"session"`
		Vehicle      string                     `json:"vehicle"`
		Performance  PerformanceSummary         `json:"performance"`
		Consistency  ConsistencySummary         `json:"consistency"`
		PaceAnalysis model.Result[PaceAnalysis] `json:"pace_analysis"`
		VehicleSpecs VehicleSummary             `json:"vehicle_specs"`
		TrackInfo    TrackSummary               `json:"track_info"`
	}

	//nolint:tagliatelle // snake case by convention
	PerformanceSummary struct {
		BestLap         float64 `json:"best_lap"`
		AverageLap      float64 `json:"average_lap"`
		TheoreticalBest float64 `json:"theoretical_best"`
		DeltaToRecord   float64 `json:"delta_to_record"`
		StdDeviation    float64 `json:"std_deviation"`
	}

	//nolint:tagliatelle // snake case by convention
	ConsistencySummary struct {
		Score         float64 `json:"score"`
		Rating        string  `json:"rating"`
		LapsWithin05s int     `json:"laps_within_05s"`
		LapsWithin1s  int     `json:"laps_within_1s"`
		TotalLaps     int     `json:"total_laps"`
	}

	//nolint:tagliatelle // snake case by convention
	VehicleSummary struct {
		Horsepower  int     `json:"horsepower"`
		WeightKg    float64 `json:"weight_kg"`
		TopSpeedKmh float64 `json:"top_speed_kmh"`
	}

	//nolint:tagliatelle // snake case by convention
	TrackSummary struct {
		LengthKm         float64 `json:"length_km"`
		Turns            int     `json:"turns"`
		ElevationChangeM float64 `json:"elevation_change_m"`
		TrackRecord      float64 `json:"track_record"`
	}

	//nolint:tagliatelle // snake case by convention
	PaceAnalysis struct {
		EarlyStint  StintPace       `json:"early_stint"`
		MidStint    StintPace       `json:"mid_stint"`
		LateStint   StintPace       `json:"late_stint"`
		Degradation PaceDegradation `json:"degradation"`
	}

	//nolint:tagliatelle // snake case by convention
	StintPace struct {
		AvgLapTime float64 `json:"avg_lap_time"`
		BestLap    float64 `json:"best_lap"`
	}

	//nolint:tagliatelle // snake case by convention
	PaceDegradation struct {
		EarlyToLateDelta float64 `json:"early_to_late_delta"`
	}
)

// FindBestLap returns the fastest lap of the session. Ties are resolved by
// the lowest vehicle id, then the lowest lap number.
func FindBestLap(track, session string, records []model.LapRecord) model.Result[BestLap] {
	if len(records) == 0 {
		return model.NoData[BestLap](noLapDataReason)
	}
	best := slices.MinFunc(records, func(a, b model.LapRecord) int {
		if a.Duration < b.Duration {
			return -1
		}
		if a.Duration > b.Duration {
			return 1
		}
		return compareRecords(a, b)
	})
	return model.OK(BestLap{
		BestLapTime: best.Duration,
		DriverID:    best.VehicleID,
		LapNumber:   best.Lap,
		Track:       track,
		Session:     session,
	})
}

// AnalyzePerformance summarizes the driver's laps. The consistency score
// here is 100 minus the coefficient of variation.
func AnalyzePerformance(driverID string, laps []model.LapRecord) model.Result[Performance] {
	if len(laps) == 0 {
		return noDriverData[Performance](driverID)
	}
	times := Durations(laps)
	mean := numeric.Mean(times)
	std := numeric.Finite(numeric.StdDev(times))
	return model.OK(Performance{
		DriverID:         driverID,
		BestLap:          slices.Min(times),
		AverageLap:       mean,
		StdDeviation:     std,
		ConsistencyScore: 100 - numeric.Pct(std, mean),
		TotalLaps:        len(times),
		LapTimes:         times,
	})
}

type DetailParams struct {
	DriverID string
	Session  string
	Track    model.TrackSpec // zero value if the track is unknown
	TrackID  string
	Vehicle  model.VehicleSpec
}

// AnalyzeDetailed combines lap statistics with vehicle and track reference data.
//
//nolint:whitespace // editor/linter issue
func AnalyzeDetailed(
	p DetailParams, laps []model.LapRecord,
) model.Result[DetailedPerformance] {
	if len(laps) == 0 {
		return noDriverData[DetailedPerformance](p.DriverID)
	}
	laps = slices.Clone(laps)
	slices.SortFunc(laps, compareRecords)
	c := AnalyzeConsistency(p.DriverID, laps).Value
	times := Durations(laps)
	within1s := numeric.CountIf(times, func(v float64) bool {
		return v <= c.BestLap+extendedWindow
	})
	deltaToRecord := 0.0
	if p.Track.RecordSeconds > 0 {
		deltaToRecord = c.BestLap - p.Track.RecordSeconds
	}
	trackName := p.Track.Name
	if trackName == "" {
		trackName = p.TrackID
	}
	return model.OK(DetailedPerformance{
		DriverID: p.DriverID,
		Track:    trackName,
		Session:  p.Session,
		Vehicle:  p.Vehicle.Name,
		Performance: PerformanceSummary{
			BestLap:         c.BestLap,
			AverageLap:      c.AverageLap,
			TheoreticalBest: c.BestLap * theoreticalBestFactor,
			DeltaToRecord:   deltaToRecord,
			StdDeviation:    c.StdDeviation,
		},
		Consistency: ConsistencySummary{
			Score:         c.ConsistencyScore,
			Rating:        c.Rating,
			LapsWithin05s: c.LapsWithin05s,
			LapsWithin1s:  within1s,
			TotalLaps:     c.TotalLaps,
		},
		PaceAnalysis: AnalyzePace(times),
		VehicleSpecs: VehicleSummary{
			Horsepower:  p.Vehicle.Horsepower,
			WeightKg:    p.Vehicle.MassKg,
			TopSpeedKmh: p.Vehicle.TopSpeedKmh,
		},
		TrackInfo: TrackSummary{
			LengthKm:         p.Track.LengthKm,
			Turns:            p.Track.Turns,
			ElevationChangeM: p.Track.ElevationChangeM,
			TrackRecord:      p.Track.RecordSeconds,
		},
	})
}

// AnalyzePace splits the lap times (in lap order) into thirds. The last
// third takes the remainder.
func AnalyzePace(times []float64) model.Result[PaceAnalysis] {
	if len(times) < minPaceLaps {
		return model.Insufficient[PaceAnalysis](insufficientPaceReason)
	}
	third := len(times) / 3
	pace := func(xs []float64) StintPace {
		return StintPace{AvgLapTime: numeric.Mean(xs), BestLap: slices.Min(xs)}
	}
	early := pace(times[:third])
	late := pace(times[2*third:])
	return model.OK(PaceAnalysis{
		EarlyStint: early,
		MidStint:   pace(times[third : 2*third]),
		LateStint:  late,
		Degradation: PaceDegradation{
			EarlyToLateDelta: late.AvgLapTime - early.AvgLapTime,
		},
	})
}
