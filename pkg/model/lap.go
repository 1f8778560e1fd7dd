package model

import "time"

// LapBoundaryEvent marks the start or end of a timed lap.
// Kind is either KindLapStart or KindLapEnd.
type LapBoundaryEvent struct {
	VehicleID string
	Lap       int
	Timestamp time.Time
	Kind      DataKind
}

// LapRecord is a validated lap duration (in seconds)
type LapRecord struct {
	VehicleID string  `json:"vehicle_id"`
	Lap       int     `json:"lap"`
	Duration  float64 `json:"lap_time"`
}
