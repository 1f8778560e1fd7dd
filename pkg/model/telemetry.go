package model

import "time"

// well known telemetry channel names
const (
	ChannelSpeed        = "speed"
	ChannelVehicleSpeed = "vehspd_can"
	ChannelAccX         = "accx_can"
	ChannelAccY         = "accy_can"
	ChannelSteering     = "Steering_Angle"
	ChannelBrakeFront   = "pbrake_f"
	ChannelBrakeRear    = "pbrake_r"
	ChannelThrottle     = "aps"
)

type DataKind string

const (
	KindLapStart  DataKind = "lap_start"
	KindLapEnd    DataKind = "lap_end"
	KindTelemetry DataKind = "telemetry"
)

var DataKinds = []DataKind{KindLapStart, KindLapEnd, KindTelemetry}

func (k DataKind) Valid() bool {
	switch k {
	case KindLapStart, KindLapEnd, KindTelemetry:
		return true
	}
	return false
}

// TelemetrySample is a single channel observation of a vehicle
type TelemetrySample struct {
	VehicleID string
	Lap       int
	Name      string
	Value     float64
	Timestamp time.Time
}
