package cornering

import (
	"math"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

const (
	gravity       = 9.81
	kmhPerMs      = 3.6
	minRadiusG    = 0.1   // below this lateral g the radius is not derived
	defaultRadius = 100.0 // m
)

// Channels are the positionally aligned traces of one driver
type Channels struct {
	Speed    []float64 // km/h
	AccX     []float64 // g
	AccY     []float64 // g
	Steering []float64
}

func ChannelsOf(samples []model.TelemetrySample) Channels {
	return Channels{
		Speed:    channels.Series(samples, model.ChannelSpeed),
		AccX:     channels.Series(samples, model.ChannelAccX),
		AccY:     channels.Series(samples, model.ChannelAccY),
		Steering: channels.Series(samples, model.ChannelSteering),
	}
}

// Metrics holds the physical quantities of one corner
//
//nolint:tagliatelle // snake case by convention
type Metrics struct {
	CornerNumber           int     `json:"corner_number"`
	Samples                int     `json:"samples"`
	StartIndex             int     `json:"start_idx"`
	ApexIndex              int     `json:"apex_idx"`
	EndIndex               int     `json:"end_idx"`
	EntrySpeedKmh          float64 `json:"entry_speed_kmh"`
	ApexSpeedKmh           float64 `json:"apex_speed_kmh"`
	ExitSpeedKmh           float64 `json:"exit_speed_kmh"`
	TheoreticalMaxSpeedKmh float64 `json:"theoretical_max_speed_kmh"`
	SpeedEfficiencyPct     float64 `json:"speed_efficiency_pct"`
	CornerRadiusM          float64 `json:"corner_radius_m"`
	MaxLateralG            float64 `json:"max_lateral_g"`
	MaxCombinedG           float64 `json:"max_combined_g"`
	GripUtilizationPct     float64 `json:"grip_utilization_pct"`
	EntryMomentum          float64 `json:"entry_momentum"`
	ApexMomentum           float64 `json:"apex_momentum"`
	ExitMomentum           float64 `json:"exit_momentum"`
	AngularMomentum        float64 `json:"angular_momentum"`
	YawRate                float64 `json:"yaw_rate_rad_s"`
	LateralLoadTransferN   float64 `json:"lateral_load_transfer_n"`
	MomentumGainPct        float64 `json:"momentum_gain_pct"`
	MaxSteeringAngle       float64 `json:"max_steering_angle"`
}

// Rounded returns m with the output precision applied
func (m Metrics) Rounded() Metrics {
	r := func(v float64, places int32) float64 { return numeric.Round(v, places) }
	m.EntrySpeedKmh = r(m.EntrySpeedKmh, 1)
	m.ApexSpeedKmh = r(m.ApexSpeedKmh, 1)
	m.ExitSpeedKmh = r(m.ExitSpeedKmh, 1)
	m.TheoreticalMaxSpeedKmh = r(m.TheoreticalMaxSpeedKmh, 1)
	m.SpeedEfficiencyPct = r(m.SpeedEfficiencyPct, 1)
	m.CornerRadiusM = r(m.CornerRadiusM, 1)
	m.MaxLateralG = r(m.MaxLateralG, 2)
	m.MaxCombinedG = r(m.MaxCombinedG, 2)
	m.GripUtilizationPct = r(m.GripUtilizationPct, 1)
	m.EntryMomentum = r(m.EntryMomentum, 1)
	m.ApexMomentum = r(m.ApexMomentum, 1)
	m.ExitMomentum = r(m.ExitMomentum, 1)
	m.AngularMomentum = r(m.AngularMomentum, 1)
	m.YawRate = r(m.YawRate, 3)
	m.LateralLoadTransferN = r(m.LateralLoadTransferN, 1)
	m.MomentumGainPct = r(m.MomentumGainPct, 1)
	m.MaxSteeringAngle = r(m.MaxSteeringAngle, 1)
	return m
}

type Physics struct {
	vehicle model.VehicleSpec
}

func NewPhysics(vehicle model.VehicleSpec) *Physics {
	return &Physics{vehicle: vehicle}
}

// Radius derives the corner radius (m) from a = v²/r.
// A lateral load of up to minRadiusG yields the default radius.
func Radius(speedMs, lateralG float64) float64 {
	if lateralG <= minRadiusG {
		return defaultRadius
	}
	return numeric.Finite(speedMs * speedMs / (lateralG * gravity))
}

// MaxSpeed is the highest speed (m/s) a car with friction coefficient mu
// can carry through a corner of the given radius.
func MaxSpeed(mu, radius float64) float64 {
	return numeric.Finite(math.Sqrt(mu * gravity * radius))
}

// Analyze derives the metrics of corner number (1-based) from the samples
// of seg. Channels shorter than the segment contribute what they have.
func (p *Physics) Analyze(number int, seg Segment, ch Channels) Metrics {
	v := p.vehicle
	speed := numeric.Clip(ch.Speed, seg.Start, seg.End)
	accx := numeric.Clip(ch.AccX, seg.Start, seg.End)
	accy := numeric.Clip(ch.AccY, seg.Start, seg.End)
	steering := numeric.Clip(ch.Steering, seg.Start, seg.End)

	var entry, apex, exit float64
	if len(speed) > 0 {
		entry, apex, exit = speed[0], speed[len(speed)/2], speed[len(speed)-1]
	}
	entryMs, apexMs, exitMs := entry/kmhPerMs, apex/kmhPerMs, exit/kmhPerMs

	maxLat := numeric.Finite(numeric.Max(abs(accy)))
	radius := Radius(apexMs, maxLat)
	maxSpeedKmh := MaxSpeed(v.FrictionCoefficient, radius) * kmhPerMs

	var yawRate float64
	if radius > 0 {
		yawRate = numeric.SafeDiv(apexMs, radius)
	}
	maxCombined := numeric.Finite(numeric.Max(channels.CombinedG(accx, accy)))
	entryMomentum := v.MassKg * entryMs

	return Metrics{
		CornerNumber:           number,
		Samples:                seg.Len(),
		StartIndex:             seg.Start,
		ApexIndex:              seg.Apex,
		EndIndex:               seg.End,
		EntrySpeedKmh:          entry,
		ApexSpeedKmh:           apex,
		ExitSpeedKmh:           exit,
		TheoreticalMaxSpeedKmh: maxSpeedKmh,
		SpeedEfficiencyPct:     numeric.Pct(apex, maxSpeedKmh),
		CornerRadiusM:          radius,
		MaxLateralG:            maxLat,
		MaxCombinedG:           maxCombined,
		GripUtilizationPct:     numeric.Pct(maxCombined, v.FrictionCoefficient),
		EntryMomentum:          entryMomentum,
		ApexMomentum:           v.MassKg * apexMs,
		ExitMomentum:           v.MassKg * exitMs,
		AngularMomentum:        v.YawInertia * yawRate,
		YawRate:                yawRate,
		LateralLoadTransferN: numeric.SafeDiv(
			v.MassKg*maxLat*gravity*v.CgHeightM, v.TrackWidthM),
		MomentumGainPct:  momentumGain(entryMomentum, v.MassKg*exitMs),
		MaxSteeringAngle: numeric.Finite(numeric.Max(abs(steering))),
	}
}

func momentumGain(entry, exit float64) float64 {
	if entry <= 0 {
		return 0
	}
	return numeric.Pct(exit-entry, entry)
}

func abs(xs []float64) []float64 {
	ret := make([]float64, len(xs))
	for i, x := range xs {
		ret[i] = math.Abs(x)
	}
	return ret
}
