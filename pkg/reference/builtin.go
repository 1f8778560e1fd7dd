package reference

import "github.com/apex-racing/grcup-analytics/pkg/model"

var gr86Cup = model.VehicleSpec{
	Name:                "Toyota GR86 Cup",
	EngineType:          "2.4L Flat-4 Boxer",
	Horsepower:          228,
	TorqueNm:            249,
	TopSpeedKmh:         225,
	MassKg:              1270,
	WheelbaseM:          2.575,
	TrackWidthM:         1.52,
	CgHeightM:           0.48,
	YawInertia:          1800,
	FrictionCoefficient: 1.1,
	Brakes: model.Brakes{
		Front:               "Brembo 4-piston",
		Rear:                "Brembo 2-piston",
		ABS:                 true,
		MaxPressureFrontBar: 14.0,
		MaxPressureRearBar:  10.0,
		LimitG:              1.2,
	},
}

var defaultThresholds = model.Thresholds{
	MinLapSeconds:        60,
	MaxLapSeconds:        300,
	CornerLateralG:       0.4,
	CornerMinSamples:     10,
	BrakeThresholdBar:    2.0,
	TrailBrakingLateralG: 0.3,
	PitStopCostSeconds:   25.0,
	DefaultLapSeconds:    90.0,
}

//nolint:mnd,lll // reference data
var builtinTracks = []model.TrackSpec{
	{
		ID: "barber_motorsports_park", Name: "Barber Motorsports Park", Location: "Birmingham, Alabama",
		LengthKm: 3.7, Turns: 17, Direction: "Clockwise", ElevationChangeM: 24, RecordSeconds: 89.5, Sectors: 3,
		KeyCorners: []model.KeyCorner{
			{Name: "Turn 1", Type: "Heavy braking", SpeedKmh: 80},
			{Name: "Turn 5", Type: "High-speed", SpeedKmh: 140},
			{Name: "Turn 15", Type: "Technical", SpeedKmh: 95},
		},
	},
	{
		ID: "circuit_of_the_americas", Name: "Circuit of the Americas", Location: "Austin, Texas",
		LengthKm: 5.513, Turns: 20, Direction: "Counter-clockwise", ElevationChangeM: 41, RecordSeconds: 125.0, Sectors: 3,
		KeyCorners: []model.KeyCorner{
			{Name: "Turn 1", Type: "Uphill heavy braking", SpeedKmh: 70},
			{Name: "Turn 11", Type: "High-speed", SpeedKmh: 160},
			{Name: "Turn 19", Type: "Fast chicane", SpeedKmh: 120},
		},
	},
	{
		ID: "indianapolis", Name: "Indianapolis Motor Speedway Road Course", Location: "Indianapolis, Indiana",
		LengthKm: 3.925, Turns: 14, Direction: "Clockwise", ElevationChangeM: 8, RecordSeconds: 95.0, Sectors: 3,
	},
	{
		ID: "road_america", Name: "Road America", Location: "Elkhart Lake, Wisconsin",
		LengthKm: 6.515, Turns: 14, Direction: "Clockwise", ElevationChangeM: 45, RecordSeconds: 145.0, Sectors: 3,
	},
	{
		ID: "sebring", Name: "Sebring International Raceway", Location: "Sebring, Florida",
		LengthKm: 6.019, Turns: 17, Direction: "Clockwise", ElevationChangeM: 9, RecordSeconds: 135.0, Sectors: 3,
	},
	{
		ID: "sonoma", Name: "Sonoma Raceway", Location: "Sonoma, California",
		LengthKm: 4.052, Turns: 12, Direction: "Clockwise", ElevationChangeM: 52, RecordSeconds: 105.0, Sectors: 3,
	},
	{
		ID: "virginia_international_raceway", Name: "Virginia International Raceway", Location: "Alton, Virginia",
		LengthKm: 5.263, Turns: 18, Direction: "Clockwise", ElevationChangeM: 30, RecordSeconds: 120.0, Sectors: 3,
	},
}
