package model

// VehicleSpec holds the physical constants of the series car.
//
//nolint:tagliatelle // snake case by convention
type VehicleSpec struct {
	Name                string  `yaml:"name" json:"name"`
	EngineType          string  `yaml:"engine_type" json:"engine_type"`
	Horsepower          int     `yaml:"horsepower" json:"horsepower"`
	TorqueNm            int     `yaml:"torque_nm" json:"torque_nm"`
	TopSpeedKmh         float64 `yaml:"top_speed_kmh" json:"top_speed_kmh"`
	MassKg              float64 `yaml:"mass_kg" json:"weight_kg"`
	WheelbaseM          float64 `yaml:"wheelbase_m" json:"wheelbase_m"`
	TrackWidthM         float64 `yaml:"track_width_m" json:"track_width_m"`
	CgHeightM           float64 `yaml:"cg_height_m" json:"cg_height_m"`
	YawInertia          float64 `yaml:"yaw_inertia" json:"yaw_inertia"`
	FrictionCoefficient float64 `yaml:"friction_coefficient" json:"friction_coefficient"`
	Brakes              Brakes  `yaml:"brakes" json:"brakes"`
}

//nolint:tagliatelle // snake case by convention
type Brakes struct {
	Front               string  `yaml:"front" json:"front"`
	Rear                string  `yaml:"rear" json:"rear"`
	ABS                 bool    `yaml:"abs" json:"abs"`
	MaxPressureFrontBar float64 `yaml:"max_pressure_front_bar" json:"max_pressure_front_bar"`
	MaxPressureRearBar  float64 `yaml:"max_pressure_rear_bar" json:"max_pressure_rear_bar"`
	LimitG              float64 `yaml:"limit_g" json:"limit_g"`
}

// Thresholds are the fixed tuning constants used by the analyzers
//
//nolint:tagliatelle // snake case by convention
type Thresholds struct {
	MinLapSeconds        float64 `yaml:"min_lap_seconds"`
	MaxLapSeconds        float64 `yaml:"max_lap_seconds"`
	CornerLateralG       float64 `yaml:"corner_lateral_g"`
	CornerMinSamples     int     `yaml:"corner_min_samples"`
	BrakeThresholdBar    float64 `yaml:"brake_threshold_bar"`
	TrailBrakingLateralG float64 `yaml:"trail_braking_lateral_g"`
	PitStopCostSeconds   float64 `yaml:"pit_stop_cost_seconds"`
	DefaultLapSeconds    float64 `yaml:"default_lap_seconds"`
}
