package model

// TrackSpec is the static reference data of a circuit.
//
//nolint:tagliatelle // snake case by convention
type TrackSpec struct {
	ID               string      `yaml:"id" json:"id"`
	Name             string      `yaml:"name" json:"name"`
	Location         string      `yaml:"location" json:"location"`
	LengthKm         float64     `yaml:"length_km" json:"length_km"`
	Turns            int         `yaml:"turns" json:"turns"`
	Direction        string      `yaml:"direction" json:"direction"`
	ElevationChangeM float64     `yaml:"elevation_change_m" json:"elevation_change_m"`
	RecordSeconds    float64     `yaml:"record_seconds" json:"track_record"`
	Sectors          int         `yaml:"sectors" json:"sectors"`
	KeyCorners       []KeyCorner `yaml:"key_corners" json:"key_corners,omitempty"`
}

//nolint:tagliatelle // snake case by convention
type KeyCorner struct {
	Name     string  `yaml:"name" json:"name"`
	Type     string  `yaml:"type" json:"type"`
	SpeedKmh float64 `yaml:"speed_kmh" json:"speed_kmh"`
}
