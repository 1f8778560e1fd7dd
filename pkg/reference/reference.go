// Package reference provides the static vehicle and track data shared by
// all analyzers. A Data value is never modified after construction.
package reference

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

type Data struct {
	vehicle    model.VehicleSpec
	thresholds model.Thresholds
	tracks     map[string]model.TrackSpec
}

// overlay mirrors the yaml layout of a reference file.
// Missing sections keep the built-in values.
type overlay struct {
	Vehicle    *model.VehicleSpec `yaml:"vehicle"`
	Thresholds *model.Thresholds  `yaml:"thresholds"`
	Tracks     []model.TrackSpec  `yaml:"tracks"`
}

func Default() *Data {
	tracks := make(map[string]model.TrackSpec, len(builtinTracks))
	for _, t := range builtinTracks {
		tracks[t.ID] = t
	}
	return &Data{
		vehicle:    gr86Cup,
		thresholds: defaultThresholds,
		tracks:     tracks,
	}
}

// Load returns the built-in data with the content of the yaml file at path
// applied on top. Tracks are replaced or added by id.
func Load(path string) (*Data, error) {
	ret := Default()
	if path == "" {
		return ret, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var o overlay
	if err := yaml.Unmarshal(content, &o); err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}
	if o.Vehicle != nil {
		ret.vehicle = *o.Vehicle
	}
	if o.Thresholds != nil {
		ret.thresholds = *o.Thresholds
	}
	for _, t := range o.Tracks {
		if t.ID == "" {
			return nil, fmt.Errorf("reference file %s: track without id", path)
		}
		ret.tracks[t.ID] = t
	}
	return ret, nil
}

func (d *Data) Vehicle() model.VehicleSpec {
	return d.vehicle
}

func (d *Data) Thresholds() model.Thresholds {
	return d.thresholds
}

// Track returns the spec for the track id.
func (d *Data) Track(id string) (model.TrackSpec, bool) {
	t, ok := d.tracks[id]
	if !ok {
		return model.TrackSpec{}, false
	}
	t.KeyCorners = slices.Clone(t.KeyCorners)
	return t, true
}

// TrackIDs returns the known track ids in ascending order
func (d *Data) TrackIDs() []string {
	ret := make([]string, 0, len(d.tracks))
	for k := range d.tracks {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
