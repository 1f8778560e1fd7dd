package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	v := d.Vehicle()
	assert.InDelta(t, 1270.0, v.MassKg, 0)
	assert.InDelta(t, 1.1, v.FrictionCoefficient, 0)
	assert.InDelta(t, 14.0, v.Brakes.MaxPressureFrontBar, 0)
	assert.Len(t, d.TrackIDs(), 7)

	barber, ok := d.Track("barber_motorsports_park")
	require.True(t, ok)
	assert.Equal(t, 17, barber.Turns)
	assert.InDelta(t, 89.5, barber.RecordSeconds, 0)

	_, ok = d.Track("nuerburgring")
	assert.False(t, ok)
}

func TestTrackIsCopy(t *testing.T) {
	d := Default()
	a, _ := d.Track("barber_motorsports_park")
	a.KeyCorners[0].Name = "changed"
	a.Turns = 1
	b, _ := d.Track("barber_motorsports_park")
	assert.Equal(t, "Turn 1", b.KeyCorners[0].Name)
	assert.Equal(t, 17, b.Turns)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, d *Data)
	}{
		{
			name: "add track and thresholds",
			content: `
thresholds:
  min_lap_seconds: 30
  max_lap_seconds: 120
  corner_lateral_g: 0.5
  corner_min_samples: 5
  brake_threshold_bar: 2
  trail_braking_lateral_g: 0.3
  pit_stop_cost_seconds: 20
  default_lap_seconds: 60
tracks:
  - id: kart_track
    name: Kart Track
    turns: 9
    record_seconds: 45
`,
			check: func(t *testing.T, d *Data) {
				kt, ok := d.Track("kart_track")
				require.True(t, ok)
				assert.Equal(t, 9, kt.Turns)
				assert.InDelta(t, 20.0, d.Thresholds().PitStopCostSeconds, 0)
				assert.Len(t, d.TrackIDs(), 8)
				assert.InDelta(t, 1270.0, d.Vehicle().MassKg, 0)
			},
		},
		{name: "track without id", content: "tracks:\n  - name: x\n", wantErr: true},
		{name: "broken yaml", content: "tracks: [", wantErr: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "ref"+string(rune('a'+i))+".yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			d, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().TrackIDs(), d.TrackIDs())
}
