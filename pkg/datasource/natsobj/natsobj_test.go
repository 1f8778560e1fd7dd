package natsobj

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/testsupport/tcnats"
)

func TestParseObjectName(t *testing.T) {
	tests := []struct {
		name        string
		wantTrack   string
		wantSession string
		wantKind    model.DataKind
		wantOk      bool
	}{
		{"barber/R1/lap_start.csv", "barber", "R1", model.KindLapStart, true},
		{"barber/R1/telemetry.csv", "barber", "R1", model.KindTelemetry, true},
		{"barber/R1/sections.csv", "", "", "", false},
		{"barber/R1/telemetry.json", "", "", "", false},
		{"barber/telemetry.csv", "", "", "", false},
		{"/R1/telemetry.csv", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, session, kind, ok := ParseObjectName(tt.name)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantTrack, track)
			assert.Equal(t, tt.wantSession, session)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
	assert.Equal(t, "vir/R2/lap_end.csv", ObjectName("vir", "R2", model.KindLapEnd))
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a nats server")
	}
	ctx := context.Background()
	url, err := tcnats.SetupNats(ctx)
	require.NoError(t, err)
	// fresh bucket per run, the container is reused
	s, err := Connect(ctx, url, WithBucket("test_"+uuid.NewString()[:8]))
	require.NoError(t, err)
	defer s.Close()

	tracks, err := s.Tracks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tracks)

	t0 := time.Date(2025, 9, 6, 18, 40, 41, 926000000, time.UTC)
	tbl := &datasource.Table{Kind: model.KindLapStart, Events: []model.LapBoundaryEvent{
		{VehicleID: "GR86-002-2", Lap: 2, Timestamp: t0, Kind: model.KindLapStart},
	}}
	require.NoError(t, s.Store(ctx, "road-america", "R1", tbl))
	require.NoError(t, s.Store(ctx, "road-america", "R1", tbl))

	tracks, err = s.Tracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"road-america"}, tracks)
	sessions, err := s.Sessions(ctx, "road-america")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, sessions)

	got, err := s.Fetch(ctx, "road-america", "R1", model.KindLapStart)
	require.NoError(t, err)
	if diff := cmp.Diff(tbl, got); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
	_, err = s.Fetch(ctx, "road-america", "R1", model.KindTelemetry)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
}
