//nolint:funlen // ok for this test code
package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/testsupport/testdb"
)

var t0 = time.Date(2025, 9, 6, 18, 40, 41, 926000000, time.UTC)

func sampleTables() []*datasource.Table {
	return []*datasource.Table{
		{Kind: model.KindLapStart, Events: []model.LapBoundaryEvent{
			{VehicleID: "GR86-002-2", Lap: 2, Timestamp: t0, Kind: model.KindLapStart},
			{VehicleID: "GR86-002-2", Lap: 3, Timestamp: t0.Add(98 * time.Second), Kind: model.KindLapStart},
		}},
		{Kind: model.KindLapEnd, Events: []model.LapBoundaryEvent{
			{VehicleID: "GR86-002-2", Lap: 2, Timestamp: t0.Add(98 * time.Second), Kind: model.KindLapEnd},
		}},
		{Kind: model.KindTelemetry, Samples: []model.TelemetrySample{
			{VehicleID: "GR86-002-2", Lap: 2, Name: "speed", Value: 132.4, Timestamp: t0},
			{VehicleID: "GR86-002-2", Lap: 2, Name: "accy_can", Value: 0.9, Timestamp: t0},
			{
				VehicleID: "GR86-002-2", Lap: 2, Name: "speed", Value: 133.1,
				Timestamp: t0.Add(100 * time.Millisecond),
			},
		}},
	}
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a postgres database")
	}
	pool := testdb.InitTestDb(t)
	s := New(pool)
	defer s.Close()
	ctx := context.Background()

	for _, tbl := range sampleTables() {
		require.NoError(t, s.Store(ctx, "barber", "R1", tbl))
	}

	tracks, err := s.Tracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"barber"}, tracks)

	sessions, err := s.Sessions(ctx, "barber")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, sessions)

	_, err = s.Sessions(ctx, "sonoma")
	assert.True(t, errors.Is(err, datasource.ErrNotFound))

	for _, want := range sampleTables() {
		got, err := s.Fetch(ctx, "barber", "R1", want.Kind)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Fetch(%s) mismatch (-want +got):\n%s", want.Kind, diff)
		}
	}

	_, err = s.Fetch(ctx, "barber", "R2", model.KindTelemetry)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
	_, err = s.Fetch(ctx, "barber", "R1", model.DataKind("sections"))
	assert.True(t, errors.Is(err, datasource.ErrUnknownKind))
}

func TestStoreReplace(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a postgres database")
	}
	pool := testdb.InitTestDb(t)
	s := New(pool, WithMaxRows(1))
	ctx := context.Background()

	tbl := sampleTables()[2]
	require.NoError(t, s.Store(ctx, "barber", "R1", tbl))
	// unchanged content is skipped
	require.NoError(t, s.Store(ctx, "barber", "R1", tbl))

	tbl.Samples = tbl.Samples[2:]
	require.NoError(t, s.Store(ctx, "barber", "R1", tbl))

	got, err := s.Fetch(ctx, "barber", "R1", model.KindTelemetry)
	require.NoError(t, err)
	require.Len(t, got.Samples, 1)
	assert.Equal(t, 133.1, got.Samples[0].Value)

	_, err = s.Fetch(ctx, "barber", "R1", model.KindLapStart)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))

	// the row cap applies to lap events as well
	require.NoError(t, s.Store(ctx, "barber", "R1", sampleTables()[0]))
	got, err = s.Fetch(ctx, "barber", "R1", model.KindLapStart)
	require.NoError(t, err)
	require.Len(t, got.Events, 1)
	assert.Equal(t, 2, got.Events[0].Lap)
}
