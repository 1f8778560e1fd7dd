package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/testsupport/sessiondata"
)

func sourceDir(t *testing.T) *csvfile.Dir {
	t.Helper()
	ctx := context.Background()
	src := csvfile.New(t.TempDir())
	starts, ends := sessiondata.LapTables()
	for _, tbl := range []*datasource.Table{starts, ends, sessiondata.Telemetry()} {
		require.NoError(t, src.Store(ctx, sessiondata.Track, sessiondata.Session, tbl))
	}
	require.NoError(t, src.Store(ctx, "sonoma", "R1", starts))
	return src
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	src := sourceDir(t)
	dst := datasource.NewMemory()

	stats, err := Import(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 2, stats.Sessions)

	tracks, err := dst.Tracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"barber", "sonoma"}, tracks)

	tbl, err := dst.Fetch(ctx, sessiondata.Track, sessiondata.Session, model.KindTelemetry)
	require.NoError(t, err)
	assert.Len(t, tbl.Samples, len(sessiondata.Telemetry().Samples))
}

func TestImportTrackFilter(t *testing.T) {
	ctx := context.Background()
	src := sourceDir(t)
	dst := datasource.NewMemory()

	stats, err := Import(ctx, src, dst, WithTracks("sonoma"))
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 1, Sessions: 1, Rows: stats.Rows}, stats)
	assert.Positive(t, stats.Rows)

	tracks, err := dst.Tracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sonoma"}, tracks)
}
