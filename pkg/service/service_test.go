//nolint:funlen // ok for this test code
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/strategy"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	sd "github.com/apex-racing/grcup-analytics/testsupport/sessiondata"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	src, err := sd.Memory(context.Background())
	require.NoError(t, err)
	return New(WithSource(src))
}

func TestCatalog(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tracks, err := s.Tracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sd.Track}, tracks)

	sessions, err := s.Sessions(ctx, sd.Track)
	require.NoError(t, err)
	assert.Equal(t, []string{sd.Session, sd.NoLapsSes}, sessions)

	drivers, err := s.Drivers(ctx, sd.Track, sd.Session)
	require.NoError(t, err)
	assert.Equal(t, []string{sd.DriverA, sd.DriverB}, drivers)

	drivers, err = s.Drivers(ctx, sd.Track, sd.NoLapsSes)
	require.NoError(t, err)
	assert.Empty(t, drivers)

	_, err = s.Drivers(ctx, sd.Track, "R9")
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
	_, err = s.Sessions(ctx, "sebring")
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
}

func TestLapAnalyses(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	best, err := s.BestLap(ctx, sd.Track, sd.Session)
	require.NoError(t, err)
	require.True(t, best.IsOK())
	assert.Equal(t, sd.DriverB, best.Value.DriverID)
	assert.Equal(t, 1, best.Value.LapNumber)
	assert.InDelta(t, 97.5, best.Value.BestLapTime, 1e-6)

	perf, err := s.Performance(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, perf.IsOK())
	assert.Equal(t, 6, perf.Value.TotalLaps)
	assert.InDelta(t, 98.0, perf.Value.BestLap, 1e-6)

	detailed, err := s.DetailedPerformance(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, detailed.IsOK())
	assert.True(t, detailed.Value.PaceAnalysis.IsOK())

	cons, err := s.Consistency(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, cons.IsOK())
	// 98.0, 98.3, 98.2 are within 0.5s of the best lap
	assert.Equal(t, 3, cons.Value.LapsWithin05s)

	deg, err := s.TireDegradation(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, deg.IsOK())
	assert.Greater(t, deg.Value.DegradationRatePerLap, 0.0)
	assert.Len(t, deg.Value.LapDeltas, 6)

	unknown, err := s.Consistency(ctx, sd.Track, sd.Session, "GR86-999-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoData, unknown.Status)

	noLaps, err := s.BestLap(ctx, sd.Track, sd.NoLapsSes)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoData, noLaps.Status)

	_, err = s.Performance(ctx, "sonoma", sd.Session, sd.DriverA)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
}

func TestPitStrategy(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.PitStrategy(ctx, sd.Track, sd.Session, sd.DriverA,
		strategy.PitRequest{CurrentLap: 10, TotalLaps: 300, TireAge: 15})
	require.NoError(t, err)
	require.True(t, res.IsOK())
	require.NotNil(t, res.Value.OptimalPitLap)
	assert.Equal(t, 260, *res.Value.OptimalPitLap)
	assert.Equal(t, strategy.RecStayOut, res.Value.Recommendation)

	res, err = s.PitStrategy(ctx, sd.Track, sd.NoLapsSes, sd.DriverA,
		strategy.PitRequest{CurrentLap: 10, TotalLaps: 30, TireAge: 5})
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoData, res.Status)

	_, err = s.PitStrategy(ctx, sd.Track, sd.Session, sd.DriverA,
		strategy.PitRequest{CurrentLap: -1})
	assert.True(t, errors.Is(err, strategy.ErrInvalidRequest))
}

func TestTelemetryAnalyses(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	corners, err := s.Cornering(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, corners.IsOK())
	assert.Equal(t, 2, corners.Value.CornersDetected)
	assert.Len(t, corners.Value.Corners, 2)

	noData, err := s.Cornering(ctx, sd.Track, sd.Session, sd.DriverB)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoData, noData.Status)

	braking, err := s.Braking(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, braking.IsOK())
	assert.Equal(t, 2, braking.Value.Metrics.BrakeApplications)

	speed, err := s.Speed(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	require.True(t, speed.IsOK())
	assert.InDelta(t, 160.0, speed.Value.Metrics.VMax, 1e-9)

	basicSpeed, err := s.BasicSpeed(ctx, sd.Track, sd.Session, sd.DriverB)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoData, basicSpeed.Status)
	assert.Equal(t, channels.NoTelemetryReason, basicSpeed.Reason)

	basicBraking, err := s.BasicBraking(ctx, sd.Track, sd.Session, sd.DriverA)
	require.NoError(t, err)
	assert.True(t, basicBraking.IsOK())

	lap, err := s.LapTelemetry(ctx, sd.Track, sd.Session, sd.DriverA, sd.TelemLap)
	require.NoError(t, err)
	require.True(t, lap.IsOK())
	assert.Equal(t, 800, lap.Value.DataPoints)

	trace, err := s.LapSpeedTrace(ctx, sd.Track, sd.Session, sd.DriverA, sd.TelemLap)
	require.NoError(t, err)
	assert.Len(t, trace, 100)
}
