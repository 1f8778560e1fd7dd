//nolint:whitespace // editor/linter issue
package service

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/cornering"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/laps"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/strategy"
	"github.com/apex-racing/grcup-analytics/pkg/model"
)

func (s *Service) Tracks(ctx context.Context) (ret []string, err error) {
	ctx, done := s.observe(ctx, "tracks")
	defer func() { done(&err) }()
	return s.src.Tracks(ctx)
}

func (s *Service) Sessions(ctx context.Context, track string) (ret []string, err error) {
	ctx, done := s.observe(ctx, "sessions", sessionAttrs(track, "")...)
	defer func() { done(&err) }()
	return s.src.Sessions(ctx, track)
}

// Drivers returns the vehicle ids found in the lap start table of the
// session in ascending order
func (s *Service) Drivers(ctx context.Context, track, session string) (ret []string, err error) {
	ctx, done := s.observe(ctx, "drivers", sessionAttrs(track, session)...)
	defer func() { done(&err) }()
	if err = s.checkSession(ctx, track, session); err != nil {
		return nil, err
	}
	t, err := s.fetch(ctx, track, session, model.KindLapStart)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return []string{}, nil
	}
	ret = lo.Uniq(lo.Map(t.Events, func(e model.LapBoundaryEvent, _ int) string {
		return e.VehicleID
	}))
	slices.Sort(ret)
	return ret, nil
}

func (s *Service) BestLap(
	ctx context.Context, track, session string,
) (ret model.Result[laps.BestLap], err error) {
	ctx, done := s.observe(ctx, "best-lap", sessionAttrs(track, session)...)
	defer func() { done(&err) }()
	records, err := s.lapRecords(ctx, track, session)
	if err != nil {
		return ret, err
	}
	return laps.FindBestLap(track, session, records), nil
}

func (s *Service) Performance(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[laps.Performance], err error) {
	ctx, done := s.observe(ctx, "performance", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	records, err := s.driverLaps(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	return laps.AnalyzePerformance(driverID, records), nil
}

func (s *Service) DetailedPerformance(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[laps.DetailedPerformance], err error) {
	ctx, done := s.observe(ctx, "detailed-performance", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	records, err := s.driverLaps(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	spec, _ := s.ref.Track(track)
	return laps.AnalyzeDetailed(laps.DetailParams{
		DriverID: driverID,
		Session:  session,
		Track:    spec,
		TrackID:  track,
		Vehicle:  s.ref.Vehicle(),
	}, records), nil
}

func (s *Service) Consistency(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[laps.Consistency], err error) {
	ctx, done := s.observe(ctx, "consistency", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	records, err := s.driverLaps(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	return laps.AnalyzeConsistency(driverID, records), nil
}

func (s *Service) TireDegradation(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[laps.Degradation], err error) {
	ctx, done := s.observe(ctx, "tire-degradation", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	records, err := s.driverLaps(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	return laps.PredictDegradation(driverID, records), nil
}

// PitStrategy returns strategy.ErrInvalidRequest for invalid request
// values. A session without any lap records yields NoData, a driver
// without laps uses the default lap time.
func (s *Service) PitStrategy(
	ctx context.Context, track, session, driverID string, req strategy.PitRequest,
) (ret model.Result[strategy.PitStrategy], err error) {
	ctx, done := s.observe(ctx, "pit-strategy", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	if err = req.Validate(); err != nil {
		return ret, err
	}
	records, err := s.lapRecords(ctx, track, session)
	if err != nil {
		return ret, err
	}
	if len(records) == 0 {
		return strategy.NoLapData(), nil
	}
	return s.pit.Calculate(req, laps.ForVehicle(records, driverID))
}

func (s *Service) Braking(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[channels.Braking], err error) {
	ctx, done := s.observe(ctx, "braking-analysis", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	if len(samples) == 0 {
		return model.NoData[channels.Braking](channels.NoTelemetryReason), nil
	}
	spec, _ := s.ref.Track(track)
	return s.channels.Braking(driverID, samples, spec), nil
}

func (s *Service) BasicBraking(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[channels.BasicBraking], err error) {
	ctx, done := s.observe(ctx, "basic-braking-analysis", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	if len(samples) == 0 {
		return model.NoData[channels.BasicBraking](channels.NoTelemetryReason), nil
	}
	return s.channels.BasicBraking(driverID, samples), nil
}

func (s *Service) Speed(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[channels.Speed], err error) {
	ctx, done := s.observe(ctx, "speed-analysis", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	if len(samples) == 0 {
		return model.NoData[channels.Speed](channels.NoTelemetryReason), nil
	}
	return s.channels.Speed(driverID, samples), nil
}

func (s *Service) BasicSpeed(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[channels.BasicSpeed], err error) {
	ctx, done := s.observe(ctx, "basic-speed-analysis", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	if len(samples) == 0 {
		return model.NoData[channels.BasicSpeed](channels.NoTelemetryReason), nil
	}
	return s.channels.BasicSpeed(driverID, samples), nil
}

// Cornering runs the corner detection, physics, fingerprint and
// recommendation pipeline for the driver
func (s *Service) Cornering(
	ctx context.Context, track, session, driverID string,
) (ret model.Result[cornering.Analysis], err error) {
	ctx, done := s.observe(ctx, "cornering-analysis", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	return s.engine.Analyze(driverID, samples), nil
}

func (s *Service) LapTelemetry(
	ctx context.Context, track, session, driverID string, lap int,
) (ret model.Result[channels.LapSummary], err error) {
	ctx, done := s.observe(ctx, "lap-telemetry", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return ret, err
	}
	return s.channels.LapSummary(driverID, lap, samples), nil
}

// LapSpeedTrace returns the vehicle speed samples of one lap in time order
func (s *Service) LapSpeedTrace(
	ctx context.Context, track, session, driverID string, lap int,
) (ret []model.TelemetrySample, err error) {
	ctx, done := s.observe(ctx, "lap-speed-trace", driverAttrs(track, session, driverID)...)
	defer func() { done(&err) }()
	samples, err := s.driverSamples(ctx, track, session, driverID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(channels.ForLap(samples, lap), func(v model.TelemetrySample, _ int) bool {
		return v.Name == model.ChannelVehicleSpeed
	}), nil
}
