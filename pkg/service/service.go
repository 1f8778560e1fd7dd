// Package service loads session data from a data source and runs the
// analyzers on it. Each call derives its result from the source data,
// nothing computed is kept between calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/cornering"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/laps"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/strategy"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/reference"
)

type Option func(*Service)

func WithSource(src datasource.Source) Option {
	return func(s *Service) {
		s.src = src
	}
}

func WithReference(ref *reference.Data) Option {
	return func(s *Service) {
		s.ref = ref
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithMeter(meter metric.Meter) Option {
	return func(s *Service) {
		s.meter = meter
	}
}

type Service struct {
	src      datasource.Source
	ref      *reference.Data
	log      *log.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	duration metric.Float64Histogram

	recon    *laps.Reconstructor
	channels *channels.Analyzer
	engine   *cornering.Engine
	pit      *strategy.Calculator
}

func New(opts ...Option) *Service {
	ret := &Service{
		log: log.Default().Named("service.analytics"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.ref == nil {
		ret.ref = reference.Default()
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("gca")
	}
	if ret.meter == nil {
		ret.meter = otel.Meter("gca")
	}
	ret.duration, _ = ret.meter.Float64Histogram("gca.analysis.duration",
		metric.WithDescription("duration of an analysis request"),
		metric.WithUnit("s"))

	vehicle, th := ret.ref.Vehicle(), ret.ref.Thresholds()
	ret.recon = laps.NewReconstructor(th)
	ret.channels = channels.NewAnalyzer(vehicle, th)
	ret.engine = cornering.NewEngine(vehicle, th)
	ret.pit = strategy.NewCalculator(th)
	return ret
}

func (s *Service) Reference() *reference.Data {
	return s.ref
}

// observe starts a span for op. The returned func ends it and records the
// duration, it expects a pointer to the named error result of the caller.
//
//nolint:whitespace // editor/linter issue
func (s *Service) observe(
	ctx context.Context, op string, attrs ...attribute.KeyValue,
) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		s.duration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("operation", op)))
		span.End()
	}
}

func sessionAttrs(track, session string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("track", track),
		attribute.String("session", session),
	}
}

func driverAttrs(track, session, driverID string) []attribute.KeyValue {
	return append(sessionAttrs(track, session), attribute.String("driver", driverID))
}

// fetch loads a table of a known session. A missing table is returned as
// nil without error.
//
//nolint:whitespace // editor/linter issue
func (s *Service) fetch(
	ctx context.Context, track, session string, kind model.DataKind,
) (*datasource.Table, error) {
	t, err := s.src.Fetch(ctx, track, session, kind)
	if errors.Is(err, datasource.ErrNotFound) {
		s.log.Debug("table not available",
			log.String("track", track), log.String("session", session),
			log.String("kind", string(kind)))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s/%s: %w", track, session, kind, err)
	}
	return t, nil
}

func (s *Service) checkSession(ctx context.Context, track, session string) error {
	return datasource.CheckSession(ctx, s.src, track, session)
}

// lapRecords reconstructs the lap records of all drivers of the session.
// It returns datasource.ErrNotFound for an unknown track or session.
func (s *Service) lapRecords(ctx context.Context, track, session string) ([]model.LapRecord, error) {
	if err := s.checkSession(ctx, track, session); err != nil {
		return nil, err
	}
	starts, err := s.fetch(ctx, track, session, model.KindLapStart)
	if err != nil || starts == nil {
		return nil, err
	}
	ends, err := s.fetch(ctx, track, session, model.KindLapEnd)
	if err != nil || ends == nil {
		return nil, err
	}
	return s.recon.Reconstruct(starts.Events, ends.Events), nil
}

//nolint:whitespace // editor/linter issue
func (s *Service) driverLaps(
	ctx context.Context, track, session, driverID string,
) ([]model.LapRecord, error) {
	records, err := s.lapRecords(ctx, track, session)
	if err != nil {
		return nil, err
	}
	return laps.ForVehicle(records, driverID), nil
}

// driverSamples returns the ordered telemetry samples of the driver
//
//nolint:whitespace // editor/linter issue
func (s *Service) driverSamples(
	ctx context.Context, track, session, driverID string,
) ([]model.TelemetrySample, error) {
	if err := s.checkSession(ctx, track, session); err != nil {
		return nil, err
	}
	t, err := s.fetch(ctx, track, session, model.KindTelemetry)
	if err != nil || t == nil {
		return nil, err
	}
	return channels.ForVehicle(t.Samples, driverID), nil
}
