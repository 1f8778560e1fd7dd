// Package server exposes the analytics service over HTTP
package server

import (
	"net/http"

	"connectrpc.com/grpchealth"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/service"
)

// HealthService is the service name reported by the grpc health check
const HealthService = "gca.analytics.v1.AnalyticsService"

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithChartAssetsHost sets the location of the echarts javascript assets.
// The go-echarts default is used if empty.
func WithChartAssetsHost(host string) Option {
	return func(s *Server) {
		s.assetsHost = host
	}
}

type Server struct {
	svc        *service.Service
	log        *log.Logger
	assetsHost string
}

func New(svc *service.Service, opts ...Option) *Server {
	ret := &Server{
		svc: svc,
		log: log.Default().Named("http"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Handler returns the instrumented handler serving all routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker(HealthService)))

	var h http.Handler = mux
	h = s.recoverer(h)
	h = s.accessLog(h)
	h = requestID(h)
	return otelhttp.NewHandler(h, "gca",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if r.Pattern != "" {
				return r.Pattern
			}
			return r.Method + " " + r.URL.Path
		}))
}

//nolint:funlen // route table
func (s *Server) registerRoutes(mux *http.ServeMux) {
	const (
		analytics = "/api/analytics"
		telemetry = "/api/telemetry"
		strategy  = "/api/strategy"
		charts    = "/api/charts"
		session   = "/track/{track}/session/{session}"
		driver    = session + "/driver/{driver}"
	)
	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("GET "+analytics+"/tracks", s.tracks)
	mux.HandleFunc("GET "+analytics+"/track/{track}/sessions", s.sessions)
	mux.HandleFunc("GET "+analytics+session+"/drivers", s.drivers)
	mux.HandleFunc("GET "+analytics+session+"/best-lap", s.bestLap)
	mux.HandleFunc("GET "+analytics+driver+"/performance", s.performance)
	mux.HandleFunc("GET "+analytics+driver+"/detailed-performance", s.detailedPerformance)
	mux.HandleFunc("GET "+analytics+driver+"/speed-analysis", s.speedAnalysis)
	mux.HandleFunc("GET "+analytics+driver+"/braking-analysis", s.brakingAnalysis)
	mux.HandleFunc("GET "+analytics+driver+"/amicos-analysis", s.corneringAnalysis)
	mux.HandleFunc("GET "+analytics+driver+"/consistency", s.consistency)
	mux.HandleFunc("GET "+analytics+driver+"/tire-degradation", s.tireDegradation)
	mux.HandleFunc("POST "+analytics+driver+"/pit-strategy", s.pitStrategy)

	mux.HandleFunc("POST "+strategy+driver+"/pit-strategy", s.pitStrategy)
	mux.HandleFunc("GET "+strategy+driver+"/tire-degradation", s.tireDegradation)
	mux.HandleFunc("GET "+strategy+driver+"/consistency", s.consistency)

	mux.HandleFunc("GET "+telemetry+driver+"/lap/{lap}", s.lapTelemetry)
	mux.HandleFunc("GET "+telemetry+driver+"/braking-analysis", s.basicBraking)
	mux.HandleFunc("GET "+telemetry+driver+"/speed-analysis", s.basicSpeed)

	mux.HandleFunc("GET "+charts+driver+"/tire-degradation", s.tireDegradationChart)
	mux.HandleFunc("GET "+charts+driver+"/lap/{lap}/speed", s.lapSpeedChart)
}
