package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DataSource         string // url of the session data source (file path, postgresql://, sqlite://, nats://)
	DB                 string // connection string for the database used by migrate
	NatsBucket         string // object store bucket holding session files
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules applied to the logger
	MigrationSourceURL string // location of migration files (empty: embedded)
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry
	ProfilingPort      int    // port for profiling
	HTTPServerAddr     string // listen addr for the http server
	TLSServerAddr      string // listen addr for the https server
	TLSCertFile        string // path to TLS certificate
	TLSKeyFile         string // path to TLS key
	TraefikCerts       string // path to traefik acme certs file
	TraefikCertDomain  string // the domain to lookup within the traefik certs
	ReferenceFile      string // optional yaml file overriding vehicle/track reference data
	MaxTelemetryRows   int    // max number of telemetry rows read per request
	CatalogExpiration  string // duration listings and loaded tables are cached
	WatchDataDir       bool   // invalidate catalog cache on file changes (file data source)
	ChartAssetsHost    string // location of the echarts javascript assets
)

const (
	DefaultMaxTelemetryRows  = 200000
	DefaultCatalogExpiration = 5 * time.Minute
)

// Config holds the processed configuration values used by the application
type Config struct {
	MaxTelemetryRows  int
	CatalogExpiration time.Duration
	WatchDataDir      bool
}

// NewConfig creates a Config from the resolved CLI values.
// Invalid values are replaced by defaults.
func NewConfig() Config {
	ret := Config{
		MaxTelemetryRows:  MaxTelemetryRows,
		CatalogExpiration: DefaultCatalogExpiration,
		WatchDataDir:      WatchDataDir,
	}
	if ret.MaxTelemetryRows <= 0 {
		ret.MaxTelemetryRows = DefaultMaxTelemetryRows
	}
	if d, err := time.ParseDuration(CatalogExpiration); err == nil && d > 0 {
		ret.CatalogExpiration = d
	}
	return ret
}

// WaitTimeout returns the duration to wait for required services.
func WaitTimeout() (time.Duration, error) {
	return time.ParseDuration(WaitForServices)
}
