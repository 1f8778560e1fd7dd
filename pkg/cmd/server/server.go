package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/apex-racing/grcup-analytics/log"
	cmdutil "github.com/apex-racing/grcup-analytics/pkg/cmd/util"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/factory"
	"github.com/apex-racing/grcup-analytics/pkg/db/postgres"
	"github.com/apex-racing/grcup-analytics/pkg/reference"
	"github.com/apex-racing/grcup-analytics/pkg/server"
	"github.com/apex-racing/grcup-analytics/pkg/service"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "starts the analytics http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.HTTPServerAddr,
		"addr",
		"a",
		"localhost:8000",
		"http server listen address")
	cmd.Flags().StringVar(&config.TLSServerAddr,
		"tls-addr",
		"",
		"https server listen address (requires a certificate)")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert-file",
		"",
		"path to TLS certificate")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key-file",
		"",
		"path to TLS key")
	cmd.Flags().StringVar(&config.TraefikCerts,
		"traefik-certs",
		"",
		"path to the traefik acme.json file")
	cmd.Flags().StringVar(&config.TraefikCertDomain,
		"traefik-cert-domain",
		"",
		"domain to lookup within the traefik certs")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().StringVar(&config.ReferenceFile,
		"reference-file",
		"",
		"yaml file with vehicle and track reference data (default: built-in)")
	cmd.Flags().StringVar(&config.CatalogExpiration,
		"catalog-expiration",
		config.DefaultCatalogExpiration.String(),
		"duration track/session listings and loaded data tables are cached")
	cmd.Flags().BoolVar(&config.WatchDataDir,
		"watch-data-dir",
		false,
		"invalidate cached listings when files in the data directory change")
	cmd.Flags().StringVar(&config.ChartAssetsHost,
		"chart-assets-host",
		"",
		"location of the echarts javascript assets")
	return cmd
}

//nolint:funlen,cyclop // by design
func startServer(ctx context.Context) error {
	logger := cmdutil.SetupLogger()
	sqlLogger := cmdutil.NewLogger(config.SQLLogLevel, log.InfoLevel)
	appConfig := config.NewConfig()
	var telemetry *config.Telemetry

	log.Debug("Config:",
		log.String("dataSource", config.DataSource),
		log.String("addr", config.HTTPServerAddr),
		log.Int("maxTelemetryRows", appConfig.MaxTelemetryRows),
		log.Duration("catalogExpiration", appConfig.CatalogExpiration),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	if err := cmdutil.WaitForRequiredServices(config.DataSource); err != nil {
		log.Error("required services not ready", log.ErrorField(err))
		return err
	}

	pgTraceOption := postgres.WithTracer(sqlLogger, log.DebugLevel)
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			pgTraceOption = postgres.WithOtlpTracer()
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	defer func() {
		if telemetry != nil {
			telemetry.Shutdown()
		}
	}()

	ref := reference.Default()
	if config.ReferenceFile != "" {
		var err error
		if ref, err = reference.Load(config.ReferenceFile); err != nil {
			log.Error("Could not load reference data",
				log.String("file", config.ReferenceFile), log.ErrorField(err))
			return err
		}
	}

	store, err := factory.Open(ctx, config.DataSource,
		factory.WithMaxRows(appConfig.MaxTelemetryRows),
		factory.WithNatsBucket(config.NatsBucket),
		factory.WithPoolOptions(pgTraceOption))
	if err != nil {
		log.Error("Could not open data source",
			log.String("dataSource", config.DataSource), log.ErrorField(err))
		return err
	}
	defer store.Close()
	cached := datasource.NewCached(store, appConfig.CatalogExpiration)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if dir, ok := store.(*csvfile.Dir); ok && appConfig.WatchDataDir {
		go func() {
			err := dir.Watch(watchCtx, func() { cached.Invalidate(watchCtx) })
			if err != nil {
				log.Warn("Could not watch data directory", log.ErrorField(err))
			}
		}()
	}

	svc := service.New(
		service.WithSource(cached),
		service.WithReference(ref))
	handler := server.New(svc,
		server.WithLogger(logger.Named("http")),
		server.WithChartAssetsHost(config.ChartAssetsHost)).Handler()

	//nolint:gosec // by design
	srv := &http.Server{
		Addr:    config.HTTPServerAddr,
		Handler: h2c.NewHandler(newCORS().Handler(handler), &http2.Server{}),
	}
	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting http server", log.String("addr", config.HTTPServerAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	var tlsSrv *http.Server
	if config.TLSServerAddr != "" {
		if tlsConfig := newTLSConfig(watchCtx); tlsConfig != nil {
			//nolint:gosec // by design
			tlsSrv = &http.Server{
				Addr:      config.TLSServerAddr,
				Handler:   newCORS().Handler(handler),
				TLSConfig: tlsConfig,
			}
			go func() {
				log.Info("Starting https server", log.String("addr", config.TLSServerAddr))
				err := tlsSrv.ListenAndServeTLS("", "")
				if !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
			}()
		} else {
			log.Warn("No certificate configured, https server not started")
		}
	}
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Could not shutdown server gracefully", log.ErrorField(err))
	}
	if tlsSrv != nil {
		if err := tlsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Could not shutdown https server gracefully", log.ErrorField(err))
		}
	}
	log.Info("Server terminated")
	return nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func newCORS() *cors.Cors {
	// Browser based dashboards are served from other origins, allow all of them.
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
			server.RequestIDHeader,
		},
		// FF caps this value at 24h, Chrome at 2h.
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
