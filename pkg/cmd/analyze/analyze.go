package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	cmdutil "github.com/apex-racing/grcup-analytics/pkg/cmd/util"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/factory"
	"github.com/apex-racing/grcup-analytics/pkg/reference"
	"github.com/apex-racing/grcup-analytics/pkg/service"
)

type Request struct {
	Track    string
	Session  string
	Driver   string
	Analysis string
	Lap      int
}

type analysisFunc func(ctx context.Context, svc *service.Service, r Request) (any, error)

var analyses = map[string]analysisFunc{
	"drivers": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Drivers(ctx, r.Track, r.Session)
	},
	"best-lap": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.BestLap(ctx, r.Track, r.Session)
	},
	"performance": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Performance(ctx, r.Track, r.Session, r.Driver)
	},
	"detailed-performance": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.DetailedPerformance(ctx, r.Track, r.Session, r.Driver)
	},
	"consistency": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Consistency(ctx, r.Track, r.Session, r.Driver)
	},
	"tire-degradation": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.TireDegradation(ctx, r.Track, r.Session, r.Driver)
	},
	"speed": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Speed(ctx, r.Track, r.Session, r.Driver)
	},
	"braking": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Braking(ctx, r.Track, r.Session, r.Driver)
	},
	"cornering": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.Cornering(ctx, r.Track, r.Session, r.Driver)
	},
	"lap": func(ctx context.Context, svc *service.Service, r Request) (any, error) {
		return svc.LapTelemetry(ctx, r.Track, r.Session, r.Driver, r.Lap)
	},
}

// Analyses returns the names accepted by --analysis
func Analyses() []string {
	ret := make([]string, 0, len(analyses))
	for k := range analyses {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}

var req Request

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "runs an analysis on a session and prints the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startAnalyze(cmd.Context(), os.Stdout)
		},
	}
	cmd.Flags().StringVar(&req.Track, "track", "", "track id")
	cmd.Flags().StringVar(&req.Session, "session", "", "session id (R1, R2, ...)")
	cmd.Flags().StringVar(&req.Driver, "driver", "", "vehicle id of the driver")
	cmd.Flags().StringVar(&req.Analysis, "analysis", "cornering",
		fmt.Sprintf("analysis to run (%s)", strings.Join(Analyses(), ", ")))
	cmd.Flags().IntVar(&req.Lap, "lap", 0, "lap number (analysis lap)")
	cmd.Flags().StringVar(&config.ReferenceFile,
		"reference-file",
		"",
		"yaml file with vehicle and track reference data (default: built-in)")
	_ = cmd.MarkFlagRequired("track")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func startAnalyze(ctx context.Context, w io.Writer) error {
	cmdutil.SetupLogger()
	if err := cmdutil.WaitForRequiredServices(config.DataSource); err != nil {
		return err
	}
	ref := reference.Default()
	if config.ReferenceFile != "" {
		var err error
		if ref, err = reference.Load(config.ReferenceFile); err != nil {
			return err
		}
	}
	store, err := factory.Open(ctx, config.DataSource,
		factory.WithMaxRows(config.NewConfig().MaxTelemetryRows),
		factory.WithNatsBucket(config.NatsBucket))
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(service.WithSource(store), service.WithReference(ref))
	return Run(ctx, svc, w, req)
}

// Run executes the analysis named by r and writes the indented JSON result to w
func Run(ctx context.Context, svc *service.Service, w io.Writer, r Request) error {
	fn, ok := analyses[r.Analysis]
	if !ok {
		return fmt.Errorf("unknown analysis %q (valid: %s)",
			r.Analysis, strings.Join(Analyses(), ", "))
	}
	res, err := fn(ctx, svc, r)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
