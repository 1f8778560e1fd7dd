package importer

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apex-racing/grcup-analytics/log"
	cmdutil "github.com/apex-racing/grcup-analytics/pkg/cmd/util"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/factory"
	"github.com/apex-racing/grcup-analytics/pkg/db/migrate"
)

var (
	dryRun      bool
	trackFilter []string
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "imports session csv files into the configured data source",
		Long: `Reads all session files below <dir> (<dir>/<track>/<session>_<track>_<kind>.csv)
and stores them in the data source given by --data-source.
Unchanged files are skipped by the postgres, sqlite and nats backends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return startImport(cmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVar(&dryRun,
		"dry-run",
		false,
		"read and validate the files without storing them")
	cmd.Flags().StringSliceVar(&trackFilter,
		"track",
		[]string{},
		"import only these tracks (default: all)")
	return cmd
}

func startImport(ctx context.Context, dir string) error {
	logger := cmdutil.SetupLogger()
	var target datasource.Sink
	if dryRun {
		target = datasource.NewMemory()
	} else {
		if factory.BackendOf(config.DataSource) == factory.BackendFile {
			return fmt.Errorf("import: --data-source must be a postgres, sqlite or nats url")
		}
		if err := cmdutil.WaitForRequiredServices(config.DataSource); err != nil {
			return err
		}
		opts := []factory.Option{factory.WithMigration(migrate.WithLogger(logger.Named("migrate")))}
		if config.NatsBucket != "" {
			opts = append(opts, factory.WithNatsBucket(config.NatsBucket))
		}
		store, err := factory.Open(ctx, config.DataSource, opts...)
		if err != nil {
			return err
		}
		defer store.Close()
		target = store
	}
	stats, err := Import(ctx, csvfile.New(dir), target,
		WithTracks(trackFilter...), WithLogger(logger.Named("import")))
	if err != nil {
		return err
	}
	log.Info("import done",
		log.Int("files", stats.Files),
		log.Int("sessions", stats.Sessions),
		log.Int("rows", stats.Rows))
	return nil
}
