package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apex-racing/grcup-analytics/log"
	cmdutil "github.com/apex-racing/grcup-analytics/pkg/cmd/util"
	"github.com/apex-racing/grcup-analytics/pkg/config"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/factory"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/sqlite"
	"github.com/apex-racing/grcup-analytics/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		Long: `Migrates the postgres or sqlite database given by --db (or --data-source)
to the latest schema version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}

	cmd.Flags().StringVar(&config.DB,
		"db",
		"",
		"database url (default: value of --data-source)")
	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		"",
		"url to migration files (default: embedded migrations)")

	return cmd
}

func startMigration() error {
	logger := cmdutil.SetupLogger()
	dbURL := config.DB
	if dbURL == "" {
		dbURL = config.DataSource
	}
	opts := []migrate.Option{migrate.WithLogger(logger.Named("migrate"))}
	if config.MigrationSourceURL != "" {
		log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
		opts = append(opts, migrate.WithSourceURL(config.MigrationSourceURL))
	}

	switch factory.BackendOf(dbURL) {
	case factory.BackendPostgres:
		if err := cmdutil.WaitForRequiredServices(dbURL); err != nil {
			log.Error("database not ready", log.ErrorField(err))
			return err
		}
		return migrate.MigrateDB(dbURL, opts...)
	case factory.BackendSQLite:
		// opening a sqlite store migrates it
		s, err := sqlite.Open(factory.SQLitePath(dbURL),
			sqlite.WithLogger(logger.Named("sqlite")),
			sqlite.WithMigrations(opts...))
		if err != nil {
			return err
		}
		return s.Close()
	default:
		return fmt.Errorf("migrate: %q is not a database url", dbURL)
	}
}
