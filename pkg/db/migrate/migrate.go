package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// urls
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// sources
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/apex-racing/grcup-analytics/log"
)

//go:embed migrations
var migrations embed.FS

const (
	dirPostgres = "migrations/postgres"
	dirSQLite   = "migrations/sqlite"
)

type (
	Option  func(*options)
	options struct {
		sourceURL string
		l         *log.Logger
	}
)

// WithSourceURL reads the migrations from the given url (e.g.
// file:///migrations) instead of the embedded ones
func WithSourceURL(url string) Option {
	return func(o *options) {
		o.sourceURL = url
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.l = l
	}
}

func collect(opts []Option) *options {
	o := &options{l: log.Default().Named("migrate")}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MigrateDB migrates the postgres database at dbURI to the latest version
func MigrateDB(dbURI string, opts ...Option) error {
	o := collect(opts)
	dbURL := PrepareURLForDB(dbURI)
	var m *migrate.Migrate
	var err error
	if o.sourceURL != "" {
		m, err = migrate.New(o.sourceURL, dbURL)
	} else {
		source, srcErr := iofs.New(migrations, dirPostgres)
		if srcErr != nil {
			return srcErr
		}
		m, err = migrate.NewWithSourceInstance("iofs", source, dbURL)
	}
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m, o.l)
}

// MigrateSQLite migrates an opened sqlite database with the embedded
// migrations
func MigrateSQLite(db *sql.DB, opts ...Option) error {
	o := collect(opts)
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return err
	}
	source, err := iofs.New(migrations, dirSQLite)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}
	// closing m would close db
	return up(m, o.l)
}

func up(m *migrate.Migrate, l *log.Logger) error {
	m.Log = &migrateLogger{l: l}
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		l.Info("No migration required")
		return nil
	}
	if err != nil {
		return err
	}
	if v, dirty, vErr := m.Version(); vErr == nil {
		l.Info("Migration done", log.Uint64("version", uint64(v)), log.Bool("dirty", dirty))
	}
	return nil
}

// PrepareURLForDB converts a postgresql:// url for the pgx driver of
// golang-migrate and disables ssl unless configured
func PrepareURLForDB(url string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(url, prefix) {
			url = "pgx5://" + strings.TrimPrefix(url, prefix)
			break
		}
	}
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, "sslmode=disable")
	}
	return fmt.Sprintf("%s?%s", url, "sslmode=disable")
}

// migrateLogger adapts the project logger to migrate.Logger
type migrateLogger struct {
	l *log.Logger
}

func (m *migrateLogger) Printf(format string, v ...any) {
	m.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (m *migrateLogger) Verbose() bool {
	return m.l.Enabled(log.DebugLevel)
}
