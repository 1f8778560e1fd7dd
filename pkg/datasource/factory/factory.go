// Package factory opens the data source backend selected by a url
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/natsobj"
	pgstore "github.com/apex-racing/grcup-analytics/pkg/datasource/postgres"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/sqlite"
	"github.com/apex-racing/grcup-analytics/pkg/db/migrate"
	database "github.com/apex-racing/grcup-analytics/pkg/db/postgres"
)

type Backend string

const (
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendNats     Backend = "nats"
)

type (
	Option func(*options)

	options struct {
		maxRows     int
		natsBucket  string
		migrate     bool
		migrateOpts []migrate.Option
		poolOpts    []database.PoolConfigOption
	}
)

func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

func WithNatsBucket(bucket string) Option {
	return func(o *options) {
		o.natsBucket = bucket
	}
}

// WithMigration migrates a postgres database before opening it
func WithMigration(opts ...migrate.Option) Option {
	return func(o *options) {
		o.migrate = true
		o.migrateOpts = opts
	}
}

func WithPoolOptions(opts ...database.PoolConfigOption) Option {
	return func(o *options) {
		o.poolOpts = append(o.poolOpts, opts...)
	}
}

// BackendOf derives the backend from the url scheme. Urls without a known
// scheme are treated as directory paths.
func BackendOf(url string) Backend {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(url, "sqlite:"):
		return BackendSQLite
	case strings.HasPrefix(url, "nats://"):
		return BackendNats
	default:
		return BackendFile
	}
}

// SQLitePath returns the file path of a sqlite: or sqlite:// url
func SQLitePath(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, "sqlite:"), "//")
}

// Open opens the backend for url. The caller must Close the returned store.
func Open(ctx context.Context, url string, opts ...Option) (datasource.Store, error) {
	o := &options{natsBucket: natsobj.DefaultBucket}
	for _, opt := range opts {
		opt(o)
	}
	switch BackendOf(url) {
	case BackendPostgres:
		return openPostgres(ctx, url, o)
	case BackendSQLite:
		s, err := sqlite.Open(SQLitePath(url),
			sqlite.WithMaxRows(o.maxRows), sqlite.WithMigrations(o.migrateOpts...))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendNats:
		s, err := natsobj.Connect(ctx, url,
			natsobj.WithBucket(o.natsBucket), natsobj.WithMaxRows(o.maxRows))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		if url == "" {
			return nil, fmt.Errorf("no data source configured")
		}
		return csvfile.New(strings.TrimPrefix(url, "file://"),
			csvfile.WithMaxRows(o.maxRows)), nil
	}
}

// pgStore closes the pool it was opened with
type pgStore struct {
	*pgstore.Store
	close func()
}

func (s *pgStore) Close() error {
	s.close()
	return nil
}

func openPostgres(ctx context.Context, url string, o *options) (datasource.Store, error) {
	if o.migrate {
		if err := migrate.MigrateDB(url, o.migrateOpts...); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := database.InitWithURL(ctx, url, o.poolOpts...)
	if err != nil {
		return nil, err
	}
	return &pgStore{
		Store: pgstore.New(pool, pgstore.WithMaxRows(o.maxRows)),
		close: pool.Close,
	}, nil
}
