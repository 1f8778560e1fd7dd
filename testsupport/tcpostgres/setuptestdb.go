// Package tcpostgres provides migrated postgres databases for tests
package tcpostgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apex-racing/grcup-analytics/pkg/db/migrate"
	database "github.com/apex-racing/grcup-analytics/pkg/db/postgres"
	"github.com/apex-racing/grcup-analytics/testsupport/tccontainer"
)

// ContainerURL starts (or reuses) the postgres test container and returns
// the url of its database
func ContainerURL(ctx context.Context) (string, error) {
	c, err := tccontainer.Start(ctx, "postgres:17", "5432",
		tccontainer.WithName("grcup-analytics-test"),
		tccontainer.WithEnv("POSTGRES_USER", "postgres"),
		tccontainer.WithEnv("POSTGRES_PASSWORD", "password"),
		tccontainer.WithEnv("POSTGRES_DB", "postgres"),
		tccontainer.WithCmd("postgres", "-c", "fsync=off"),
		// postgres restarts once after the init scripts ran
		tccontainer.WithWaitForLog("database system is ready to accept connections", 2))
	if err != nil {
		return "", err
	}
	addr, err := c.Addr(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://postgres:password@%s/postgres", addr), nil
}

// Open migrates the database at dbURL and returns a pool for it
func Open(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if err := migrate.MigrateDB(dbURL); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return database.InitWithURL(ctx, dbURL)
}

// ClearAllTables removes all sessions. Tables and events are removed by
// cascade.
func ClearAllTables(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "delete from session")
	return err
}
