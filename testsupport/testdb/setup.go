package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	tcpg "github.com/apex-racing/grcup-analytics/testsupport/tcpostgres"
)

// InitTestDb returns a pool to an empty, migrated test database. The
// database given by TESTDB_URL is used if set, a container otherwise.
func InitTestDb(t testing.TB) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	dbURL := os.Getenv("TESTDB_URL")
	if dbURL == "" {
		var err error
		dbURL, err = tcpg.ContainerURL(ctx)
		require.NoError(t, err)
	}
	pool, err := tcpg.Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, tcpg.ClearAllTables(ctx, pool))
	return pool
}
