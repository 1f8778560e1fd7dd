package factory

import (
	"context"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/sqlite"
)

func TestBackendOf(t *testing.T) {
	tests := []struct {
		url  string
		want Backend
	}{
		{"postgresql://user:pw@localhost:5432/grcup", BackendPostgres},
		{"postgres://localhost/grcup", BackendPostgres},
		{"sqlite:///var/lib/gca/data.db", BackendSQLite},
		{"sqlite:data.db", BackendSQLite},
		{"nats://localhost:4222", BackendNats},
		{"file:///data", BackendFile},
		{"./data", BackendFile},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, BackendOf(tt.url))
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, "file://"+dir)
	assert.NilError(t, err)
	d, ok := s.(*csvfile.Dir)
	assert.Assert(t, ok)
	assert.Equal(t, dir, d.Root())

	s, err = Open(ctx, "sqlite://"+filepath.Join(dir, "gca.db"), WithMaxRows(10))
	assert.NilError(t, err)
	_, ok = s.(*sqlite.Store)
	assert.Assert(t, ok)
	assert.NilError(t, s.Close())

	_, err = Open(ctx, "")
	assert.ErrorContains(t, err, "no data source")
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "/var/lib/gca/data.db", SQLitePath("sqlite:///var/lib/gca/data.db"))
	assert.Equal(t, "data.db", SQLitePath("sqlite:data.db"))
}
