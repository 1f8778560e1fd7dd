package datasource

import (
	"context"
	"time"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/utils/cache"
	"github.com/apex-racing/grcup-analytics/pkg/utils/cache/loadercache"
)

type tableKey struct {
	track   string
	session string
	kind    model.DataKind
}

// Cached keeps the catalog and loaded tables of a source for a limited
// time. Tables are shared between requests and must not be modified.
type Cached struct {
	src      Source
	tracks   cache.Cache[string, []string]
	sessions cache.Cache[string, []string]
	tables   cache.Cache[tableKey, Table]
	l        *log.Logger
}

var _ Source = (*Cached)(nil)

func NewCached(src Source, expiration time.Duration) *Cached {
	l := log.Default().Named("datasource.cache")
	return &Cached{
		src: src,
		l:   l,
		tracks: loadercache.New(
			loadercache.WithExpiration[string, []string](expiration),
			loadercache.WithLogger[string, []string](l),
			loadercache.WithLoader(func(ctx context.Context, _ string) (*[]string, error) {
				ret, err := src.Tracks(ctx)
				return &ret, err
			})),
		sessions: loadercache.New(
			loadercache.WithExpiration[string, []string](expiration),
			loadercache.WithLogger[string, []string](l),
			loadercache.WithLoader(func(ctx context.Context, track string) (*[]string, error) {
				ret, err := src.Sessions(ctx, track)
				return &ret, err
			})),
		tables: loadercache.New(
			loadercache.WithExpiration[tableKey, Table](expiration),
			loadercache.WithLogger[tableKey, Table](l),
			loadercache.WithLoader(func(ctx context.Context, k tableKey) (*Table, error) {
				return src.Fetch(ctx, k.track, k.session, k.kind)
			})),
	}
}

func (c *Cached) Tracks(ctx context.Context) ([]string, error) {
	ret, err := c.tracks.Get(ctx, "")
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

func (c *Cached) Sessions(ctx context.Context, track string) ([]string, error) {
	ret, err := c.sessions.Get(ctx, track)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

//nolint:whitespace // editor/linter issue
func (c *Cached) Fetch(
	ctx context.Context, track, session string, kind model.DataKind,
) (*Table, error) {
	return c.tables.Get(ctx, tableKey{track, session, kind})
}

// Invalidate drops everything. It is called when the underlying data
// changed.
func (c *Cached) Invalidate(ctx context.Context) {
	c.l.Info("invalidating data source cache", log.Int("tables", c.tables.Len()))
	c.tracks.InvalidateAll(ctx)
	c.sessions.InvalidateAll(ctx)
	c.tables.InvalidateAll(ctx)
}
