// Package importer copies session files into a data source backend
package importer

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/datasource/csvfile"
)

type (
	Option  func(*options)
	options struct {
		tracks []string
		l      *log.Logger
	}
)

// WithTracks restricts the import to the given tracks
func WithTracks(tracks ...string) Option {
	return func(o *options) {
		o.tracks = tracks
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.l = l
	}
}

type Stats struct {
	Files    int
	Sessions int
	Rows     int
}

// Import stores every session file of src in dst. Stores skip tables
// whose content did not change since the last import.
func Import(ctx context.Context, src *csvfile.Dir, dst datasource.Sink, opts ...Option) (Stats, error) {
	o := &options{l: log.Default().Named("import")}
	for _, opt := range opts {
		opt(o)
	}
	files, err := src.Files(ctx)
	if err != nil {
		return Stats{}, err
	}
	if len(o.tracks) > 0 {
		files = lo.Filter(files, func(f csvfile.File, _ int) bool {
			return lo.Contains(o.tracks, f.Track)
		})
	}
	ret := Stats{
		Sessions: len(lo.UniqBy(files, func(f csvfile.File) string {
			return f.Track + "/" + f.Session
		})),
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		t, err := src.Read(f)
		if err != nil {
			return ret, err
		}
		if err := dst.Store(ctx, f.Track, f.Session, t); err != nil {
			return ret, fmt.Errorf("store %s: %w", f.Path, err)
		}
		rows := len(t.Events) + len(t.Samples)
		o.l.Debug("imported file",
			log.String("path", f.Path),
			log.String("kind", string(f.Kind)),
			log.Int("rows", rows))
		ret.Files++
		ret.Rows += rows
	}
	return ret, nil
}
