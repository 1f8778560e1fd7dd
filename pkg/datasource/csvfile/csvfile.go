// Package csvfile reads session files from a directory tree laid out as
// <root>/<track>/**/<session>_<name>_<kind>.csv
package csvfile

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
)

type (
	Option func(*Dir)
	Dir    struct {
		root    string
		maxRows int
		l       *log.Logger
	}
)

var _ datasource.Store = (*Dir)(nil)

func WithMaxRows(n int) Option {
	return func(d *Dir) {
		d.maxRows = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(d *Dir) {
		d.l = l
	}
}

func New(root string, opts ...Option) *Dir {
	d := &Dir{root: root, l: log.Default().Named("datasource.csvfile")}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dir) Root() string {
	return d.root
}

func hidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func (d *Dir) Tracks(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	ret := []string{}
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			ret = append(ret, e.Name())
		}
	}
	return ret, nil
}

// sessionFile is one recognized file below a track directory
type sessionFile struct {
	path    string
	session string
	kind    model.DataKind
}

// files returns the session files of track ordered by path
func (d *Dir) files(track string) ([]sessionFile, error) {
	if track == "" || hidden(track) || strings.ContainsAny(track, `/\`) {
		return nil, fmt.Errorf("track %s: %w", track, datasource.ErrNotFound)
	}
	trackDir := filepath.Join(d.root, track)
	if info, err := os.Stat(trackDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("track %s: %w", track, datasource.ErrNotFound)
	}
	ret := []sessionFile{}
	err := filepath.WalkDir(trackDir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			if path != trackDir && hidden(e.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if session, kind, ok := datasource.ParseFilename(e.Name()); ok {
			ret = append(ret, sessionFile{path: path, session: session, kind: kind})
		}
		return nil
	})
	return ret, err
}

func (d *Dir) Sessions(ctx context.Context, track string) ([]string, error) {
	files, err := d.files(track)
	if err != nil {
		return nil, err
	}
	sessions := map[string]struct{}{}
	for _, f := range files {
		sessions[f.session] = struct{}{}
	}
	return slices.SortedFunc(maps.Keys(sessions), cmp.Compare[string]), nil
}

//nolint:whitespace // editor/linter issue
func (d *Dir) Fetch(
	ctx context.Context, track, session string, kind model.DataKind,
) (*datasource.Table, error) {
	if err := datasource.CheckKind(kind); err != nil {
		return nil, err
	}
	files, err := d.files(track)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(files, func(f sessionFile) bool {
		return f.session == session && f.kind == kind
	})
	if idx < 0 {
		return nil, fmt.Errorf("%s/%s/%s: %w", track, session, kind, datasource.ErrNotFound)
	}
	return d.read(files[idx].path, kind)
}

func (d *Dir) read(path string, kind model.DataKind) (*datasource.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d.l.Debug("reading session file", log.String("path", path))
	t, err := datasource.DecodeCSV(f, kind, datasource.WithMaxRows(d.maxRows))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Store writes t to <root>/<track>/<session>_<track>_<kind>.csv
func (d *Dir) Store(ctx context.Context, track, session string, t *datasource.Table) error {
	if err := datasource.CheckKind(t.Kind); err != nil {
		return err
	}
	dir := filepath.Join(d.root, track)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, datasource.Filename(session, track, t.Kind))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := datasource.EncodeCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *Dir) Close() error {
	return nil
}

// Files lists all session files below root as track, session, kind and
// path. It drives the import command.
func (d *Dir) Files(ctx context.Context) ([]File, error) {
	tracks, err := d.Tracks(ctx)
	if err != nil {
		return nil, err
	}
	ret := []File{}
	for _, track := range tracks {
		files, err := d.files(track)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			ret = append(ret, File{Track: track, Session: f.session, Kind: f.kind, Path: f.path})
		}
	}
	return ret, nil
}

type File struct {
	Track   string
	Session string
	Kind    model.DataKind
	Path    string
}

// Read loads the table of f
func (d *Dir) Read(f File) (*datasource.Table, error) {
	return d.read(f.Path, f.Kind)
}
