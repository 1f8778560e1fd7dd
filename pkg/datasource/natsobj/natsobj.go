// Package natsobj keeps session tables as csv objects in a NATS JetStream
// object store. Objects are named <track>/<session>/<kind>.csv
package natsobj

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/utils"
)

const (
	DefaultBucket = "grcup_sessions"
	metaHash      = "content-hash"
)

type (
	Option func(*Store)
	Store  struct {
		nc      *nats.Conn
		ownConn bool
		bucket  string
		maxRows int
		obs     jetstream.ObjectStore
		l       *log.Logger
	}
)

var _ datasource.Store = (*Store)(nil)

func WithBucket(bucket string) Option {
	return func(s *Store) {
		s.bucket = bucket
	}
}

func WithMaxRows(n int) Option {
	return func(s *Store) {
		s.maxRows = n
	}
}

// Connect dials the NATS server and opens the store. The connection is
// closed by Close.
func Connect(ctx context.Context, url string, opts ...Option) (*Store, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, nc, opts...)
	if err != nil {
		nc.Close()
		return nil, err
	}
	s.ownConn = true
	return s, nil
}

// New opens the store on an existing connection, creating the bucket if
// needed
func New(ctx context.Context, nc *nats.Conn, opts ...Option) (*Store, error) {
	s := &Store{
		nc:     nc,
		bucket: DefaultBucket,
		l:      log.Default().Named("datasource.natsobj"),
	}
	for _, opt := range opts {
		opt(s)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}
	s.obs, err = js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      s.bucket,
		Description: "GR Cup session data",
	})
	if err != nil {
		return nil, err
	}
	s.l.Debug("object store ready", log.String("bucket", s.bucket))
	return s, nil
}

func (s *Store) Close() error {
	if s.ownConn {
		s.nc.Close()
	}
	return nil
}

func ObjectName(track, session string, kind model.DataKind) string {
	return fmt.Sprintf("%s/%s/%s.csv", track, session, kind)
}

// ParseObjectName is the inverse of ObjectName
func ParseObjectName(name string) (track, session string, kind model.DataKind, ok bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", "", false
	}
	kind = model.DataKind(strings.TrimSuffix(parts[2], ".csv"))
	if !strings.HasSuffix(parts[2], ".csv") || !kind.Valid() {
		return "", "", "", false
	}
	return parts[0], parts[1], kind, true
}

type entry struct {
	track, session string
}

func (s *Store) entries(ctx context.Context) ([]entry, error) {
	infos, err := s.obs.List(ctx)
	if errors.Is(err, jetstream.ErrNoObjectsFound) {
		return []entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(infos, func(info *jetstream.ObjectInfo, _ int) (entry, bool) {
		if info.Deleted {
			return entry{}, false
		}
		track, session, _, ok := ParseObjectName(info.Name)
		return entry{track, session}, ok
	}), nil
}

func (s *Store) Tracks(ctx context.Context) ([]string, error) {
	e, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	ret := lo.Uniq(lo.Map(e, func(item entry, _ int) string { return item.track }))
	slices.Sort(ret)
	return ret, nil
}

func (s *Store) Sessions(ctx context.Context, track string) ([]string, error) {
	e, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	ret := lo.Uniq(lo.FilterMap(e, func(item entry, _ int) (string, bool) {
		return item.session, item.track == track
	}))
	if len(ret) == 0 {
		return nil, fmt.Errorf("track %s: %w", track, datasource.ErrNotFound)
	}
	slices.Sort(ret)
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *Store) Fetch(
	ctx context.Context, track, session string, kind model.DataKind,
) (*datasource.Table, error) {
	if err := datasource.CheckKind(kind); err != nil {
		return nil, err
	}
	name := ObjectName(track, session, kind)
	data, err := s.obs.GetBytes(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, fmt.Errorf("%s: %w", name, datasource.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return datasource.DecodeCSV(bytes.NewReader(data), kind,
		datasource.WithMaxRows(s.maxRows))
}

func (s *Store) Store(ctx context.Context, track, session string, t *datasource.Table) error {
	if err := datasource.CheckKind(t.Kind); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := datasource.EncodeCSV(&buf, t); err != nil {
		return err
	}
	hash := utils.ContentHash(buf.Bytes())
	name := ObjectName(track, session, t.Kind)

	info, err := s.obs.GetInfo(ctx, name)
	switch {
	case err == nil && !info.Deleted && info.Metadata[metaHash] == hash:
		s.l.Info("object unchanged, skipping", log.String("name", name))
		return nil
	case err != nil && !errors.Is(err, jetstream.ErrObjectNotFound):
		return err
	}

	_, err = s.obs.Put(ctx, jetstream.ObjectMeta{
		Name:     name,
		Metadata: map[string]string{metaHash: hash},
	}, &buf)
	if err != nil {
		return err
	}
	s.l.Info("object stored",
		log.String("name", name), log.Int("rows", t.Len()))
	return nil
}
