// Package postgres stores imported sessions in a postgres database
package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/repository/lapevent"
	"github.com/apex-racing/grcup-analytics/pkg/repository/session"
	"github.com/apex-racing/grcup-analytics/pkg/repository/telemetry"
	"github.com/apex-racing/grcup-analytics/pkg/utils"
)

type (
	Option func(*Store)
	Store  struct {
		pool    *pgxpool.Pool
		maxRows int
		l       *log.Logger
	}
)

var _ datasource.Store = (*Store)(nil)

func WithMaxRows(n int) Option {
	return func(s *Store) {
		s.maxRows = n
	}
}

func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool, l: log.Default().Named("datasource.postgres")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Tracks(ctx context.Context) ([]string, error) {
	return session.Tracks(ctx, s.pool)
}

func (s *Store) Sessions(ctx context.Context, track string) ([]string, error) {
	ret, err := session.Sessions(ctx, s.pool, track)
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("track %s: %w", track, datasource.ErrNotFound)
	}
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (s *Store) Fetch(
	ctx context.Context, track, name string, kind model.DataKind,
) (*datasource.Table, error) {
	if err := datasource.CheckKind(kind); err != nil {
		return nil, err
	}
	notFound := fmt.Errorf("%s/%s/%s: %w", track, name, kind, datasource.ErrNotFound)
	id, err := session.LoadID(ctx, s.pool, track, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	if ok, err := session.HasTable(ctx, s.pool, id, kind); err != nil {
		return nil, err
	} else if !ok {
		return nil, notFound
	}

	t := &datasource.Table{Kind: kind}
	if kind == model.KindTelemetry {
		t.Samples, err = telemetry.LoadBySession(ctx, s.pool, id, s.maxRows)
	} else {
		t.Events, err = lapevent.LoadBySession(ctx, s.pool, id, kind, s.maxRows)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Store replaces the table of the session in one transaction. Storing
// identical content again is skipped.
func (s *Store) Store(ctx context.Context, track, name string, t *datasource.Table) error {
	if err := datasource.CheckKind(t.Kind); err != nil {
		return err
	}
	hash, err := tableHash(t)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		id, err := session.Ensure(ctx, tx, track, name)
		if err != nil {
			return err
		}
		if current, err := session.ContentHash(ctx, tx, id, t.Kind); err != nil {
			return err
		} else if current == hash {
			s.l.Info("table unchanged, skipping",
				log.String("track", track), log.String("session", name),
				log.String("kind", string(t.Kind)))
			return nil
		}
		n, err := s.replace(ctx, tx, id, t)
		if err != nil {
			return err
		}
		s.l.Info("table stored",
			log.String("track", track), log.String("session", name),
			log.String("kind", string(t.Kind)), log.Int64("rows", n))
		return session.MarkTable(ctx, tx, id, t.Kind, int(n), hash)
	})
}

//nolint:whitespace // editor/linter issue
func (s *Store) replace(
	ctx context.Context, tx pgx.Tx, id uuid.UUID, t *datasource.Table,
) (int64, error) {
	if t.Kind == model.KindTelemetry {
		return telemetry.Replace(ctx, tx, id, t.Samples)
	}
	return lapevent.Replace(ctx, tx, id, t.Kind, t.Events)
}

// Close is a no-op, the pool is owned by the caller
func (s *Store) Close() error {
	return nil
}

// tableHash identifies the content of t independent of the backend
func tableHash(t *datasource.Table) (string, error) {
	var buf bytes.Buffer
	if err := datasource.EncodeCSV(&buf, t); err != nil {
		return "", err
	}
	return utils.ContentHash(buf.Bytes()), nil
}
