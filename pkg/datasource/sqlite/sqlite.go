// Package sqlite stores imported sessions in a local sqlite file
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/pkg/db/migrate"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/utils"
)

type (
	Option func(*Store)
	Store  struct {
		db          *sql.DB
		maxRows     int
		l           *log.Logger
		migrateOpts []migrate.Option
	}
)

var _ datasource.Store = (*Store)(nil)

func WithMaxRows(n int) Option {
	return func(s *Store) {
		s.maxRows = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// WithMigrations passes opts to the migration run by Open
func WithMigrations(opts ...migrate.Option) Option {
	return func(s *Store) {
		s.migrateOpts = opts
	}
}

// Open opens (or creates) the database file at path and applies the
// migrations
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{l: log.Default().Named("datasource.sqlite")}
	for _, opt := range opts {
		opt(s)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	mOpts := append([]migrate.Option{migrate.WithLogger(s.l)}, s.migrateOpts...)
	if err := migrate.MigrateSQLite(db, mOpts...); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	s.db = db
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Tracks(ctx context.Context) ([]string, error) {
	return s.strings(ctx, "select distinct track from session order by track")
}

func (s *Store) Sessions(ctx context.Context, track string) ([]string, error) {
	ret, err := s.strings(ctx,
		"select name from session where track=? order by name", track)
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
	var id string
	err := s.db.QueryRowContext(ctx, `
	select s.id from session s
	join session_table st on st.session_id=s.id
	where s.track=? and s.name=? and st.kind=?
	`, track, name, string(kind)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s/%s: %w", track, name, kind, datasource.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	t := &datasource.Table{Kind: kind}
	if kind == model.KindTelemetry {
		t.Samples, err = s.loadSamples(ctx, id)
	} else {
		t.Events, err = s.loadEvents(ctx, id, kind)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) Store(ctx context.Context, track, name string, t *datasource.Table) error {
	if err := datasource.CheckKind(t.Kind); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := datasource.EncodeCSV(&buf, t); err != nil {
		return err
	}
	hash := utils.ContentHash(buf.Bytes())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	//nolint:errcheck // no-op after commit
	defer tx.Rollback()

	id, err := ensureSession(ctx, tx, track, name)
	if err != nil {
		return err
	}
	var current string
	err = tx.QueryRowContext(ctx,
		"select content_hash from session_table where session_id=? and kind=?",
		id, string(t.Kind)).Scan(&current)
	switch {
	case err == nil && current == hash:
		s.l.Info("table unchanged, skipping",
			log.String("track", track), log.String("session", name),
			log.String("kind", string(t.Kind)))
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	if t.Kind == model.KindTelemetry {
		err = replaceSamples(ctx, tx, id, t.Samples)
	} else {
		err = replaceEvents(ctx, tx, id, t.Kind, t.Events)
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
	insert into session_table (session_id, kind, num_rows, content_hash, imported_at)
	values (?,?,?,?,?)
	on conflict (session_id, kind) do update
	set num_rows=excluded.num_rows, content_hash=excluded.content_hash,
		imported_at=excluded.imported_at
	`, id, string(t.Kind), t.Len(), hash, time.Now().UnixNano()); err != nil {
		return err
	}
	s.l.Info("table stored",
		log.String("track", track), log.String("session", name),
		log.String("kind", string(t.Kind)), log.Int("rows", t.Len()))
	return tx.Commit()
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, rows.Err()
}

//nolint:whitespace // editor/linter issue
func (s *Store) loadEvents(
	ctx context.Context, id string, kind model.DataKind,
) ([]model.LapBoundaryEvent, error) {
	query := `
	select vehicle_id, lap, ts from lap_event
	where session_id=? and kind=? order by seq`
	args := []any{id, string(kind)}
	if s.maxRows > 0 {
		query += " limit ?"
		args = append(args, s.maxRows)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []model.LapBoundaryEvent{}
	for rows.Next() {
		e := model.LapBoundaryEvent{Kind: kind}
		var ts int64
		if err := rows.Scan(&e.VehicleID, &e.Lap, &ts); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		ret = append(ret, e)
	}
	return ret, rows.Err()
}

func (s *Store) loadSamples(ctx context.Context, id string) ([]model.TelemetrySample, error) {
	query := `
	select vehicle_id, lap, name, value, ts from telemetry
	where session_id=? order by seq`
	args := []any{id}
	if s.maxRows > 0 {
		query += " limit ?"
		args = append(args, s.maxRows)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []model.TelemetrySample{}
	for rows.Next() {
		var v model.TelemetrySample
		var ts int64
		if err := rows.Scan(&v.VehicleID, &v.Lap, &v.Name, &v.Value, &ts); err != nil {
			return nil, err
		}
		v.Timestamp = time.Unix(0, ts).UTC()
		ret = append(ret, v)
	}
	return ret, rows.Err()
}

func ensureSession(ctx context.Context, tx *sql.Tx, track, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		"select id from session where track=? and name=?", track, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	newID, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	id = newID.String()
	_, err = tx.ExecContext(ctx,
		"insert into session (id, track, name, created_at) values (?,?,?,?)",
		id, track, name, time.Now().UnixNano())
	return id, err
}

//nolint:whitespace // editor/linter issue
func replaceEvents(
	ctx context.Context,
	tx *sql.Tx,
	id string,
	kind model.DataKind,
	events []model.LapBoundaryEvent,
) error {
	if _, err := tx.ExecContext(ctx,
		"delete from lap_event where session_id=? and kind=?", id, string(kind)); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
	insert into lap_event (session_id, kind, seq, vehicle_id, lap, ts)
	values (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, e := range events {
		if _, err := stmt.ExecContext(ctx,
			id, string(kind), i, e.VehicleID, e.Lap, e.Timestamp.UnixNano()); err != nil {
			return err
		}
	}
	return nil
}

//nolint:whitespace // editor/linter issue
func replaceSamples(
	ctx context.Context,
	tx *sql.Tx,
	id string,
	samples []model.TelemetrySample,
) error {
	if _, err := tx.ExecContext(ctx,
		"delete from telemetry where session_id=?", id); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
	insert into telemetry (session_id, seq, vehicle_id, lap, name, value, ts)
	values (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, v := range samples {
		if _, err := stmt.ExecContext(ctx,
			id, i, v.VehicleID, v.Lap, v.Name, v.Value, v.Timestamp.UnixNano()); err != nil {
			return err
		}
	}
	return nil
}
