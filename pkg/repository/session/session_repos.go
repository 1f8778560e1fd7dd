//nolint:whitespace // can't make both editor and linter happy
package session

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/repository"
)

// Ensure returns the id of the session, creating it if needed
func Ensure(ctx context.Context, conn repository.Querier, track, name string) (
	uuid.UUID, error,
) {
	id, err := LoadID(ctx, conn, track, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}
	id, err = uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}
	row := conn.QueryRow(ctx, `
	insert into session (id, track, name) values ($1,$2,$3)
	on conflict (track, name) do update set track=excluded.track
	returning id
	`, id, track, name)
	err = row.Scan(&id)
	return id, err
}

// LoadID returns pgx.ErrNoRows if the session does not exist
func LoadID(ctx context.Context, conn repository.Querier, track, name string) (
	uuid.UUID, error,
) {
	var id uuid.UUID
	err := conn.QueryRow(ctx,
		"select id from session where track=$1 and name=$2", track, name).Scan(&id)
	return id, err
}

func Tracks(ctx context.Context, conn repository.Querier) ([]string, error) {
	rows, err := conn.Query(ctx, "select distinct track from session order by track")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func Sessions(ctx context.Context, conn repository.Querier, track string) ([]string, error) {
	rows, err := conn.Query(ctx,
		"select name from session where track=$1 order by name", track)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// MarkTable records that the table of kind was imported for the session
func MarkTable(
	ctx context.Context,
	conn repository.Querier,
	id uuid.UUID,
	kind model.DataKind,
	rows int,
	contentHash string,
) error {
	_, err := conn.Exec(ctx, `
	insert into session_table (session_id, kind, num_rows, content_hash, imported_at)
	values ($1,$2,$3,$4,now())
	on conflict (session_id, kind) do update
	set num_rows=excluded.num_rows, content_hash=excluded.content_hash,
		imported_at=excluded.imported_at
	`, id, string(kind), rows, contentHash)
	return err
}

// HasTable reports if the table of kind was imported for the session
func HasTable(
	ctx context.Context, conn repository.Querier, id uuid.UUID, kind model.DataKind,
) (bool, error) {
	var ok bool
	err := conn.QueryRow(ctx,
		"select exists(select 1 from session_table where session_id=$1 and kind=$2)",
		id, string(kind)).Scan(&ok)
	return ok, err
}

// ContentHash returns the hash of the imported table or "" if unknown
func ContentHash(
	ctx context.Context, conn repository.Querier, id uuid.UUID, kind model.DataKind,
) (string, error) {
	var hash string
	err := conn.QueryRow(ctx,
		"select content_hash from session_table where session_id=$1 and kind=$2",
		id, string(kind)).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// DeleteByID deletes the session and all of its data, returns number of
// sessions deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from session where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
