//nolint:whitespace // can't make both editor and linter happy
package lapevent

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/repository"
)

// Replace stores events as the lap boundary table of kind, existing
// entries of that kind are removed
func Replace(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	kind model.DataKind,
	events []model.LapBoundaryEvent,
) (int64, error) {
	if _, err := DeleteBySession(ctx, conn, sessionID, kind); err != nil {
		return 0, err
	}
	return conn.CopyFrom(ctx,
		pgx.Identifier{"lap_event"},
		[]string{"session_id", "kind", "seq", "vehicle_id", "lap", "ts"},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{sessionID, string(kind), i, e.VehicleID, e.Lap, e.Timestamp}, nil
		}))
}

// LoadBySession returns up to limit events in stored order.
// A limit <= 0 returns all events.
func LoadBySession(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	kind model.DataKind,
	limit int,
) ([]model.LapBoundaryEvent, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := conn.Query(ctx, `
	select vehicle_id, lap, ts from lap_event
	where session_id=$1 and kind=$2
	order by seq
	limit $3
	`, sessionID, string(kind), limitArg)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LapBoundaryEvent, error) {
		e := model.LapBoundaryEvent{Kind: kind}
		err := row.Scan(&e.VehicleID, &e.Lap, &e.Timestamp)
		e.Timestamp = e.Timestamp.UTC()
		return e, err
	})
}

func DeleteBySession(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	kind model.DataKind,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from lap_event where session_id=$1 and kind=$2", sessionID, string(kind))
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
