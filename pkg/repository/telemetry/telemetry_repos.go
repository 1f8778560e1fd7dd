//nolint:whitespace // can't make both editor and linter happy
package telemetry

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/repository"
)

// Replace stores samples as the telemetry of the session, existing samples
// are removed
func Replace(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	samples []model.TelemetrySample,
) (int64, error) {
	if _, err := DeleteBySession(ctx, conn, sessionID); err != nil {
		return 0, err
	}
	return conn.CopyFrom(ctx,
		pgx.Identifier{"telemetry"},
		[]string{"session_id", "seq", "vehicle_id", "lap", "name", "value", "ts"},
		pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
			s := samples[i]
			return []any{sessionID, i, s.VehicleID, s.Lap, s.Name, s.Value, s.Timestamp}, nil
		}))
}

// LoadBySession returns up to limit samples in stored order.
// A limit <= 0 returns all samples.
func LoadBySession(
	ctx context.Context,
	conn repository.Querier,
	sessionID uuid.UUID,
	limit int,
) ([]model.TelemetrySample, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := conn.Query(ctx, `
	select vehicle_id, lap, name, value, ts from telemetry
	where session_id=$1
	order by seq
	limit $2
	`, sessionID, limitArg)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TelemetrySample, error) {
		var s model.TelemetrySample
		err := row.Scan(&s.VehicleID, &s.Lap, &s.Name, &s.Value, &s.Timestamp)
		s.Timestamp = s.Timestamp.UTC()
		return s, err
	})
}

func DeleteBySession(ctx context.Context, conn repository.Querier, sessionID uuid.UUID) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx, "delete from telemetry where session_id=$1", sessionID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
