package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

const (
	colVehicleID = "vehicle_id"
	colLap       = "lap"
	colTimestamp = "timestamp"
	colName      = "telemetry_name"
	colValue     = "telemetry_value"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

type (
	CSVOption func(*csvConfig)
	csvConfig struct {
		maxRows int
	}
)

// WithMaxRows limits the number of data rows read. Zero reads all rows.
func WithMaxRows(n int) CSVOption {
	return func(c *csvConfig) {
		c.maxRows = n
	}
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// DecodeCSV reads a session file of the given kind. Columns are located by
// header name, additional columns are ignored. Telemetry rows without a
// finite value are skipped.
//
//nolint:funlen,cyclop // readability
func DecodeCSV(r io.Reader, kind model.DataKind, opts ...CSVOption) (*Table, error) {
	if err := CheckKind(kind); err != nil {
		return nil, err
	}
	cfg := &csvConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{Kind: kind}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	required := []string{colVehicleID, colLap, colTimestamp}
	if kind == model.KindTelemetry {
		required = append(required, colName, colValue)
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}

	t := &Table{Kind: kind}
	rows := 0
	for {
		if cfg.maxRows > 0 && rows >= cfg.maxRows {
			break
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows++
		line, _ := reader.FieldPos(0)
		field := func(col string) string {
			if i := idx[col]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		lap, err := strconv.Atoi(field(colLap))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid lap: %w", line, err)
		}
		ts, err := ParseTimestamp(field(colTimestamp))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		vehicle := field(colVehicleID)

		if kind != model.KindTelemetry {
			t.Events = append(t.Events, model.LapBoundaryEvent{
				VehicleID: vehicle, Lap: lap, Timestamp: ts, Kind: kind,
			})
			continue
		}
		raw := field(colValue)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value: %w", line, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		t.Samples = append(t.Samples, model.TelemetrySample{
			VehicleID: vehicle, Lap: lap, Name: field(colName), Value: value, Timestamp: ts,
		})
	}
	return t, nil
}

// EncodeCSV writes t in the format read by DecodeCSV
func EncodeCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	ts := func(v time.Time) string { return v.UTC().Format(time.RFC3339Nano) }
	if t.Kind == model.KindTelemetry {
		if err := writer.Write([]string{
			colVehicleID, colLap, colName, colValue, colTimestamp,
		}); err != nil {
			return err
		}
		for _, s := range t.Samples {
			if err := writer.Write([]string{
				s.VehicleID, strconv.Itoa(s.Lap), s.Name,
				strconv.FormatFloat(s.Value, 'g', -1, 64), ts(s.Timestamp),
			}); err != nil {
				return err
			}
		}
	} else {
		if err := writer.Write([]string{colVehicleID, colLap, colTimestamp}); err != nil {
			return err
		}
		for _, e := range t.Events {
			if err := writer.Write([]string{e.VehicleID, strconv.Itoa(e.Lap), ts(e.Timestamp)}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

var fileSuffixes = []struct {
	suffix string
	kind   model.DataKind
}{
	{"_lap_start.csv", model.KindLapStart},
	{"_lap_end.csv", model.KindLapEnd},
	{"_telemetry_data.csv", model.KindTelemetry},
}

// ParseFilename extracts session and kind from a session file name like
// R1_barber_lap_start.csv
func ParseFilename(name string) (session string, kind model.DataKind, ok bool) {
	for _, s := range fileSuffixes {
		if !strings.HasSuffix(name, s.suffix) {
			continue
		}
		session, _, _ = strings.Cut(name, "_")
		if session == "" {
			return "", "", false
		}
		return session, s.kind, true
	}
	return "", "", false
}

// Filename is the inverse of ParseFilename
func Filename(session, track string, kind model.DataKind) string {
	for _, s := range fileSuffixes {
		if s.kind == kind {
			return session + "_" + track + s.suffix
		}
	}
	return ""
}
