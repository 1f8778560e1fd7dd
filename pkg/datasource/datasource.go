// Package datasource defines how session data is located and loaded.
// Backends (csv files, postgres, sqlite, nats object store) implement
// Source and, where writable, Sink.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownKind = errors.New("unknown data kind")
)

// Table is the content of one session file. Lap boundary kinds use
// Events, telemetry uses Samples.
type Table struct {
	Kind    model.DataKind
	Events  []model.LapBoundaryEvent
	Samples []model.TelemetrySample
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	if t.Kind == model.KindTelemetry {
		return len(t.Samples)
	}
	return len(t.Events)
}

type Source interface {
	// Tracks returns the track ids in ascending order
	Tracks(ctx context.Context) ([]string, error)
	// Sessions returns the session ids of a track in ascending order.
	// ErrNotFound if the track is unknown.
	Sessions(ctx context.Context, track string) ([]string, error)
	// Fetch loads one table of a session. ErrNotFound if it does not exist.
	Fetch(ctx context.Context, track, session string, kind model.DataKind) (*Table, error)
}

type Sink interface {
	Store(ctx context.Context, track, session string, t *Table) error
}

// Store is a backend that can be read and written
type Store interface {
	Source
	Sink
	Close() error
}

// CheckSession returns ErrNotFound if track or session are unknown
func CheckSession(ctx context.Context, src Source, track, session string) error {
	sessions, err := src.Sessions(ctx, track)
	if err != nil {
		return err
	}
	if !slices.Contains(sessions, session) {
		return fmt.Errorf("session %s/%s: %w", track, session, ErrNotFound)
	}
	return nil
}

func CheckKind(kind model.DataKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	return nil
}
