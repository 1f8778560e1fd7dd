package datasource

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/apex-racing/grcup-analytics/pkg/model"
)

type sessionKey struct {
	track   string
	session string
}

// Memory keeps tables in memory. It is used by tests and as the target of
// the import dry run.
type Memory struct {
	mu     sync.RWMutex
	tables map[sessionKey]map[model.DataKind]*Table
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tables: map[sessionKey]map[model.DataKind]*Table{}}
}

func (m *Memory) Tracks(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tracks := map[string]struct{}{}
	for k := range m.tables {
		tracks[k.track] = struct{}{}
	}
	return slices.SortedFunc(maps.Keys(tracks), cmp.Compare[string]), nil
}

func (m *Memory) Sessions(ctx context.Context, track string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := []string{}
	for k := range m.tables {
		if k.track == track {
			ret = append(ret, k.session)
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("track %s: %w", track, ErrNotFound)
	}
	slices.Sort(ret)
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func (m *Memory) Fetch(
	ctx context.Context, track, session string, kind model.DataKind,
) (*Table, error) {
	if err := CheckKind(kind); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tables[sessionKey{track, session}][kind]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%s/%s/%s: %w", track, session, kind, ErrNotFound)
}

// Store replaces the table of t.Kind for the session
func (m *Memory) Store(ctx context.Context, track, session string, t *Table) error {
	if err := CheckKind(t.Kind); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey{track, session}
	if _, ok := m.tables[key]; !ok {
		m.tables[key] = map[model.DataKind]*Table{}
	}
	m.tables[key][t.Kind] = t
	return nil
}

func (m *Memory) Close() error {
	return nil
}
