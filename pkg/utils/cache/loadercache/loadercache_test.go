package loadercache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/utils/cache"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func countingLoader(calls *int) LoaderFunc[string, string] {
	return func(ctx context.Context, key string) (*string, error) {
		*calls++
		if key == "bad" {
			return nil, errors.New("load failed")
		}
		v := "value-" + key
		return &v, nil
	}
}

func TestGet(t *testing.T) {
	calls := 0
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(
		WithLoader(countingLoader(&calls)),
		WithExpiration[string, string](time.Minute),
		withClock[string, string](clk.now),
	)
	ctx := context.Background()

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "value-a", *v)
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, 1, calls, "second get is served from cache")

	clk.t = clk.t.Add(2 * time.Minute)
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, 2, calls, "expired entry is reloaded")

	_, err = c.Get(ctx, "bad")
	require.Error(t, err)
	assert.Equal(t, 1, c.Len(), "failed loads are not cached")
}

func TestInvalidate(t *testing.T) {
	calls := 0
	c := New(WithLoader(countingLoader(&calls)), WithExpiration[string, string](0))
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		_, _ = c.Get(ctx, k)
	}
	assert.Equal(t, 3, c.Len())

	c.Invalidate(ctx, "a")
	assert.Equal(t, 2, c.Len())
	c.InvalidateAll(ctx)
	assert.Equal(t, 0, c.Len())

	_, _ = c.Get(ctx, "b")
	assert.Equal(t, 4, calls)
}

func TestNoLoader(t *testing.T) {
	c := New[string, string]()
	_, err := c.Get(context.Background(), "a")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

// blockingLoader blocks loads of key "slow" until release is closed.
func blockingLoader(calls *atomic.Int32, started, release chan struct{}) LoaderFunc[string, string] {
	var once sync.Once
	return func(ctx context.Context, key string) (*string, error) {
		calls.Add(1)
		if key == "slow" {
			once.Do(func() { close(started) })
			<-release
		}
		v := "value-" + key
		return &v, nil
	}
}

func TestGetDoesNotBlockOtherKeys(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	c := New(WithLoader(blockingLoader(&calls, started, release)))
	ctx := context.Background()

	slowDone := make(chan string)
	go func() {
		v, _ := c.Get(ctx, "slow")
		slowDone <- *v
	}()
	<-started

	tests := []struct {
		name string
		key  string
	}{
		{"other key", "fast"},
		{"other key cached", "fast"},
		{"second other key", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(chan string, 1)
			go func() {
				v, err := c.Get(ctx, tt.key)
				if err == nil {
					got <- *v
				}
			}()
			select {
			case v := <-got:
				assert.Equal(t, "value-"+tt.key, v)
			case <-time.After(time.Second):
				t.Fatalf("get of %q waited for the load of another key", tt.key)
			}
		})
	}

	close(release)
	assert.Equal(t, "value-slow", <-slowDone)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetSingleLoadPerKey(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	c := New(WithLoader(blockingLoader(&calls, started, release)))
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(ctx, "slow")
			if err == nil {
				results[i] = *v
			}
		}()
	}
	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "value-slow", r)
	}
}

func TestGetWaiterCanceled(t *testing.T) {
	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	c := New(WithLoader(blockingLoader(&calls, started, release)))

	go func() { _, _ = c.Get(context.Background(), "slow") }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, "slow")
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	v, err := c.Get(context.Background(), "slow")
	require.NoError(t, err)
	assert.Equal(t, "value-slow", *v)
	assert.Equal(t, int32(1), calls.Load())
}
