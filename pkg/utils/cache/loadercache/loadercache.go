package loadercache

import (
	"context"
	"sync"
	"time"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/utils/cache"
)

// based on github.com/kittpat1413/go-common/framework/cache/localcache/localcache.go

type (
	Option[K comparable, V any] func(*config[K, V])
	// entry is created when a load starts. done is closed once data and err
	// are set.
	entry[T any] struct {
		done    chan struct{}
		data    T
		err     error
		expires time.Time
	}
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)
	config[K comparable, V any]     struct {
		expiration time.Duration
		loader     LoaderFunc[K, V]
		l          *log.Logger
		now        func() time.Time
	}
	loaderCache[K comparable, V any] struct {
		mutex  sync.Mutex
		items  map[K]*entry[*V]
		config *config[K, V]
	}
)

// WithExpiration sets the lifetime of loaded entries. A zero value keeps
// entries until they are invalidated.
func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func withClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *config[K, V]) {
		c.now = now
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		expiration: 5 * time.Minute,
		l:          log.Default().Named("cache"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return &loaderCache[K, V]{
		mutex:  sync.Mutex{},
		items:  make(map[K]*entry[*V]),
		config: c,
	}
}

// Get returns the cached entry for key. Missing or expired entries are
// loaded without holding the cache lock. Concurrent requests for a key that
// is being loaded wait for that load instead of starting another one.
func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mutex.Lock()
	if e, ok := c.items[key]; ok {
		select {
		case <-e.done:
			if e.expires.IsZero() || c.config.now().Before(e.expires) {
				c.mutex.Unlock()
				return e.data, nil
			}
			delete(c.items, key)
		default:
			c.mutex.Unlock()
			return c.wait(ctx, e)
		}
	}
	if c.config.loader == nil {
		c.mutex.Unlock()
		return nil, cache.ErrCacheMiss
	}
	e := &entry[*V]{done: make(chan struct{})}
	c.items[key] = e
	c.mutex.Unlock()

	return c.load(ctx, key, e)
}

func (c *loaderCache[K, V]) wait(ctx context.Context, e *entry[*V]) (*V, error) {
	select {
	case <-e.done:
		return e.data, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *loaderCache[K, V]) load(ctx context.Context, key K, e *entry[*V]) (*V, error) {
	v, err := c.config.loader(ctx, key)
	c.config.l.Debug("loaderCache.load", log.Any("key", key))

	c.mutex.Lock()
	defer c.mutex.Unlock()
	e.data, e.err = v, err
	if err != nil {
		c.config.l.Debug("error loading entry", log.Any("key", key), log.ErrorField(err))
		// failed loads are handed to waiting callers but never cached
		if c.items[key] == e {
			delete(c.items, key)
		}
	} else if c.config.expiration > 0 {
		e.expires = c.config.now().Add(c.config.expiration)
	}
	close(e.done)
	return v, err
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	c.config.l.Debug("Invalidate", log.Any("key", key), log.Int("remain items", len(c.items)))
}

func (c *loaderCache[K, V]) InvalidateAll(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.config.l.Debug("InvalidateAll", log.Int("items", len(c.items)))
	clear(c.items)
}

func (c *loaderCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
