package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// ComputeFunc produces the value for a key on a cache miss. The context it receives is
// detached from any single caller and is cancelled only once every waiter has gone.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Config tunes a ResultCache. Zero values mean no expiry and no size bound.
type Config[V any] struct {
	TTL        time.Duration
	MaxEntries int

	// TTLFunc, when set, overrides TTL per stored value. A zero result means no expiry.
	TTLFunc func(V) time.Duration
}

type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Entries      int64 `json:"entries"`
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	Computations int64 `json:"computations"`
}

// ResultCache is an in-memory keyed store with per-key single-flight computation.
// There is no cache-wide lock: entries and in-flight computations live in sync.Maps and
// callers for the same key coordinate through that key's flight only.
type ResultCache[V any] struct {
	entries sync.Map // map[string]*entry[V]
	flights sync.Map // map[string]*flight[V]
	cfg     Config[V]
	logger  *zap.Logger
	now     func() time.Time

	size         atomic.Int64
	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64
}

func NewResultCache[V any](cfg Config[V], logger *zap.Logger) *ResultCache[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache[V]{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	v, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

func (c *ResultCache[V]) lookup(key string) (V, bool) {
	var zero V
	raw, ok := c.entries.Load(key)
	if !ok {
		return zero, false
	}
	e := raw.(*entry[V])
	if e.expired(c.now()) {
		if c.entries.CompareAndDelete(key, e) {
			c.size.Add(-1)
		}
		return zero, false
	}
	return e.value, true
}

// GetOrCompute returns the cached value for key, or runs fn once for all concurrent
// callers of the same key and shares its outcome. Errors are returned to every waiter
// and never stored. A caller whose ctx ends stops waiting; the computation keeps running
// while any other caller still waits on it.
func (c *ResultCache[V]) GetOrCompute(ctx context.Context, key string, fn ComputeFunc[V]) (V, error) {
	for {
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		fresh := newFlight[V](ctx)
		raw, loaded := c.flights.LoadOrStore(key, fresh)
		f := raw.(*flight[V])

		if loaded {
			fresh.cancel()
			if !f.join() {
				// The flight was abandoned by all of its waiters; start over.
				c.flights.CompareAndDelete(key, f)
				continue
			}
			c.logger.Debug("Joined in-flight computation", zap.String("key", key))
			return c.await(ctx, key, f)
		}

		// Another flight may have stored the value between Get and LoadOrStore.
		if v, ok := c.lookup(key); ok {
			c.hits.Add(1)
			c.flights.CompareAndDelete(key, f)
			f.finish(v, nil)
			f.cancel()
			return v, nil
		}

		c.misses.Add(1)
		c.launch(key, f, fn)
		return c.await(ctx, key, f)
	}
}

func (c *ResultCache[V]) launch(key string, f *flight[V], fn ComputeFunc[V]) {
	c.computations.Add(1)

	go func() {
		defer f.cancel()

		var (
			value V
			err   error
		)
		var pc panics.Catcher
		pc.Try(func() {
			value, err = fn(f.ctx)
		})
		if recovered := pc.Recovered(); recovered != nil {
			c.logger.Error("Cache computation panicked",
				zap.String("key", key),
				zap.Any("panic", recovered.Value),
			)
			err = errors.NewCacheError("computation panicked", "compute", key, recovered.AsError())
		}

		if err == nil {
			c.store(key, value)
		}
		c.flights.CompareAndDelete(key, f)
		f.finish(value, err)
	}()
}

func (c *ResultCache[V]) await(ctx context.Context, key string, f *flight[V]) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		select {
		case <-f.done:
			return f.value, f.err
		default:
		}
		if f.leave() {
			c.flights.CompareAndDelete(key, f)
			c.logger.Debug("All waiters left, computation cancelled", zap.String("key", key))
		}
		var zero V
		return zero, ctx.Err()
	}
}

// Set stores value under key unconditionally.
func (c *ResultCache[V]) Set(key string, value V) {
	c.store(key, value)
}

func (c *ResultCache[V]) store(key string, value V) {
	now := c.now()
	ttl := c.cfg.TTL
	if c.cfg.TTLFunc != nil {
		ttl = c.cfg.TTLFunc(value)
	}

	e := &entry[V]{value: value, createdAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	if _, existed := c.entries.Swap(key, e); !existed {
		if c.size.Add(1) > int64(c.cfg.MaxEntries) && c.cfg.MaxEntries > 0 {
			c.evict(key)
		}
	}
}

// evict drops expired entries and, if the cache is still over its bound, the oldest
// entries other than keep.
func (c *ResultCache[V]) evict(keep string) {
	now := c.now()
	c.entries.Range(func(k, raw any) bool {
		if e := raw.(*entry[V]); e.expired(now) && c.entries.CompareAndDelete(k, e) {
			c.size.Add(-1)
		}
		return true
	})

	for c.size.Load() > int64(c.cfg.MaxEntries) {
		var (
			oldestKey   any
			oldestEntry *entry[V]
		)
		c.entries.Range(func(k, raw any) bool {
			e := raw.(*entry[V])
			if k.(string) == keep {
				return true
			}
			if oldestEntry == nil || e.createdAt.Before(oldestEntry.createdAt) {
				oldestKey, oldestEntry = k, e
			}
			return true
		})
		if oldestEntry == nil {
			return
		}
		if c.entries.CompareAndDelete(oldestKey, oldestEntry) {
			c.size.Add(-1)
			c.logger.Debug("Evicted cache entry", zap.Any("key", oldestKey))
		}
	}
}

// Delete removes key from the cache. It does not affect an in-flight computation.
func (c *ResultCache[V]) Delete(key string) {
	if _, loaded := c.entries.LoadAndDelete(key); loaded {
		c.size.Add(-1)
	}
}

func (c *ResultCache[V]) Len() int {
	return int(c.size.Load())
}

func (c *ResultCache[V]) Stats() Stats {
	return Stats{
		Entries:      c.size.Load(),
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Computations: c.computations.Load(),
	}
}
