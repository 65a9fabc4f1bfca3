package ttlcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	keySeparator        = ":"
	defaultFetchTimeout = 10 * time.Second
)

// Options настройки одного экземпляра кэша
type Options struct {
	// Name is the resource kind; it prefixes every store key and labels metrics
	Name string
	// TTL is the freshness window of an entry
	TTL time.Duration
	// FetchTimeout bounds every call to a FetchFunc
	FetchTimeout time.Duration
}

// Cache is a keyed TTL cache for one resource kind.
// Concurrent misses on the same key share a single in-flight fetch;
// different keys never wait on each other.
// Payloads handed out may be shared between callers and must not be mutated.
type Cache[V any] struct {
	name         string
	ttl          time.Duration
	fetchTimeout time.Duration
	store        Store
	group        singleflight.Group
	timeProvider TimeProvider
	observer     Observer
	logger       Logger

	// writeMu: записи из fetch берут RLock, Invalidate/Clear берут Lock
	writeMu     sync.RWMutex
	epoch       uint64
	generations map[string]uint64
}

// generation identifies the state of a key for a fetch in flight
type generation struct {
	epoch uint64
	key   uint64
}

type fetched[V any] struct {
	payload   V
	fetchedAt time.Time
}

// New создает кэш поверх store
func New[V any](store Store, opts Options, logger Logger, observer Observer) *Cache[V] {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if observer == nil {
		observer = nopObserver{}
	}

	return &Cache[V]{
		name:         opts.Name,
		ttl:          opts.TTL,
		fetchTimeout: opts.FetchTimeout,
		store:        store,
		timeProvider: &RealTimeProvider{},
		observer:     observer,
		logger:       logger,
		generations:  make(map[string]uint64),
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (c *Cache[V]) WithTimeProvider(tp TimeProvider) *Cache[V] {
	c.timeProvider = tp
	return c
}

// Get returns the payload if an entry exists and is younger than the TTL.
// It never fetches.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	payload, fetchedAt, ok := c.load(ctx, key)
	if !ok || !c.isFresh(fetchedAt) {
		var zero V
		return zero, false
	}
	return payload, true
}

// GetOrFetch serves a fresh entry from the cache or falls through to FetchAndStore
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[V]) Result[V] {
	payload, fetchedAt, ok := c.load(ctx, key)
	if ok && c.isFresh(fetchedAt) {
		c.logger.Debug("cache %s: hit key=%s age=%s", c.name, key, c.age(fetchedAt))
		return c.observe(Result[V]{
			Status:    StatusFresh,
			Source:    SourceCache,
			Payload:   payload,
			FetchedAt: fetchedAt,
		})
	}

	c.logger.Debug("cache %s: miss key=%s", c.name, key)
	return c.FetchAndStore(ctx, key, fetch)
}

// FetchAndStore calls fetch and replaces the entry on success.
// On failure it serves the previous entry (of any age) as stale,
// or reports ErrNoDataAvailable when there is none.
func (c *Cache[V]) FetchAndStore(ctx context.Context, key string, fetch FetchFunc[V]) Result[V] {
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetchAndStore(ctx, key, fetch)
	})

	var fetchErr error
	select {
	case res := <-ch:
		if res.Shared {
			c.observer.ObserveSharedFetch(c.name)
		}
		if res.Err == nil {
			f := res.Val.(fetched[V])
			return c.observe(Result[V]{
				Status:    StatusFresh,
				Source:    SourceAPI,
				Payload:   f.payload,
				FetchedAt: f.fetchedAt,
			})
		}
		fetchErr = res.Err
	case <-ctx.Done():
		fetchErr = fmt.Errorf("%w: %s key=%s: %v", ErrFetchFailed, c.name, key, ctx.Err())
	}

	payload, fetchedAt, ok := c.load(context.WithoutCancel(ctx), key)
	if ok {
		c.logger.Warn("cache %s: serving stale data for key=%s (age=%s): %v",
			c.name, key, c.age(fetchedAt), fetchErr)
		return c.observe(Result[V]{
			Status:    StatusStale,
			Source:    SourceCache,
			Payload:   payload,
			FetchedAt: fetchedAt,
			Err:       fetchErr,
		})
	}

	c.logger.Error("cache %s: no data for key=%s: %v", c.name, key, fetchErr)
	return c.observe(Result[V]{
		Status: StatusUnavailable,
		Source: SourceNone,
		Err:    fmt.Errorf("%w: %w", ErrNoDataAvailable, fetchErr),
	})
}

// fetchAndStore runs inside the single-flight group.
// The fetch is detached from the first caller's cancellation because other callers may share it.
func (c *Cache[V]) fetchAndStore(ctx context.Context, key string, fetch FetchFunc[V]) (fetched[V], error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	defer cancel()

	gen := c.currentGeneration(key)

	started := time.Now()
	payload, err := fetch(fetchCtx)
	c.observer.ObserveFetch(c.name, err, time.Since(started))
	if err != nil {
		return fetched[V]{}, fmt.Errorf("%w: %s key=%s: %w", ErrFetchFailed, c.name, key, err)
	}

	fetchedAt := c.timeProvider.Now()

	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("cache %s: failed to encode payload for key=%s: %v", c.name, key, err)
		return fetched[V]{payload: payload, fetchedAt: fetchedAt}, nil
	}

	c.writeMu.RLock()
	defer c.writeMu.RUnlock()

	// Ключ инвалидирован во время запроса: данные отдаем вызывающим, но не сохраняем
	if c.generationOf(key) != gen {
		c.logger.Info("cache %s: key=%s invalidated during fetch, result not stored", c.name, key)
		return fetched[V]{payload: payload, fetchedAt: fetchedAt}, nil
	}

	if err := c.store.Set(fetchCtx, c.storeKey(key), Entry{Payload: data, FetchedAt: fetchedAt}); err != nil {
		// Ошибка записи в store не влияет на ответ
		c.logger.Warn("cache %s: failed to store key=%s: %v", c.name, key, err)
	}

	c.logger.Debug("cache %s: stored key=%s", c.name, key)
	return fetched[V]{payload: payload, fetchedAt: fetchedAt}, nil
}

func (c *Cache[V]) currentGeneration(key string) generation {
	c.writeMu.RLock()
	defer c.writeMu.RUnlock()
	return c.generationOf(key)
}

// generationOf must be called with writeMu held
func (c *Cache[V]) generationOf(key string) generation {
	return generation{epoch: c.epoch, key: c.generations[key]}
}

// Invalidate removes one entry; the next Get reports absent
func (c *Cache[V]) Invalidate(ctx context.Context, key string) error {
	c.writeMu.Lock()
	c.generations[key]++
	c.writeMu.Unlock()

	c.group.Forget(key)
	if err := c.store.Delete(ctx, c.storeKey(key)); err != nil {
		return fmt.Errorf("cache %s: invalidate key=%s: %w", c.name, key, err)
	}
	c.logger.Info("cache %s: invalidated key=%s", c.name, key)
	return nil
}

// Clear removes every entry of this cache
func (c *Cache[V]) Clear(ctx context.Context) error {
	c.writeMu.Lock()
	c.epoch++
	c.generations = make(map[string]uint64)
	c.writeMu.Unlock()

	if err := c.store.DeletePrefix(ctx, c.name+keySeparator); err != nil {
		return fmt.Errorf("cache %s: clear: %w", c.name, err)
	}
	c.logger.Info("cache %s: cleared", c.name)
	return nil
}

// load reads and decodes an entry regardless of its age
func (c *Cache[V]) load(ctx context.Context, key string) (V, time.Time, bool) {
	var payload V

	entry, err := c.store.Get(ctx, c.storeKey(key))
	if err != nil {
		c.logger.Warn("cache %s: store read failed for key=%s: %v", c.name, key, err)
		return payload, time.Time{}, false
	}
	if entry == nil {
		return payload, time.Time{}, false
	}

	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		c.logger.Warn("cache %s: %v: corrupt entry for key=%s: %v", c.name, ErrCodec, key, err)
		var zero V
		return zero, time.Time{}, false
	}

	return payload, entry.FetchedAt, true
}

func (c *Cache[V]) isFresh(fetchedAt time.Time) bool {
	return c.age(fetchedAt) < c.ttl
}

func (c *Cache[V]) age(fetchedAt time.Time) time.Duration {
	return c.timeProvider.Now().Sub(fetchedAt)
}

func (c *Cache[V]) storeKey(key string) string {
	return c.name + keySeparator + key
}

func (c *Cache[V]) observe(r Result[V]) Result[V] {
	c.observer.ObserveCacheLookup(c.name, string(r.Status), string(r.Source))
	return r
}
