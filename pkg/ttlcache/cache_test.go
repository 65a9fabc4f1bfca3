package ttlcache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mapStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	setErr  error
	getErr  error
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]Entry)}
}

func (s *mapStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *mapStore) Set(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = entry
	return nil
}

func (s *mapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *mapStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *mapStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestCache(store Store, ttl time.Duration) (*Cache[[]string], *fakeClock) {
	clock := newFakeClock()
	c := New[[]string](store, Options{Name: "barbers", TTL: ttl, FetchTimeout: time.Second}, nopLogger{}, nil).
		WithTimeProvider(clock)
	return c, clock
}

func fetchOK(payload []string) FetchFunc[[]string] {
	return func(context.Context) ([]string, error) {
		return payload, nil
	}
}

func fetchErr(err error) FetchFunc[[]string] {
	return func(context.Context) ([]string, error) {
		return nil, err
	}
}

func TestCache_GetRespectsTTL(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(newMapStore(), time.Hour)

	_, ok := c.Get(ctx, "all")
	assert.False(t, ok, "empty cache must report absent")

	res := c.FetchAndStore(ctx, "all", fetchOK([]string{"anna", "ivan"}))
	require.True(t, res.IsFresh())
	assert.Equal(t, SourceAPI, res.Source)

	clock.Advance(time.Hour - time.Millisecond)
	got, ok := c.Get(ctx, "all")
	require.True(t, ok)
	assert.Equal(t, []string{"anna", "ivan"}, got)

	clock.Advance(time.Millisecond)
	_, ok = c.Get(ctx, "all")
	assert.False(t, ok, "entry must expire exactly at the TTL")
}

func TestCache_GetOrFetch(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(newMapStore(), time.Minute)

	var calls int32
	fetch := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"09:00-10:00"}, nil
	}

	first := c.GetOrFetch(ctx, "b1:2026-03-02", fetch)
	require.True(t, first.IsFresh())
	assert.Equal(t, SourceAPI, first.Source)

	second := c.GetOrFetch(ctx, "b1:2026-03-02", fetch)
	require.True(t, second.IsFresh())
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock.Advance(time.Minute)
	third := c.GetOrFetch(ctx, "b1:2026-03-02", fetch)
	assert.Equal(t, SourceAPI, third.Source)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_StaleFallback(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(newMapStore(), time.Hour)

	fresh := c.FetchAndStore(ctx, "all", fetchOK([]string{"anna"}))
	require.True(t, fresh.IsFresh())

	clock.Advance(3 * time.Hour)
	res := c.GetOrFetch(ctx, "all", fetchErr(errors.New("connection refused")))

	require.True(t, res.IsStale())
	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, []string{"anna"}, res.Payload)
	assert.Equal(t, fresh.FetchedAt, res.FetchedAt)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
	assert.True(t, res.HasPayload())
}

func TestCache_FetchErrorIsPreserved(t *testing.T) {
	errNotFound := errors.New("barber not found")
	c, _ := newTestCache(newMapStore(), time.Hour)

	res := c.GetOrFetch(context.Background(), "b9", fetchErr(errNotFound))

	require.True(t, res.IsUnavailable())
	assert.ErrorIs(t, res.Err, errNotFound)
}

func TestCache_StaleFallbackWhileFresh(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(newMapStore(), time.Hour)

	c.FetchAndStore(ctx, "all", fetchOK([]string{"anna"}))
	res := c.FetchAndStore(ctx, "all", fetchErr(errors.New("boom")))

	require.True(t, res.IsStale(), "a failed refresh is never reported as fresh")
	assert.Equal(t, []string{"anna"}, res.Payload)
}

func TestCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(newMapStore(), time.Hour)

	res := c.GetOrFetch(ctx, "all", fetchErr(errors.New("503 from upstream")))

	require.True(t, res.IsUnavailable())
	assert.Equal(t, SourceNone, res.Source)
	assert.Nil(t, res.Payload)
	assert.False(t, res.HasPayload())
	assert.ErrorIs(t, res.Err, ErrNoDataAvailable)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
}

func TestCache_SingleFlight(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(newMapStore(), time.Minute)

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"10:00-11:00"}, nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make([]Result[[]string], callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrFetch(ctx, "b1:2026-03-02", fetch)
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		require.True(t, r.IsFresh())
		assert.Equal(t, []string{"10:00-11:00"}, r.Payload)
	}
}

func TestCache_KeysDoNotBlockEachOther(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(newMapStore(), time.Minute)

	blocked := make(chan struct{})
	defer close(blocked)

	go c.GetOrFetch(ctx, "b1:2026-03-02", func(context.Context) ([]string, error) {
		<-blocked
		return nil, nil
	})

	done := make(chan Result[[]string], 1)
	go func() {
		done <- c.GetOrFetch(ctx, "b2:2026-03-02", fetchOK([]string{"free"}))
	}()

	select {
	case res := <-done:
		assert.True(t, res.IsFresh())
	case <-time.After(time.Second):
		t.Fatal("fetch for another key must not wait for the blocked one")
	}
}

func TestCache_FetchTimeout(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newMapStore()
	c := New[[]string](store, Options{Name: "occupied", TTL: time.Minute, FetchTimeout: 20 * time.Millisecond}, nopLogger{}, nil).
		WithTimeProvider(clock)

	slow := func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	res := c.GetOrFetch(ctx, "b1", slow)
	require.True(t, res.IsUnavailable())
	assert.ErrorIs(t, res.Err, ErrFetchFailed)

	c.FetchAndStore(ctx, "b1", fetchOK([]string{"prev"}))
	clock.Advance(2 * time.Minute)

	res = c.GetOrFetch(ctx, "b1", slow)
	require.True(t, res.IsStale())
	assert.Equal(t, []string{"prev"}, res.Payload)
}

func TestCache_CallerCancelled(t *testing.T) {
	c, clock := newTestCache(newMapStore(), time.Minute)
	c.FetchAndStore(context.Background(), "b1", fetchOK([]string{"prev"}))
	clock.Advance(time.Hour)

	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.GetOrFetch(ctx, "b1", func(context.Context) ([]string, error) {
		<-release
		return []string{"late"}, nil
	})

	require.True(t, res.IsStale())
	assert.Equal(t, []string{"prev"}, res.Payload)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
}

func TestCache_InvalidateAndClear(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	occupied := New[[]string](store, Options{Name: "occupied", TTL: time.Minute}, nopLogger{}, nil)
	barbers := New[[]string](store, Options{Name: "barbers", TTL: time.Hour}, nopLogger{}, nil)

	occupied.FetchAndStore(ctx, "b1:2026-03-02", fetchOK([]string{"a"}))
	occupied.FetchAndStore(ctx, "b2:2026-03-02", fetchOK([]string{"b"}))
	barbers.FetchAndStore(ctx, "all", fetchOK([]string{"anna"}))
	require.Equal(t, 3, store.len())

	require.NoError(t, occupied.Invalidate(ctx, "b1:2026-03-02"))
	_, ok := occupied.Get(ctx, "b1:2026-03-02")
	assert.False(t, ok)
	_, ok = occupied.Get(ctx, "b2:2026-03-02")
	assert.True(t, ok)

	require.NoError(t, occupied.Clear(ctx))
	_, ok = occupied.Get(ctx, "b2:2026-03-02")
	assert.False(t, ok)

	_, ok = barbers.Get(ctx, "all")
	assert.True(t, ok, "clearing one cache must not touch another resource kind")

	res := occupied.GetOrFetch(ctx, "b1:2026-03-02", fetchErr(errors.New("down")))
	assert.True(t, res.IsUnavailable(), "invalidated entries are not available for stale fallback")
}

func TestCache_InvalidateDuringFetchDoesNotStore(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(c *Cache[[]string]) error
	}{
		{
			name: "invalidate key",
			invalidate: func(c *Cache[[]string]) error {
				return c.Invalidate(context.Background(), "b1:2026-03-02")
			},
		},
		{
			name: "clear cache",
			invalidate: func(c *Cache[[]string]) error {
				return c.Clear(context.Background())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMapStore()
			c, _ := newTestCache(store, time.Minute)

			started := make(chan struct{})
			release := make(chan struct{})
			done := make(chan Result[[]string], 1)
			go func() {
				done <- c.FetchAndStore(ctx, "b1:2026-03-02", func(context.Context) ([]string, error) {
					close(started)
					<-release
					return []string{"snapshot-before-booking"}, nil
				})
			}()

			<-started
			require.NoError(t, tt.invalidate(c))
			close(release)

			res := <-done
			require.True(t, res.IsFresh(), "callers of the in-flight fetch still get its payload")
			assert.Equal(t, []string{"snapshot-before-booking"}, res.Payload)

			_, ok := c.Get(ctx, "b1:2026-03-02")
			assert.False(t, ok)
			assert.Equal(t, 0, store.len())

			res = c.GetOrFetch(ctx, "b1:2026-03-02", fetchOK([]string{"after-booking"}))
			require.True(t, res.IsFresh())
			assert.Equal(t, []string{"after-booking"}, res.Payload)

			cached, ok := c.Get(ctx, "b1:2026-03-02")
			require.True(t, ok, "fetches started after invalidation are stored")
			assert.Equal(t, []string{"after-booking"}, cached)
		})
	}
}

func TestCache_StoreFailures(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	store.setErr = errors.New("redis: connection refused")
	c, _ := newTestCache(store, time.Minute)

	res := c.GetOrFetch(ctx, "all", fetchOK([]string{"anna"}))
	require.True(t, res.IsFresh(), "a failed write still returns the fetched payload")
	assert.Equal(t, []string{"anna"}, res.Payload)

	store.setErr = nil
	store.getErr = errors.New("redis: timeout")
	_, ok := c.Get(ctx, "all")
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	c, clock := newTestCache(store, time.Minute)

	require.NoError(t, store.Set(ctx, "barbers:all", Entry{Payload: []byte("{not json"), FetchedAt: clock.Now()}))

	_, ok := c.Get(ctx, "all")
	assert.False(t, ok)

	res := c.GetOrFetch(ctx, "all", fetchOK([]string{"anna"}))
	assert.Equal(t, SourceAPI, res.Source)
}

type countingObserver struct {
	mu      sync.Mutex
	lookups map[string]int
	fetches int
}

func (o *countingObserver) ObserveCacheLookup(cache, status, source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups[cache+"/"+status+"/"+source]++
}

func (o *countingObserver) ObserveFetch(string, error, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches++
}

func (o *countingObserver) ObserveSharedFetch(string) {}

func TestCache_Observer(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{lookups: make(map[string]int)}
	c := New[[]string](newMapStore(), Options{Name: "services", TTL: time.Hour}, nopLogger{}, obs)

	c.GetOrFetch(ctx, "all", fetchOK([]string{"fade"}))
	c.GetOrFetch(ctx, "all", fetchOK([]string{"fade"}))

	assert.Equal(t, 1, obs.lookups["services/fresh/api"])
	assert.Equal(t, 1, obs.lookups["services/fresh/cache"])
	assert.Equal(t, 1, obs.fetches)
}
