package ttlcache

import (
	"context"
	"time"
)

// Entry is a stored payload with the moment it was fetched.
// Stores keep entries past their TTL so that stale data can be served on fetch failure.
type Entry struct {
	Payload   []byte
	FetchedAt time.Time
}

// Store is the backing key-value surface for cache entries.
// Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// FetchFunc loads a fresh payload from the source of truth
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Observer receives cache and fetch outcomes (implemented by pkg/metrics)
type Observer interface {
	ObserveCacheLookup(cache, status, source string)
	ObserveFetch(resource string, err error, elapsed time.Duration)
	ObserveSharedFetch(cache string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopObserver struct{}

func (nopObserver) ObserveCacheLookup(string, string, string) {}
func (nopObserver) ObserveFetch(string, error, time.Duration) {}
func (nopObserver) ObserveSharedFetch(string) {}
