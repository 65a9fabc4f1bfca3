package rediscache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

const scanCount = 100

// Config параметры подключения к redis
type Config struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// NewClient создает клиента redis
func NewClient(cfg Config) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return redis.NewClient(opts)
}

// envelope формат значения в redis
type envelope struct {
	Payload     json.RawMessage `json:"payload"`
	FetchedAtMs int64           `json:"fetched_at_ms"`
}

// Repository хранилище записей кэша в redis.
// Записи переживают TTL кэша (до retention), чтобы их можно было отдать как устаревшие.
type Repository struct {
	client    Client
	namespace string
	retention time.Duration
}

// NewRepository создает хранилище. retention = 0 означает хранение без срока.
func NewRepository(client Client, namespace string, retention time.Duration) *Repository {
	return &Repository{
		client:    client,
		namespace: namespace,
		retention: retention,
	}
}

// Get возвращает запись по ключу или nil, если ее нет
func (r *Repository) Get(ctx context.Context, key string) (*ttlcache.Entry, error) {
	raw, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get %s: %v", ErrGet, key, err)
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: Get %s: %v", ErrDecode, key, err)
	}

	return entry, nil
}

// Set сохраняет запись, заменяя предыдущую
func (r *Repository) Set(ctx context.Context, key string, entry ttlcache.Entry) error {
	raw, err := encodeEntry(entry)
	if err != nil {
		return fmt.Errorf("%w: Set %s: %v", ErrSet, key, err)
	}

	if err := r.client.Set(ctx, r.redisKey(key), raw, r.retention).Err(); err != nil {
		return fmt.Errorf("%w: Set %s: %v", ErrSet, key, err)
	}

	return nil
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: Delete %s: %v", ErrDelete, key, err)
	}
	return nil
}

// DeletePrefix удаляет все записи, ключи которых начинаются с prefix.
// Ключи перебираются через SCAN, чтобы не блокировать redis командой KEYS.
func (r *Repository) DeletePrefix(ctx context.Context, prefix string) error {
	match := r.redisKey(prefix) + "*"

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return fmt.Errorf("%w: DeletePrefix %s: %v", ErrScan, prefix, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: DeletePrefix %s: %v", ErrDelete, prefix, err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *Repository) redisKey(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func encodeEntry(entry ttlcache.Entry) ([]byte, error) {
	return json.Marshal(envelope{
		Payload:     entry.Payload,
		FetchedAtMs: entry.FetchedAt.UnixMilli(),
	})
}

func decodeEntry(raw []byte) (*ttlcache.Entry, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if len(env.Payload) == 0 {
		return nil, errors.New("empty payload")
	}

	return &ttlcache.Entry{
		Payload:   []byte(env.Payload),
		FetchedAt: time.UnixMilli(env.FetchedAtMs),
	}, nil
}
