package pgcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

const tableName = "cache_entries"

const createTableQuery = `CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL
)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository хранилище записей кэша в PostgreSQL.
// Записи переживают перезапуск сервиса.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureSchema создает таблицу, если ее нет
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("%w: EnsureSchema: %v", ErrExecQuery, err)
	}
	return nil
}

// Get возвращает запись по ключу или nil, если ее нет
func (r *Repository) Get(ctx context.Context, key string) (*ttlcache.Entry, error) {
	query, args, err := psqlbuilder.Select("payload", "fetched_at").
		From(tableName).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var entry ttlcache.Entry
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&entry.Payload, &entry.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan entry %s: %v", ErrScanRow, key, err)
	}

	return &entry, nil
}

// Set сохраняет запись, заменяя предыдущую
func (r *Repository) Set(ctx context.Context, key string, entry ttlcache.Entry) error {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns("key", "payload", "fetched_at").
		Values(key, entry.Payload, entry.FetchedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert %s: %v", ErrExecQuery, key, err)
	}

	return nil
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.delete(ctx, "Delete", squirrel.Eq{"key": key})
}

// DeletePrefix удаляет все записи, ключи которых начинаются с prefix
func (r *Repository) DeletePrefix(ctx context.Context, prefix string) error {
	return r.delete(ctx, "DeletePrefix", squirrel.Like{"key": likeEscaper.Replace(prefix) + "%"})
}

// PurgeOlderThan удаляет записи, полученные раньше cutoff
func (r *Repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) error {
	return r.delete(ctx, "PurgeOlderThan", squirrel.Lt{"fetched_at": cutoff})
}

func (r *Repository) delete(ctx context.Context, op string, where squirrel.Sqlizer) error {
	query, args, err := psqlbuilder.Delete(tableName).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	return nil
}
