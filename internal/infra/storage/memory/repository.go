package memory

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// Repository хранилище записей кэша в памяти процесса.
// Размер ограничен, при переполнении вытесняются давно не читанные записи.
type Repository struct {
	entries *lru.Cache[string, ttlcache.Entry]
}

// NewRepository создает хранилище на size записей
func NewRepository(size int) (*Repository, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	entries, err := lru.New[string, ttlcache.Entry](size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, err)
	}

	return &Repository{entries: entries}, nil
}

// Get возвращает запись по ключу или nil, если ее нет
func (r *Repository) Get(_ context.Context, key string) (*ttlcache.Entry, error) {
	entry, ok := r.entries.Get(key)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Set сохраняет запись, заменяя предыдущую
func (r *Repository) Set(_ context.Context, key string, entry ttlcache.Entry) error {
	r.entries.Add(key, entry)
	return nil
}

// Delete удаляет запись
func (r *Repository) Delete(_ context.Context, key string) error {
	r.entries.Remove(key)
	return nil
}

// DeletePrefix удаляет все записи, ключи которых начинаются с prefix
func (r *Repository) DeletePrefix(_ context.Context, prefix string) error {
	for _, key := range r.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.entries.Remove(key)
		}
	}
	return nil
}

// Len возвращает количество записей
func (r *Repository) Len() int {
	return r.entries.Len()
}
