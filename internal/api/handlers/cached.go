package handlers

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// CachedResponse ответ с данными из кэша и признаком их свежести
type CachedResponse struct {
	Data      interface{} `json:"data"`
	Source    string      `json:"source"`
	Stale     bool        `json:"stale"`
	FetchedAt *time.Time  `json:"fetchedAt,omitempty"`
}

// NewCachedResponse оборачивает data метаданными результата чтения
func NewCachedResponse[V any](res ttlcache.Result[V], data interface{}) *CachedResponse {
	resp := &CachedResponse{
		Data:   data,
		Source: string(res.Source),
		Stale:  res.IsStale(),
	}
	if !res.FetchedAt.IsZero() {
		fetchedAt := res.FetchedAt.UTC()
		resp.FetchedAt = &fetchedAt
	}
	return resp
}
