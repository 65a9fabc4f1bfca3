package invalidate_cache

import (
	"context"
	"time"
)

type CatalogService interface {
	Invalidate(ctx context.Context, resource string) error
	Clear(ctx context.Context) error
}

type OccupancyService interface {
	Invalidate(ctx context.Context, barberID string, date time.Time) error
	Clear(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
