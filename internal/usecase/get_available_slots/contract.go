package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// CatalogService интерфейс сервиса конфигурации и барберов
type CatalogService interface {
	GetCompanyConfig(ctx context.Context) ttlcache.Result[*domain.CompanyConfig]
	GetBarbers(ctx context.Context) ttlcache.Result[domain.Roster]
}

// OccupancyService интерфейс сервиса занятости барберов
type OccupancyService interface {
	GetOccupied(ctx context.Context, barberID string, date time.Time) ttlcache.Result[[]domain.OccupiedInterval]
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
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
