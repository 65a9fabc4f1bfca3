package occupancy

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// APIClient интерфейс клиента API барбершопа
type APIClient interface {
	GetOccupiedSlots(ctx context.Context, barberID string, date time.Time) ([]domain.OccupiedInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
