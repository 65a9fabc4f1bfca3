package catalog

import (
	"context"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// APIClient интерфейс клиента API барбершопа
type APIClient interface {
	GetCompanyConfig(ctx context.Context) (*domain.CompanyConfig, error)
	GetBarbers(ctx context.Context) (domain.Roster, error)
	GetServices(ctx context.Context) (*domain.ServiceCatalog, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
