package get_company_config

import (
	"context"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

type CatalogService interface {
	GetCompanyConfig(ctx context.Context) ttlcache.Result[*domain.CompanyConfig]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
