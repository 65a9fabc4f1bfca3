package get_barbers

import (
	"context"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

type CatalogService interface {
	GetBarbers(ctx context.Context) ttlcache.Result[domain.Roster]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
