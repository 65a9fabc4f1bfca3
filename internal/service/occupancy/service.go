package occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/integrations/barberapi"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// ResourceOccupied вид ресурса, он же имя кэша
const ResourceOccupied = "occupied"

// Service сервис занятости барберов.
// Занятые интервалы кэшируются на короткое время по ключу (барбер, дата).
type Service struct {
	apiClient APIClient
	cache     *ttlcache.Cache[[]domain.OccupiedInterval]
	logger    Logger
}

// NewService создает новый экземпляр сервиса занятости
func NewService(apiClient APIClient, cache *ttlcache.Cache[[]domain.OccupiedInterval], logger Logger) *Service {
	return &Service{
		apiClient: apiClient,
		cache:     cache,
		logger:    logger,
	}
}

// Key ключ кэша для барбера и даты
func Key(barberID string, date time.Time) string {
	return barberID + ":" + date.Format(domain.DateFormat)
}

// GetOccupied возвращает занятые интервалы барбера на дату
func (s *Service) GetOccupied(ctx context.Context, barberID string, date time.Time) ttlcache.Result[[]domain.OccupiedInterval] {
	return s.cache.GetOrFetch(ctx, Key(barberID, date), func(ctx context.Context) ([]domain.OccupiedInterval, error) {
		intervals, err := s.apiClient.GetOccupiedSlots(ctx, barberID, date)
		if errors.Is(err, barberapi.ErrBarberNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrBarberNotFound, err)
		}
		if err != nil {
			return nil, err
		}
		if intervals == nil {
			intervals = []domain.OccupiedInterval{}
		}
		return intervals, nil
	})
}

// Invalidate удаляет закэшированную занятость барбера на дату (например, после нового бронирования)
func (s *Service) Invalidate(ctx context.Context, barberID string, date time.Time) error {
	if err := s.cache.Invalidate(ctx, Key(barberID, date)); err != nil {
		s.logger.Error("Invalidate: barber_id=%s date=%s: %v", barberID, date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: Invalidate: %v", ErrInternal, err)
	}
	return nil
}

// Clear удаляет всю закэшированную занятость
func (s *Service) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error("Clear: %v", err)
		return fmt.Errorf("%w: Clear: %v", ErrInternal, err)
	}
	return nil
}
