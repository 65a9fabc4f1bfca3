package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/occupancy"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

// UseCase use case для получения доступных слотов барбера
type UseCase struct {
	catalog      CatalogService
	occupancy    OccupancyService
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location задает часовой пояс барбершопа, в нем считаются "сегодня" и время слотов.
func NewUseCase(
	catalog CatalogService,
	occupancy OccupancyService,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}
	return &UseCase{
		catalog:      catalog,
		occupancy:    occupancy,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Приводим дату и текущее время к часовому поясу барбершопа
	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	dateStr := date.Format(domain.DateFormat)

	uc.logger.Info("GetAvailableSlots: barber=%s, date=%s", req.BarberID, dateStr)

	resp := &Response{
		Date:     date,
		BarberID: req.BarberID,
	}

	// 3. Получаем конфигурацию компании; без нее работаем по умолчанию
	var config *domain.CompanyConfig
	configRes := uc.catalog.GetCompanyConfig(ctx)
	resp.ConfigSource = string(configRes.Source)
	switch configRes.Status {
	case ttlcache.StatusFresh:
		config = configRes.Payload
	case ttlcache.StatusStale:
		config = configRes.Payload
		resp.Degraded = true
		uc.logger.Warn("GetAvailableSlots: using stale company config (fetched at %s): %v",
			configRes.FetchedAt.Format(time.RFC3339), configRes.Err)
	default:
		resp.Degraded = true
		uc.logger.Warn("GetAvailableSlots: company config unavailable, using defaults: %v", configRes.Err)
	}

	if config != nil && config.MaintenanceMode {
		uc.logger.Info("GetAvailableSlots: company is in maintenance mode")
		return nil, fmt.Errorf("%w: %s", ErrMaintenanceMode, config.MaintenanceMessage)
	}

	// 4. Валидация даты с учетом окна бронирования
	bookingWindowDays := domain.DefaultBookingWindowDays
	if config.HasBookingWindow() {
		bookingWindowDays = config.BookingWindowDays
	}
	if err := validateDate(date, now, bookingWindowDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Проверяем, что барбер существует (если список барберов доступен)
	rosterRes := uc.catalog.GetBarbers(ctx)
	if rosterRes.HasPayload() {
		if _, ok := rosterRes.Payload.FindBarber(req.BarberID); !ok {
			uc.logger.Warn("GetAvailableSlots: barber id=%s not found", req.BarberID)
			return nil, ErrBarberNotFound
		}
	} else {
		uc.logger.Warn("GetAvailableSlots: barber roster unavailable, skipping barber check: %v", rosterRes.Err)
	}

	// 6. Получаем занятые интервалы; без них слоты не считаются
	occupiedRes := uc.occupancy.GetOccupied(ctx, req.BarberID, date)
	if errors.Is(occupiedRes.Err, occupancy.ErrBarberNotFound) {
		uc.logger.Warn("GetAvailableSlots: barber id=%s unknown to booking API", req.BarberID)
		return nil, ErrBarberNotFound
	}
	if occupiedRes.IsUnavailable() {
		uc.logger.Error("GetAvailableSlots: occupancy unavailable for barber=%s, date=%s: %v",
			req.BarberID, dateStr, occupiedRes.Err)
		return nil, fmt.Errorf("%w: %w", ErrOccupancyUnavailable, occupiedRes.Err)
	}
	if occupiedRes.IsStale() {
		resp.Degraded = true
		uc.logger.Warn("GetAvailableSlots: using stale occupancy for barber=%s, date=%s: %v",
			req.BarberID, dateStr, occupiedRes.Err)
	}
	resp.OccupancySource = string(occupiedRes.Source)

	// 7. Вычисляем свободные слоты
	var (
		workingHours *domain.WorkingHours
		policy       *domain.SlotPolicy
	)
	if config != nil {
		workingHours = config.WorkingHours
		policy = config.Policy
	}

	slots, err := ComputeAvailableSlots(date, now, workingHours, policy, occupiedRes.Payload)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
	resp.Slots = slots

	uc.logger.Info("GetAvailableSlots: %d slots for barber=%s, date=%s (config=%s, occupancy=%s, degraded=%t)",
		len(slots), req.BarberID, dateStr, resp.ConfigSource, resp.OccupancySource, resp.Degraded)

	return resp, nil
}
