package get_available_slots

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingBarberID      = "ID барбера обязателен"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast           = "нельзя записаться на прошедшую дату"
	msgDateTooFar           = "дата за пределами окна бронирования"
	msgBarberNotFound       = "барбер не найден"
	msgMaintenance          = "запись временно приостановлена"
	msgOccupancyUnavailable = "расписание барбера временно недоступно, попробуйте позже"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{barberId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем barberId из URL
	barberID := strings.TrimSpace(vars["barberId"])
	if barberID == "" {
		h.logger.Warn("GET /barbers/{id}/available-slots - Missing barber ID")
		handlers.RespondBadRequest(w, msgMissingBarberID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /barbers/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(barberID, dateStr)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /barbers/{id}/available-slots - Date in the past: barber_id=%s, date=%s", barberID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /barbers/{id}/available-slots - Date outside booking window: barber_id=%s, date=%s", barberID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrBarberNotFound):
			h.logger.Warn("GET /barbers/{id}/available-slots - Barber not found: barber_id=%s", barberID)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, getAvailableSlots.ErrMaintenanceMode):
			h.logger.Warn("GET /barbers/{id}/available-slots - Maintenance mode: %v", err)
			handlers.RespondServiceUnavailable(w, msgMaintenance)

		case errors.Is(err, getAvailableSlots.ErrOccupancyUnavailable):
			h.logger.Error("GET /barbers/{id}/available-slots - Occupancy unavailable: barber_id=%s, date=%s, error=%v",
				barberID, dateStr, err)
			handlers.RespondServiceUnavailable(w, msgOccupancyUnavailable)

		default:
			h.logger.Error("GET /barbers/{id}/available-slots - Failed to get slots: barber_id=%s, date=%s, error=%v",
				barberID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /barbers/{id}/available-slots - Success: barber_id=%s, date=%s, slots=%d, degraded=%t",
		barberID, dateStr, len(response.Slots), response.Degraded)
	handlers.RespondJSON(w, http.StatusOK, response)
}
