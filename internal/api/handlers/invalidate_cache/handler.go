package invalidate_cache

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/occupancy"
)

const (
	msgMissingResource = "параметр resource обязателен"
	msgUnknownResource = "неизвестный ресурс"
	msgMissingBarberID = "ID барбера обязателен"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	catalog   CatalogService
	occupancy OccupancyService
	logger    Logger
}

func NewHandler(catalog CatalogService, occupancy OccupancyService, logger Logger) *Handler {
	return &Handler{
		catalog:   catalog,
		occupancy: occupancy,
		logger:    logger,
	}
}

// Handle DELETE /api/v1/admin/cache
// Query params: resource (company_config, barbers, services, occupied или all)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resource := strings.TrimSpace(r.URL.Query().Get("resource"))
	if resource == "" {
		h.logger.Warn("DELETE /admin/cache - Missing resource")
		handlers.RespondBadRequest(w, msgMissingResource)
		return
	}

	var (
		cleared []string
		err     error
	)
	switch resource {
	case ResourceAll:
		if err = h.catalog.Clear(r.Context()); err == nil {
			err = h.occupancy.Clear(r.Context())
		}
		cleared = append(append(cleared, catalog.Resources...), occupancy.ResourceOccupied)

	case occupancy.ResourceOccupied:
		err = h.occupancy.Clear(r.Context())
		cleared = []string{occupancy.ResourceOccupied}

	default:
		err = h.catalog.Invalidate(r.Context(), resource)
		cleared = []string{resource}
	}

	if err != nil {
		if errors.Is(err, catalog.ErrUnknownResource) {
			h.logger.Warn("DELETE /admin/cache - Unknown resource: %s", resource)
			handlers.RespondBadRequest(w, msgUnknownResource)
			return
		}

		h.logger.Error("DELETE /admin/cache - Failed to clear cache: resource=%s, error=%v", resource, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/cache - Cache cleared: resource=%s", resource)
	handlers.RespondJSON(w, http.StatusOK, &InvalidateResponse{Cleared: cleared})
}

// HandleOccupied DELETE /api/v1/admin/cache/occupied/{barberId}
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleOccupied(w http.ResponseWriter, r *http.Request) {
	barberID := strings.TrimSpace(mux.Vars(r)["barberId"])
	if barberID == "" {
		h.logger.Warn("DELETE /admin/cache/occupied/{id} - Missing barber ID")
		handlers.RespondBadRequest(w, msgMissingBarberID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("DELETE /admin/cache/occupied/{id} - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("DELETE /admin/cache/occupied/{id} - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.occupancy.Invalidate(r.Context(), barberID, date); err != nil {
		h.logger.Error("DELETE /admin/cache/occupied/{id} - Failed to invalidate: barber_id=%s, date=%s, error=%v",
			barberID, dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/cache/occupied/{id} - Invalidated: barber_id=%s, date=%s", barberID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, &InvalidateResponse{Cleared: []string{occupancy.Key(barberID, date)}})
}
