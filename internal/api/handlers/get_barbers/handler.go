package get_barbers

import (
	"net/http"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

const (
	msgBarbersUnavailable = "список барберов временно недоступен"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result := h.service.GetBarbers(r.Context())

	if !result.HasPayload() {
		h.logger.Error("GET /barbers - Roster unavailable: %v", result.Err)
		handlers.RespondServiceUnavailable(w, msgBarbersUnavailable)
		return
	}

	if result.IsStale() {
		h.logger.Warn("GET /barbers - Serving stale roster: %v", result.Err)
	}

	roster := result.Payload
	if roster == nil {
		roster = domain.Roster{}
	}

	h.logger.Info("GET /barbers - Roster retrieved: count=%d, source=%s", len(roster), result.Source)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewCachedResponse(result, roster))
}
