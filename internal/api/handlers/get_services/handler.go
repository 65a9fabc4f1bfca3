package get_services

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
)

const (
	msgServicesUnavailable = "каталог услуг временно недоступен"
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

// Handle GET /api/v1/services
// Query params: category (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	result := h.service.GetServices(r.Context())

	if !result.HasPayload() {
		h.logger.Error("GET /services - Catalog unavailable: %v", result.Err)
		handlers.RespondServiceUnavailable(w, msgServicesUnavailable)
		return
	}

	if result.IsStale() {
		h.logger.Warn("GET /services - Serving stale catalog: %v", result.Err)
	}

	catalog := FilterByCategory(result.Payload, category)

	h.logger.Info("GET /services - Catalog retrieved: count=%d, category=%q, source=%s",
		len(catalog.Services), category, result.Source)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewCachedResponse(result, catalog))
}
