package refresh_cache

import (
	"net/http"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
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

// Handle POST /api/v1/admin/cache/refresh
// Принудительно перезапрашивает конфигурацию, барберов и услуги.
// Всегда отвечает 200, статус каждого ресурса в отчете.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	report := h.service.Refresh(r.Context())

	if report.AllFresh() {
		h.logger.Info("POST /admin/cache/refresh - All resources refreshed")
	} else {
		h.logger.Warn("POST /admin/cache/refresh - Some resources were not refreshed")
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
