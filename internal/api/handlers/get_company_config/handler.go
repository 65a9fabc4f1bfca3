package get_company_config

import (
	"net/http"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
)

const (
	msgConfigUnavailable = "конфигурация компании временно недоступна"
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

// Handle GET /api/v1/company/config
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result := h.service.GetCompanyConfig(r.Context())

	// Нет ни свежих данных, ни копии в кэше
	if !result.HasPayload() {
		h.logger.Error("GET /company/config - Config unavailable: %v", result.Err)
		handlers.RespondServiceUnavailable(w, msgConfigUnavailable)
		return
	}

	if result.IsStale() {
		h.logger.Warn("GET /company/config - Serving stale config: %v", result.Err)
	}

	h.logger.Info("GET /company/config - Config retrieved: source=%s, stale=%t", result.Source, result.IsStale())
	handlers.RespondJSON(w, http.StatusOK, handlers.NewCachedResponse(result, FromDomain(result.Payload)))
}
