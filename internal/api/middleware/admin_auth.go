package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
)

// HeaderAdminToken заголовок с токеном администратора
const HeaderAdminToken = "X-Admin-Token"

const (
	msgMissingAdminToken = "требуется токен администратора"
	msgInvalidAdminToken = "неверный токен администратора"
)

// AdminAuth проверяет токен администратора в X-Admin-Token или Authorization: Bearer.
// Пустой token запрещает доступ ко всем защищенным маршрутам.
func AdminAuth(token string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(HeaderAdminToken)
			if provided == "" {
				provided = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}

			if provided == "" {
				logger.Warn("AdminAuth: missing token for %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingAdminToken)
				return
			}

			if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logger.Warn("AdminAuth: invalid token for %s %s", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgInvalidAdminToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
