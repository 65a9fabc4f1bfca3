package middleware

import (
	"net/http"
	"time"
)

// AccessLog пишет строку лога на каждый запрос
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			if rec.status >= http.StatusInternalServerError {
				logger.Warn("HTTP %s %s - %d (%s) request_id=%s",
					r.Method, r.URL.Path, rec.status, elapsed, RequestIDFromContext(r.Context()))
				return
			}
			logger.Info("HTTP %s %s - %d (%s) request_id=%s",
				r.Method, r.URL.Path, rec.status, elapsed, RequestIDFromContext(r.Context()))
		})
	}
}
