package middleware

import "time"

// HTTPObserver принимает метрики завершенных запросов
type HTTPObserver interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
