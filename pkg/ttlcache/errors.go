package ttlcache

import "errors"

var (
	// ErrFetchFailed возвращается, когда источник данных недоступен или вернул ошибку
	ErrFetchFailed = errors.New("ttlcache: fetch failed")

	// ErrNoDataAvailable возвращается, когда fetch не удался и в кэше нет даже устаревших данных
	ErrNoDataAvailable = errors.New("ttlcache: no data available")

	// ErrCodec возвращается при ошибке сериализации payload
	ErrCodec = errors.New("ttlcache: codec error")
)
