package rediscache

import "errors"

var (
	// ErrGet возвращается при ошибке чтения ключа
	ErrGet = errors.New("rediscache.repository: failed to get key")

	// ErrSet возвращается при ошибке записи ключа
	ErrSet = errors.New("rediscache.repository: failed to set key")

	// ErrDelete возвращается при ошибке удаления ключей
	ErrDelete = errors.New("rediscache.repository: failed to delete keys")

	// ErrScan возвращается при ошибке перебора ключей
	ErrScan = errors.New("rediscache.repository: failed to scan keys")

	// ErrDecode возвращается, когда значение в redis не удалось разобрать
	ErrDecode = errors.New("rediscache.repository: failed to decode entry")
)
