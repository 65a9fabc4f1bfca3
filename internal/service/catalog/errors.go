package catalog

import "errors"

var (
	// ErrUnknownResource возвращается для неизвестного вида ресурса
	ErrUnknownResource = errors.New("unknown resource")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
