package occupancy

import "errors"

var (
	// ErrBarberNotFound возвращается, когда API не знает барбера
	ErrBarberNotFound = errors.New("barber not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
