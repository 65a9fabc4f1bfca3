package get_available_slots

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("barber not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает окно бронирования компании
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrMaintenanceMode возвращается, когда компания временно не принимает записи
	ErrMaintenanceMode = errors.New("booking is suspended for maintenance")

	// ErrOccupancyUnavailable возвращается, когда занятость барбера не удалось получить ни из API, ни из кэша
	ErrOccupancyUnavailable = errors.New("barber occupancy is unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
