package barberapi

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("barber not found")

	// ErrNotFound возвращается при 404 от сервиса
	ErrNotFound = errors.New("barberapi client: resource not found")

	// ErrInternal возвращается при внутренних ошибках клиента (запрос не удалось создать или выполнить)
	ErrInternal = errors.New("barberapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("barberapi client: invalid response")

	// ErrUnauthorized возвращается, когда токен отклонен и обновить его не удалось
	ErrUnauthorized = errors.New("barberapi client: unauthorized")
)
