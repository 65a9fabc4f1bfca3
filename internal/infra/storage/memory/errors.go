package memory

import "errors"

var (
	// ErrInvalidSize возвращается при недопустимом размере хранилища
	ErrInvalidSize = errors.New("memory.repository: invalid size")
)
