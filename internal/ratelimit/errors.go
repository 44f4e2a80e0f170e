package ratelimit

import "errors"

var (
	// ErrInvalidInterval возвращается при неположительном интервале
	ErrInvalidInterval = errors.New("ratelimit: interval must be positive")

	// ErrBackend возвращается при ошибке хранилища лимитера
	ErrBackend = errors.New("ratelimit: backend error")
)
