package websearch

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("websearch: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе поискового бэкенда
	ErrInvalidResponse = errors.New("websearch: invalid response")
)
