package wikipedia

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("wikipedia client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе MediaWiki API
	ErrInvalidResponse = errors.New("wikipedia client: invalid response")
)
