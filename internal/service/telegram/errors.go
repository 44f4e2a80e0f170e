package telegram

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSendMessage возвращается при ошибке отправки сообщения
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrInvalidChatID возвращается при некорректном chat_id
	ErrInvalidChatID = errors.New("service.telegram: invalid chat_id")

	// ErrEmptyMessage возвращается при пустом тексте сообщения
	ErrEmptyMessage = errors.New("service.telegram: message text is empty")

	// ErrSetWebhook возвращается при ошибке установки webhook
	ErrSetWebhook = errors.New("service.telegram: failed to set webhook")

	// ErrDeleteWebhook возвращается при ошибке удаления webhook
	ErrDeleteWebhook = errors.New("service.telegram: failed to delete webhook")

	// ErrWebhookInfo возвращается при ошибке получения состояния webhook
	ErrWebhookInfo = errors.New("service.telegram: failed to get webhook info")
)

// RetryAfterError Telegram ответил 429 и просит подождать
type RetryAfterError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("%v: retry after %s: %v", ErrSendMessage, e.RetryAfter, e.Err)
}

func (e *RetryAfterError) Unwrap() []error {
	return []error{ErrSendMessage, e.Err}
}

// Seconds целое число секунд ожидания, не меньше 1
func (e *RetryAfterError) Seconds() int {
	s := int(e.RetryAfter / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}
