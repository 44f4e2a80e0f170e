package telegram_webhook

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RouteUpdateUseCase интерфейс для обработки обновления Telegram
type RouteUpdateUseCase interface {
	Execute(ctx context.Context, update *tgbotapi.Update) error
}

// Status состояние процесса
type Status interface {
	ShuttingDown() bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
