package worker

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
)

// RouteUpdateUseCase интерфейс для обработки обновления Telegram
type RouteUpdateUseCase interface {
	Execute(ctx context.Context, update *tgbotapi.Update) error
}

// Evicter лимитер, которому нужна периодическая очистка
type Evicter interface {
	Evict(idle time.Duration) int
}

// WebhookInfoProvider источник состояния webhook
type WebhookInfoProvider interface {
	GetWebhookInfo() (*domain.WebhookInfo, error)
}

// Recorder принимает метрики фоновых задач
type Recorder interface {
	PendingUpdates(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
