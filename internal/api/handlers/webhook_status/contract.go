package webhook_status

import "github.com/m04kA/SMC-KnollBot/internal/domain"

// TelegramService источник состояния webhook
type TelegramService interface {
	GetWebhookInfo() (*domain.WebhookInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
