package start_message

import (
	"context"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
)

// TelegramService интерфейс для работы с Telegram Bot API
type TelegramService interface {
	SendText(ctx context.Context, msg *domain.TelegramMessage) error
}
