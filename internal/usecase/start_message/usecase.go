package start_message

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram/templates"
)

// UseCase обрабатывает команды /start и /help
type UseCase struct {
	telegramService TelegramService
}

// New создаёт новый use case для обработки /start
func New(telegramService TelegramService) *UseCase {
	return &UseCase{
		telegramService: telegramService,
	}
}

// Execute отправляет подсказку по использованию бота
// Возвращает ошибку с полным контекстом для логирования на уровне выше
func (uc *UseCase) Execute(ctx context.Context, msg *tgbotapi.Message) error {
	if msg == nil || msg.Chat == nil {
		return nil
	}

	chatID := msg.Chat.ID
	if err := uc.telegramService.SendText(ctx, domain.NewPlainTelegramMessage(chatID, templates.StartMessageText)); err != nil {
		return fmt.Errorf("usecase.SendStartMessage: send usage to chat %d: %w", chatID, err)
	}

	return nil
}
