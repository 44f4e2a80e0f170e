package route_update

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Команды бота
const (
	CommandAsk   = "ask"
	CommandStart = "start"
	CommandHelp  = "help"
)

// UseCase направляет обновление Telegram в обработчик команды
// Используется и webhook-хендлером, и polling-воркером
type UseCase struct {
	commands map[string]CommandHandler
	logger   Logger
}

// New создаёт роутер; /help обрабатывается тем же обработчиком, что и /start
func New(ask, start CommandHandler, logger Logger) *UseCase {
	return &UseCase{
		commands: map[string]CommandHandler{
			CommandAsk:   ask,
			CommandStart: start,
			CommandHelp:  start,
		},
		logger: logger,
	}
}

// Execute обрабатывает одно обновление. Не-команды и неизвестные команды игнорируются.
func (uc *UseCase) Execute(ctx context.Context, update *tgbotapi.Update) error {
	if update == nil || update.Message == nil || update.Message.Chat == nil || !update.Message.IsCommand() {
		return nil
	}

	msg := update.Message
	command := msg.Command()
	handler, ok := uc.commands[command]
	if !ok || handler == nil {
		return nil
	}

	requestID := uuid.NewString()
	uc.logger.Info("[update %d][%s] /%s from chat %d", update.UpdateID, requestID, command, msg.Chat.ID)

	if err := handler.Execute(ctx, msg); err != nil {
		return fmt.Errorf("usecase.RouteUpdate: /%s (update %d, request %s): %w", command, update.UpdateID, requestID, err)
	}

	return nil
}
