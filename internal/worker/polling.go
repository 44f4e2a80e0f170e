package worker

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PollingHandler обрабатывает входящие сообщения от Telegram в режиме long polling
type PollingHandler struct {
	routeUpdateUseCase RouteUpdateUseCase
	logger             Logger
}

// NewPollingHandler создаёт новый обработчик для long polling
func NewPollingHandler(routeUpdateUseCase RouteUpdateUseCase, logger Logger) *PollingHandler {
	return &PollingHandler{
		routeUpdateUseCase: routeUpdateUseCase,
		logger:             logger,
	}
}

// Start запускает обработку обновлений из канала
// Блокирующий метод, должен вызываться в отдельной goroutine.
// Завершается при отмене ctx или закрытии канала (StopReceivingUpdates).
func (h *PollingHandler) Start(ctx context.Context, updatesChan tgbotapi.UpdatesChannel) {
	h.logger.Info("Starting Telegram long polling handler...")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Stopping Telegram long polling handler...")
			return

		case update, ok := <-updatesChan:
			if !ok {
				h.logger.Info("Telegram updates channel closed, stopping long polling handler")
				return
			}
			h.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram
func (h *PollingHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if err := h.routeUpdateUseCase.Execute(ctx, &update); err != nil {
		h.logger.Error("Failed to handle update %d: %v", update.UpdateID, err)
	}
}
