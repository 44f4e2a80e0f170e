package telegram_webhook

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "неверный формат тела запроса"

	statusOK           = "ok"
	statusError        = "error"
	statusShuttingDown = "shutting_down"
)

// Response тело ответа Telegram
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	routeUpdateUseCase RouteUpdateUseCase
	status             Status
	logger             Logger
}

func NewHandler(routeUpdateUseCase RouteUpdateUseCase, status Status, logger Logger) *Handler {
	return &Handler{
		routeUpdateUseCase: routeUpdateUseCase,
		status:             status,
		logger:             logger,
	}
}

// Handle обрабатывает обновление синхронно. Ошибки обработки отдаются с кодом 200,
// чтобы Telegram не присылал то же обновление повторно.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.status.ShuttingDown() {
		h.logger.Info("Ignoring webhook during shutdown")
		handlers.RespondJSON(w, http.StatusOK, Response{Status: statusShuttingDown})
		return
	}

	// Парсим webhook update от Telegram
	var update tgbotapi.Update
	if err := handlers.DecodeJSON(r, &update); err != nil {
		h.logger.Warn("Failed to decode telegram webhook: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.routeUpdateUseCase.Execute(r.Context(), &update); err != nil {
		h.logger.Error("Error processing webhook update %d: %v", update.UpdateID, err)
		handlers.RespondJSON(w, http.StatusOK, Response{Status: statusError, Message: err.Error()})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Status: statusOK})
}
