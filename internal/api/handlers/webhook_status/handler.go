package webhook_status

import (
	"net/http"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers"
	"github.com/m04kA/SMC-KnollBot/internal/domain"
)

// Response тело ответа /webhook-status
type Response struct {
	WebhookConfigured  bool   `json:"webhook_configured"`
	WebhookURL         string `json:"webhook_url"`
	LastErrorDate      int    `json:"last_error_date"`
	LastErrorMessage   string `json:"last_error_message"`
	MaxConnections     int    `json:"max_connections"`
	PendingUpdateCount int    `json:"pending_update_count"`
}

// ErrorResponse ответ, если Telegram недоступен
type ErrorResponse struct {
	Error             string `json:"error"`
	WebhookConfigured bool   `json:"webhook_configured"`
}

type Handler struct {
	telegram TelegramService
	logger   Logger
}

func NewHandler(telegram TelegramService, logger Logger) *Handler {
	return &Handler{telegram: telegram, logger: logger}
}

// Handle всегда отвечает 200: ошибка Telegram попадает в тело ответа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	info, err := h.telegram.GetWebhookInfo()
	if err != nil {
		h.logger.Warn("Failed to get webhook info: %v", err)
		handlers.RespondJSON(w, http.StatusOK, ErrorResponse{Error: err.Error()})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromDomain(info))
}

func fromDomain(info *domain.WebhookInfo) Response {
	return Response{
		WebhookConfigured:  info.IsConfigured(),
		WebhookURL:         info.URL,
		LastErrorDate:      info.LastErrorDate,
		LastErrorMessage:   info.LastErrorMessage,
		MaxConnections:     info.MaxConnections,
		PendingUpdateCount: info.PendingUpdateCount,
	}
}
