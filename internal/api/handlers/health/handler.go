package health

import (
	"net/http"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers"
)

const (
	serviceName     = "knoll-bot"
	msgShuttingDown = "Service is shutting down"
	statusHealthy   = "healthy"
)

// Response тело ответа /health
type Response struct {
	Status         string  `json:"status"`
	Service        string  `json:"service"`
	Uptime         float64 `json:"uptime"`
	TelegramStatus string  `json:"telegram_status"`
	Mode           string  `json:"mode"`
}

type Handler struct {
	status Status
}

func NewHandler(status Status) *Handler {
	return &Handler{status: status}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.status.ShuttingDown() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": msgShuttingDown})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Status:         statusHealthy,
		Service:        serviceName,
		Uptime:         h.status.Uptime(),
		TelegramStatus: h.status.TelegramStatus(),
		Mode:           string(h.status.Mode()),
	})
}
