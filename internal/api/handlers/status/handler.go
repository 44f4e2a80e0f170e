package status

import (
	"net/http"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers"
)

const msgRunning = "Knoll Bot is running"

// Response тело ответа GET /
type Response struct {
	Message  string  `json:"message"`
	Status   string  `json:"status"`
	Uptime   float64 `json:"uptime"`
	Shutdown bool    `json:"shutdown"`
}

type Handler struct {
	status Status
}

func NewHandler(status Status) *Handler {
	return &Handler{status: status}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Response{
		Message:  msgRunning,
		Status:   "healthy",
		Uptime:   h.status.Uptime(),
		Shutdown: h.status.ShuttingDown(),
	})
}
