package webhook_status

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
	"github.com/m04kA/SMC-KnollBot/pkg/logger"
)

type fakeTelegram struct {
	info *domain.WebhookInfo
	err  error
}

func (f fakeTelegram) GetWebhookInfo() (*domain.WebhookInfo, error) { return f.info, f.err }

func TestHandle(t *testing.T) {
	h := NewHandler(fakeTelegram{info: &domain.WebhookInfo{
		URL:                "https://bot.example.com/webhook",
		PendingUpdateCount: 2,
		MaxConnections:     40,
		LastErrorDate:      1700000000,
		LastErrorMessage:   "Connection refused",
	}}, logger.Nop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/webhook-status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"webhook_configured": true,
		"webhook_url": "https://bot.example.com/webhook",
		"last_error_date": 1700000000,
		"last_error_message": "Connection refused",
		"max_connections": 40,
		"pending_update_count": 2
	}`, w.Body.String())
}

func TestHandle_Error(t *testing.T) {
	h := NewHandler(fakeTelegram{err: errors.New("unauthorized")}, logger.Nop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/webhook-status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized","webhook_configured":false}`, w.Body.String())
}
