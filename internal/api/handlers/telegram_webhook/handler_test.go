package telegram_webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-KnollBot/pkg/logger"
)

type fakeRouter struct {
	updates []*tgbotapi.Update
	err     error
}

func (f *fakeRouter) Execute(_ context.Context, update *tgbotapi.Update) error {
	f.updates = append(f.updates, update)
	return f.err
}

type fakeStatus struct{ down bool }

func (f fakeStatus) ShuttingDown() bool { return f.down }

const askUpdate = `{
	"update_id": 10,
	"message": {
		"message_id": 1,
		"from": {"id": 7, "is_bot": false, "first_name": "Ann"},
		"chat": {"id": 7, "type": "private"},
		"date": 1700000000,
		"text": "/ask What is Go?",
		"entities": [{"type": "bot_command", "offset": 0, "length": 4}]
	}
}`

func post(h *Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	return w
}

func TestHandle_OK(t *testing.T) {
	router := &fakeRouter{}
	w := post(NewHandler(router, fakeStatus{}, logger.Nop()), askUpdate)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.Len(t, router.updates, 1)
	assert.Equal(t, 10, router.updates[0].UpdateID)
	assert.Equal(t, "ask", router.updates[0].Message.Command())
}

func TestHandle_ProcessingErrorStill200(t *testing.T) {
	router := &fakeRouter{err: errors.New("send failed")}
	w := post(NewHandler(router, fakeStatus{}, logger.Nop()), askUpdate)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"send failed"}`, w.Body.String())
}

func TestHandle_BadBody(t *testing.T) {
	w := post(NewHandler(&fakeRouter{}, fakeStatus{}, logger.Nop()), "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_ShuttingDown(t *testing.T) {
	router := &fakeRouter{}
	w := post(NewHandler(router, fakeStatus{down: true}, logger.Nop()), askUpdate)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"shutting_down"}`, w.Body.String())
	assert.Empty(t, router.updates)
}
