package route_update

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-KnollBot/pkg/logger"
)

type countingHandler struct {
	calls []string
	err   error
}

func (h *countingHandler) Execute(_ context.Context, msg *tgbotapi.Message) error {
	h.calls = append(h.calls, msg.Text)
	return h.err
}

func command(text string, length int) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Chat:     &tgbotapi.Chat{ID: 3},
			Text:     text,
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func TestExecute_Routes(t *testing.T) {
	ask, start := &countingHandler{}, &countingHandler{}
	uc := New(ask, start, logger.Nop())

	require.NoError(t, uc.Execute(context.Background(), command("/ask what?", 4)))
	require.NoError(t, uc.Execute(context.Background(), command("/ask@KnollBot what?", 13)))
	require.NoError(t, uc.Execute(context.Background(), command("/start", 6)))
	require.NoError(t, uc.Execute(context.Background(), command("/help", 5)))

	assert.Equal(t, []string{"/ask what?", "/ask@KnollBot what?"}, ask.calls)
	assert.Equal(t, []string{"/start", "/help"}, start.calls)
}

func TestExecute_Ignores(t *testing.T) {
	ask, start := &countingHandler{}, &countingHandler{}
	uc := New(ask, start, logger.Nop())

	plain := &tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hello"}}

	noChat := command("/ask what?", 4)
	noChat.Message.Chat = nil

	for _, u := range []*tgbotapi.Update{nil, {}, plain, command("/weather", 8), noChat} {
		assert.NoError(t, uc.Execute(context.Background(), u))
	}
	assert.Empty(t, ask.calls)
	assert.Empty(t, start.calls)
}

func TestExecute_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	uc := New(&countingHandler{err: boom}, &countingHandler{}, logger.Nop())

	err := uc.Execute(context.Background(), command("/ask q", 4))

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "/ask")
}
