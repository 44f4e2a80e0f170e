package start_message

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram/templates"
)

type fakeTelegram struct {
	sent []*domain.TelegramMessage
	err  error
}

func (f *fakeTelegram) SendText(_ context.Context, msg *domain.TelegramMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestExecute(t *testing.T) {
	tg := &fakeTelegram{}

	err := New(tg).Execute(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}})

	require.NoError(t, err)
	require.Len(t, tg.sent, 1)
	assert.Equal(t, int64(9), tg.sent[0].ChatID)
	assert.Equal(t, templates.StartMessageText, tg.sent[0].MessageText)
	assert.Contains(t, tg.sent[0].MessageText, "/ask")
}

func TestExecute_SendError(t *testing.T) {
	tg := &fakeTelegram{err: errors.New("blocked by user")}

	err := New(tg).Execute(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}})

	assert.ErrorContains(t, err, "chat 9")
	assert.NoError(t, New(tg).Execute(context.Background(), nil))
}
