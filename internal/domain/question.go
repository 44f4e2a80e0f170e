package domain

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Question вопрос пользователя из команды /ask
type Question struct {
	UserID    int64
	Username  string
	ChatID    int64
	MessageID int
	Text      string
}

// NewQuestion собирает вопрос из сообщения с командой.
// Аргументы команды склеиваются через одиночный пробел.
func NewQuestion(msg *tgbotapi.Message) *Question {
	q := &Question{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      strings.Join(strings.Fields(msg.CommandArguments()), " "),
	}
	if msg.From != nil {
		q.UserID = msg.From.ID
		q.Username = msg.From.UserName
	}
	return q
}

// IsEmpty true, если после команды нет текста
func (q *Question) IsEmpty() bool {
	return q.Text == ""
}
