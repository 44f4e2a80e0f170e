package domain

// ParseMode константы для режимов парсинга текста в Telegram
const (
	ParseModeHTML  = "HTML" // HTML форматирование (для шаблонов)
	ParseModePlain = ""     // Без форматирования (ответы агента)
)

// TelegramMessage представляет сообщение для отправки через Telegram Bot API
type TelegramMessage struct {
	ChatID           int64  // ID чата получателя
	MessageText      string // Текст сообщения
	ReplyToMessageID int    // Ответ на сообщение (0 - без цитирования)
	ParseMode        string // Режим парсинга (HTML, Plain)
}

// NewPlainTelegramMessage создает сообщение без форматирования
// Используется для ответов агента и системных ответов бота
func NewPlainTelegramMessage(chatID int64, text string) *TelegramMessage {
	return &TelegramMessage{
		ChatID:      chatID,
		MessageText: text,
		ParseMode:   ParseModePlain,
	}
}

// WithReplyTo делает сообщение ответом на messageID (builder pattern)
func (m *TelegramMessage) WithReplyTo(messageID int) *TelegramMessage {
	m.ReplyToMessageID = messageID
	return m
}
