package ask_question

import (
	"context"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/domain"
)

// Agent отвечает на вопрос
type Agent interface {
	Run(ctx context.Context, question string) (*agent.Result, error)
}

// Limiter ограничивает частоту вопросов пользователя
type Limiter interface {
	Allow(ctx context.Context, userID int64) (bool, error)
	Limited(ctx context.Context, userID int64) (bool, error)
}

// TelegramService интерфейс для отправки сообщений
type TelegramService interface {
	SendText(ctx context.Context, msg *domain.TelegramMessage) error
}

// Status состояние процесса
type Status interface {
	ShuttingDown() bool
}

// Recorder принимает исход обработки вопроса
type Recorder interface {
	Question(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
