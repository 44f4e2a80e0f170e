package agent

import (
	"context"
	"time"

	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

// Role роль сообщения в диалоге с моделью
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall запрос модели на вызов инструмента
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message сообщение диалога в нейтральном для провайдеров формате
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall

	// Для RoleTool: на какой вызов это ответ
	ToolCallID string
	ToolName   string

	// Raw исходное сообщение провайдера (например, *genai.Content).
	// Провайдер может использовать его вместо реконструкции из полей выше.
	Raw any
}

// ToolSpec описание инструмента для модели
type ToolSpec struct {
	Name        string
	Description string
	Parameters  []tools.Parameter
}

// Request один запрос к модели
type Request struct {
	Instructions string
	Messages     []Message
	Tools        []ToolSpec
}

// Usage расход токенов
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response ответ модели: либо финальный текст, либо вызовы инструментов
type Response struct {
	Text      string
	ToolCalls []ToolCall
	Usage     Usage
	Raw       any
}

// ChatModel LLM-бэкенд с поддержкой function calling
type ChatModel interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Recorder принимает метрики агента
type Recorder interface {
	AgentRun(status string, elapsed time.Duration)
	ToolCall(tool, status string)
}
