package tools

import "context"

// Parameter описание одного строкового/числового аргумента инструмента
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Required    bool
}

// Tool инструмент, который агент может вызвать
type Tool interface {
	Name() string
	Description() string
	Parameters() []Parameter
	Execute(ctx context.Context, args map[string]any) (string, error)
}
