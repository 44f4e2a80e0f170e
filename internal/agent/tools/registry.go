package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTool возвращается при вызове незарегистрированного инструмента
var ErrUnknownTool = errors.New("tools: unknown tool")

// Registry набор инструментов агента
type Registry struct {
	tools map[string]Tool
}

// NewRegistry создаёт реестр и регистрирует переданные инструменты
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(tool Tool) {
	if tool == nil {
		return
	}
	r.tools[tool.Name()] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All возвращает инструменты, отсортированные по имени
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (r *Registry) Len() int {
	return len(r.tools)
}

func (r *Registry) Names() string {
	all := r.All()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}

// Execute вызывает инструмент по имени, проверяя обязательные аргументы
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	for _, p := range t.Parameters() {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			return "", fmt.Errorf("tools: %s: missing required argument %q", name, p.Name)
		}
	}

	return t.Execute(ctx, args)
}

// StringArg достаёт строковый аргумент, обрезая пробелы
func StringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}
