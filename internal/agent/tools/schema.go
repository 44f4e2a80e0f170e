package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSONSchema описание аргументов в виде JSON Schema объекта
func JSONSchema(params []Parameter) map[string]any {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		prop := map[string]any{"type": schemaType(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// RequiredNames имена обязательных аргументов
func RequiredNames(params []Parameter) []string {
	var out []string
	for _, p := range params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// DecodeArguments разбирает JSON-аргументы вызова. Пустая строка означает "без аргументов".
func DecodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("tools: invalid arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func schemaType(t string) string {
	switch t {
	case "integer", "number", "boolean":
		return t
	default:
		return "string"
	}
}
