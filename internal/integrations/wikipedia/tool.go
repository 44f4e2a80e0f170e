package wikipedia

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

// Tool инструмент агента "wikipedia_search"
type Tool struct {
	client *Client
}

// NewTool оборачивает клиент в инструмент агента
func NewTool(client *Client) *Tool {
	return &Tool{client: client}
}

func (t *Tool) Name() string { return "wikipedia_search" }

func (t *Tool) Description() string {
	return "Search Wikipedia for information about a given topic. Returns page titles with their summaries."
}

func (t *Tool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{Name: "query", Type: "string", Description: "The topic to search for.", Required: true},
	}
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := tools.StringArg(args, "query")
	if query == "" {
		return "", fmt.Errorf("wikipedia_search: query is empty")
	}
	return t.client.Lookup(ctx, query)
}
