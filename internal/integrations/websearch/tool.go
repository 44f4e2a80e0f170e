package websearch

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

// Tool инструмент агента "web_search"
type Tool struct {
	searcher Searcher
}

// NewTool оборачивает поисковый бэкенд в инструмент агента
func NewTool(searcher Searcher) *Tool {
	return &Tool{searcher: searcher}
}

func (t *Tool) Name() string { return "web_search" }

func (t *Tool) Description() string {
	return "Search the web for current information. Returns a short summary and/or a list of results with titles and URLs."
}

func (t *Tool) Parameters() []tools.Parameter {
	return []tools.Parameter{
		{Name: "query", Type: "string", Description: "Search query.", Required: true},
	}
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := tools.StringArg(args, "query")
	if query == "" {
		return "", fmt.Errorf("web_search: query is empty")
	}

	res, err := t.searcher.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
