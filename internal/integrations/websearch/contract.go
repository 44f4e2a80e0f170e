package websearch

import "context"

// NoResults ответ инструмента, когда поиск ничего не вернул
const NoResults = "No web search results were found"

// Searcher бэкенд веб-поиска
type Searcher interface {
	Engine() string
	Search(ctx context.Context, query string) (*Results, error)
}
