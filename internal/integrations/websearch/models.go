package websearch

import (
	"fmt"
	"strings"
)

// Hit один результат поиска
type Hit struct {
	Title   string
	URL     string
	Snippet string
}

// Results результаты поиска: сводка (если бэкенд её даёт) и список источников
type Results struct {
	Query   string
	Engine  string
	Summary string
	Hits    []Hit
}

// String формирует текст для модели
func (r *Results) String() string {
	if r == nil || (strings.TrimSpace(r.Summary) == "" && len(r.Hits) == 0) {
		return NoResults
	}

	var b strings.Builder
	if s := strings.TrimSpace(r.Summary); s != "" {
		b.WriteString(s)
		if len(r.Hits) > 0 {
			b.WriteString("\n\nSources:\n")
		}
	} else {
		fmt.Fprintf(&b, "Search results for %q:\n", r.Query)
	}

	for i, h := range r.Hits {
		fmt.Fprintf(&b, "%d. %s - %s", i+1, h.Title, h.URL)
		if h.Snippet != "" {
			b.WriteString("\n   " + h.Snippet)
		}
		if i < len(r.Hits)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
