package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const ddgPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Sponsored</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&amp;rut=abc">The Go Programming Language</a></h2>
  <a class="result__snippet">Go is an open source   programming language
    that makes it simple to build software.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://en.wikipedia.org/wiki/Go_(programming_language)">Go (programming language) - Wikipedia</a></h2>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.com/third">Third</a></h2>
</div>
</body></html>`

func TestDuckDuckGo_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, ddgPage)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, time.Second, 2)
	res, err := d.Search(context.Background(), "golang")

	require.NoError(t, err)
	assert.Equal(t, "duckduckgo_html", res.Engine)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, Hit{
		Title:   "The Go Programming Language",
		URL:     "https://go.dev/",
		Snippet: "Go is an open source programming language that makes it simple to build software.",
	}, res.Hits[0])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Go_(programming_language)", res.Hits[1].URL)
	assert.Empty(t, res.Hits[1].Snippet)
}

func TestDuckDuckGo_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewDuckDuckGo(srv.URL, time.Second, 5).Search(context.Background(), "x")

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestNormalizeResultURL(t *testing.T) {
	assert.Equal(t, "https://go.dev/", normalizeResultURL("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F"))
	assert.Equal(t, "https://example.com/a", normalizeResultURL(" https://example.com/a "))
	assert.Equal(t, "https://duckduckgo.com/about", normalizeResultURL("https://duckduckgo.com/about"))
}

func TestResults_String(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, NoResults, (&Results{Query: "x"}).String())
		var r *Results
		assert.Equal(t, NoResults, r.String())
	})

	t.Run("summary with sources", func(t *testing.T) {
		r := &Results{Summary: "Go 1.24 was released in February 2025.", Hits: []Hit{{Title: "Go blog", URL: "https://go.dev/blog"}}}
		assert.Equal(t, "Go 1.24 was released in February 2025.\n\nSources:\n1. Go blog - https://go.dev/blog", r.String())
	})

	t.Run("hits only", func(t *testing.T) {
		r := &Results{Query: "go", Hits: []Hit{
			{Title: "A", URL: "https://a", Snippet: "first"},
			{Title: "B", URL: "https://b"},
		}}
		assert.Equal(t, "Search results for \"go\":\n1. A - https://a\n   first\n2. B - https://b", r.String())
	})
}

func TestGroundedResults(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Summary "}, {Text: "text."}}},
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://a", Title: "A"}},
					{Web: &genai.GroundingChunkWeb{URI: "https://a", Title: "A again"}},
					{Web: nil},
					{Web: &genai.GroundingChunkWeb{URI: "https://b", Title: "B"}},
				},
			},
		}},
	}

	res := groundedResults("q", resp)

	assert.Equal(t, "Summary text.", res.Summary)
	assert.Equal(t, []Hit{{Title: "A", URL: "https://a"}, {Title: "B", URL: "https://b"}}, res.Hits)
	assert.Empty(t, groundedResults("q", nil).Summary)
}

type stubSearcher struct {
	res *Results
	err error
}

func (s stubSearcher) Engine() string { return "stub" }
func (s stubSearcher) Search(context.Context, string) (*Results, error) {
	return s.res, s.err
}

func TestTool(t *testing.T) {
	tool := NewTool(stubSearcher{res: &Results{Summary: "answer"}})
	assert.Equal(t, "web_search", tool.Name())

	got, err := tool.Execute(context.Background(), map[string]any{"query": "latest go"})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	_, err = NewTool(stubSearcher{err: errors.New("boom")}).Execute(context.Background(), map[string]any{"query": "x"})
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)
}
