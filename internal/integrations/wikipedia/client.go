package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// NoResults ответ инструмента, когда ничего не найдено
	NoResults = "No good Wikipedia Search Result was found"

	defaultUserAgent = "KnollBot/1.0 (https://github.com/m04kA/SMC-KnollBot)"
)

// Options настройки поиска
type Options struct {
	Language  string // код языкового раздела, например "en"
	TopK      int    // сколько статей брать из поиска
	MaxChars  int    // ограничение на суммарный размер ответа
	UserAgent string
}

// Client клиент MediaWiki API
type Client struct {
	baseURL    string
	opts       Options
	httpClient *http.Client
}

// NewClient создаёт клиент; пустой baseURL означает https://<language>.wikipedia.org/w/api.php
func NewClient(baseURL string, timeout time.Duration, opts Options) *Client {
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 4000
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", opts.Language)
	}

	return &Client{
		baseURL: baseURL,
		opts:    opts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search выполняет полнотекстовый поиск и возвращает до limit результатов
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("srprop", "")

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidResponse, resp.Error.Code, resp.Error.Info)
	}

	return resp.Query.Search, nil
}

// Extracts получает вводные части статей, сохраняя порядок titles
func (c *Client) Extracts(ctx context.Context, titles []string) ([]Page, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", strings.Join(titles, "|"))

	var resp extractsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidResponse, resp.Error.Code, resp.Error.Info)
	}

	byTitle := make(map[string]Page, len(resp.Query.Pages))
	for _, p := range resp.Query.Pages {
		byTitle[p.Title] = p
	}

	pages := make([]Page, 0, len(titles))
	for _, t := range titles {
		if p, ok := byTitle[t]; ok && !p.Missing {
			pages = append(pages, p)
		}
	}

	return pages, nil
}

// Lookup ищет статьи по запросу и возвращает их краткое содержание одним текстом
func (c *Client) Lookup(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return NoResults, nil
	}

	hits, err := c.Search(ctx, query, c.opts.TopK)
	if err != nil {
		return "", err
	}

	titles := make([]string, 0, len(hits))
	for _, h := range hits {
		titles = append(titles, h.Title)
	}

	pages, err := c.Extracts(ctx, titles)
	if err != nil {
		return "", err
	}

	var blocks []string
	for _, p := range pages {
		extract := strings.TrimSpace(p.Extract)
		if extract == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Page: %s\nSummary: %s", p.Title, extract))
	}
	if len(blocks) == 0 {
		return NoResults, nil
	}

	return truncate(strings.Join(blocks, "\n\n"), c.opts.MaxChars), nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// truncate обрезает текст до limit символов, не разрывая руны
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
