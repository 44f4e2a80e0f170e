package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"
	defaultUserAgent     = "Mozilla/5.0 (compatible; KnollBot/1.0)"
	maxBodyBytes         = 2 << 20
)

// DuckDuckGo поиск через HTML-версию DuckDuckGo
type DuckDuckGo struct {
	baseURL    string
	maxResults int
	userAgent  string
	httpClient *http.Client
}

// NewDuckDuckGo создаёт HTML-поиск DuckDuckGo
func NewDuckDuckGo(baseURL string, timeout time.Duration, maxResults int) *DuckDuckGo {
	if baseURL == "" {
		baseURL = defaultDuckDuckGoURL
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DuckDuckGo{
		baseURL:    baseURL,
		maxResults: maxResults,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (d *DuckDuckGo) Engine() string { return "duckduckgo_html" }

func (d *DuckDuckGo) Search(ctx context.Context, query string) (*Results, error) {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", ErrInternal, err)
	}
	qs := u.Query()
	qs.Set("q", query)
	u.RawQuery = qs.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	hits, err := parseDuckDuckGo(io.LimitReader(resp.Body, maxBodyBytes), d.maxResults)
	if err != nil {
		return nil, err
	}

	return &Results{Query: query, Engine: d.Engine(), Hits: hits}, nil
}

func parseDuckDuckGo(r io.Reader, maxResults int) ([]Hit, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse html: %v", ErrInvalidResponse, err)
	}

	var hits []Hit
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}

		hits = append(hits, Hit{
			Title:   title,
			URL:     normalizeResultURL(href),
			Snippet: strings.Join(strings.Fields(s.Find(".result__snippet").First().Text()), " "),
		})
		return len(hits) < maxResults
	})

	return hits, nil
}

// normalizeResultURL разворачивает редирект DuckDuckGo вида //duckduckgo.com/l/?uddg=<url>
func normalizeResultURL(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}

	return href
}
