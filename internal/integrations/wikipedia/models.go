package wikipedia

// SearchHit результат полнотекстового поиска
type SearchHit struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
}

// Page страница с вводной частью статьи в виде простого текста
type Page struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Missing bool   `json:"missing,omitempty"`
}

type searchResponse struct {
	Query struct {
		Search []SearchHit `json:"search"`
	} `json:"query"`
	Error *apiError `json:"error,omitempty"`
}

type extractsResponse struct {
	Query struct {
		Pages []Page `json:"pages"`
	} `json:"query"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
