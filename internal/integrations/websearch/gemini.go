package websearch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiSearchModel = "gemini-2.5-flash"

// Gemini поиск через Gemini с инструментом GoogleSearch (grounding)
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini создаёт grounded-поиск поверх готового genai клиента
func NewGemini(client *genai.Client, model string) *Gemini {
	if model == "" {
		model = defaultGeminiSearchModel
	}
	return &Gemini{client: client, model: model}
}

func (g *Gemini) Engine() string { return "gemini_google_search" }

// Search выполняет grounded-запрос и собирает источники из GroundingMetadata
func (g *Gemini) Search(ctx context.Context, query string) (*Results, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	prompt := "Search the web and summarize the most relevant, up-to-date facts for the following query. " +
		"Answer concisely in plain text.\n\nQuery: " + query

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini search: %v", ErrInternal, err)
	}

	return groundedResults(query, resp), nil
}

func groundedResults(query string, resp *genai.GenerateContentResponse) *Results {
	res := &Results{Query: query, Engine: "gemini_google_search"}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return res
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	res.Summary = text.String()

	if gm := cand.GroundingMetadata; gm != nil {
		seen := make(map[string]bool)
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			res.Hits = append(res.Hits, Hit{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}

	return res
}
