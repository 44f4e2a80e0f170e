package gemini

import (
	"context"

	"google.golang.org/genai"
)

// generator часть *genai.Models, используемая моделью
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
