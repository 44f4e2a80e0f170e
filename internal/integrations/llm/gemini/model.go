package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

const DefaultModel = "gemini-2.5-flash"

// Model agent.ChatModel поверх Gemini API с function calling
type Model struct {
	gen   generator
	model string
}

// NewClient создаёт genai клиент для Gemini API. Клиент общий для модели и grounded-поиска.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %v", ErrRequest, err)
	}
	return client, nil
}

// New создаёт модель
func New(client *genai.Client, model string) *Model {
	return newModel(client.Models, model)
}

func newModel(gen generator, model string) *Model {
	if model == "" {
		model = DefaultModel
	}
	return &Model{gen: gen, model: model}
}

func (m *Model) Name() string { return "gemini/" + m.model }

func (m *Model) Generate(ctx context.Context, req agent.Request) (*agent.Response, error) {
	config := &genai.GenerateContentConfig{}
	if req.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations(req.Tools)}}
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAuto},
		}
	}

	resp, err := m.gen.GenerateContent(ctx, m.model, contents(req.Messages), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	return fromResponse(resp)
}

func functionDeclarations(specs []agent.ToolSpec) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		properties := make(map[string]*genai.Schema, len(s.Parameters))
		for _, p := range s.Parameters {
			properties[p.Name] = &genai.Schema{Type: schemaType(p.Type), Description: p.Description}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   tools.RequiredNames(s.Parameters),
			},
		})
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// contents переводит диалог в формат Gemini. Подряд идущие ответы инструментов
// объединяются в один user-turn, как того требует API.
func contents(msgs []agent.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]
		switch msg.Role {
		case agent.RoleAssistant:
			if raw, ok := msg.Raw.(*genai.Content); ok && raw != nil {
				out = append(out, raw)
				continue
			}
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Arguments}})
			}
			out = append(out, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case agent.RoleTool:
			var parts []*genai.Part
			for ; i < len(msgs) && msgs[i].Role == agent.RoleTool; i++ {
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       msgs[i].ToolCallID,
					Name:     msgs[i].ToolName,
					Response: map[string]any{"output": msgs[i].Content},
				}})
			}
			i--
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: parts})

		default:
			out = append(out, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return out
}

func fromResponse(resp *genai.GenerateContentResponse) (*agent.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	content := resp.Candidates[0].Content
	out := &agent.Response{Raw: content}

	var text strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", len(out.ToolCalls)+1)
			}
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			out.ToolCalls = append(out.ToolCalls, agent.ToolCall{ID: id, Name: part.FunctionCall.Name, Arguments: args})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	out.Text = text.String()

	if u := resp.UsageMetadata; u != nil {
		out.Usage = agent.Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}

	return out, nil
}
