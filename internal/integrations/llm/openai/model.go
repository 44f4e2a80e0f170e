package openai

import (
	"context"
	"encoding/json"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

const DefaultModel = "gpt-4o-mini"

// Model agent.ChatModel поверх OpenAI Chat Completions с tool calling
type Model struct {
	client *goopenai.Client
	model  string
}

// New создаёт модель. Пустой baseURL означает api.openai.com.
func New(apiKey, baseURL, model string) *Model {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Model{client: goopenai.NewClientWithConfig(cfg), model: model}
}

func (m *Model) Name() string { return "openai/" + m.model }

func (m *Model) Generate(ctx context.Context, req agent.Request) (*agent.Response, error) {
	chatReq := goopenai.ChatCompletionRequest{
		Model:    m.model,
		Messages: messages(req),
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = toolDefinitions(req.Tools)
		chatReq.ToolChoice = "auto"
	}

	resp, err := m.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	msg := resp.Choices[0].Message
	out := &agent.Response{
		Text: msg.Content,
		Usage: agent.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	for _, call := range msg.ToolCalls {
		args, err := tools.DecodeArguments(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%w: tool %s: %w", ErrRequest, call.Function.Name, err)
		}
		out.ToolCalls = append(out.ToolCalls, agent.ToolCall{ID: call.ID, Name: call.Function.Name, Arguments: args})
	}

	return out, nil
}

func toolDefinitions(specs []agent.ToolSpec) []goopenai.Tool {
	out := make([]goopenai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  tools.JSONSchema(s.Parameters),
			},
		})
	}
	return out
}

func messages(req agent.Request) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		out = append(out, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.Instructions})
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case agent.RoleAssistant:
			m := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: msg.Content}
			for _, call := range msg.ToolCalls {
				args, _ := json.Marshal(call.Arguments)
				m.ToolCalls = append(m.ToolCalls, goopenai.ToolCall{
					ID:       call.ID,
					Type:     goopenai.ToolTypeFunction,
					Function: goopenai.FunctionCall{Name: call.Name, Arguments: string(args)},
				})
			}
			out = append(out, m)
		case agent.RoleTool:
			out = append(out, goopenai.ChatCompletionMessage{
				Role:       goopenai.ChatMessageRoleTool,
				Content:    msg.Content,
				ToolCallID: msg.ToolCallID,
			})
		default:
			out = append(out, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: msg.Content})
		}
	}
	return out
}
