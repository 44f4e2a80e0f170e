package anthropic

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 2048
)

// Model agent.ChatModel поверх Anthropic Messages API с tool use
type Model struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// New создаёт модель. Пустой baseURL означает api.anthropic.com.
func New(apiKey, baseURL, model string, maxTokens int) *Model {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Model{client: sdk.NewClient(opts...), model: model, maxTokens: int64(maxTokens)}
}

func (m *Model) Name() string { return "anthropic/" + m.model }

func (m *Model) Generate(ctx context.Context, req agent.Request) (*agent.Response, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(m.model),
		MaxTokens: m.maxTokens,
		Messages:  messages(req.Messages),
	}
	if req.Instructions != "" {
		params.System = []sdk.TextBlockParam{{Text: req.Instructions}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toolParams(req.Tools)
		params.ToolChoice = sdk.ToolChoiceUnionParam{OfAuto: &sdk.ToolChoiceAutoParam{}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if len(resp.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	out := &agent.Response{
		Raw: resp.ToParam(),
		Usage: agent.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args, err := tools.DecodeArguments(string(block.Input))
			if err != nil {
				return nil, fmt.Errorf("%w: tool %s: %w", ErrRequest, block.Name, err)
			}
			out.ToolCalls = append(out.ToolCalls, agent.ToolCall{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}
	out.Text = text.String()

	return out, nil
}

func toolParams(specs []agent.ToolSpec) []sdk.ToolUnionParam {
	out := make([]sdk.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		schema := tools.JSONSchema(s.Parameters)
		out = append(out, sdk.ToolUnionParam{OfTool: &sdk.ToolParam{
			Name:        s.Name,
			Description: sdk.String(s.Description),
			InputSchema: sdk.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   tools.RequiredNames(s.Parameters),
			},
		}})
	}
	return out
}

// messages переводит диалог в формат Messages API. Результаты инструментов
// одного шага идут одним user-сообщением.
func messages(msgs []agent.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(msgs))
	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]
		switch msg.Role {
		case agent.RoleAssistant:
			if raw, ok := msg.Raw.(sdk.MessageParam); ok {
				out = append(out, raw)
				continue
			}
			var blocks []sdk.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, sdk.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, sdk.NewToolUseBlock(call.ID, call.Arguments, call.Name))
			}
			out = append(out, sdk.NewAssistantMessage(blocks...))

		case agent.RoleTool:
			var blocks []sdk.ContentBlockParamUnion
			for ; i < len(msgs) && msgs[i].Role == agent.RoleTool; i++ {
				blocks = append(blocks, sdk.NewToolResultBlock(msgs[i].ToolCallID, msgs[i].Content, false))
			}
			i--
			out = append(out, sdk.NewUserMessage(blocks...))

		default:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(msg.Content)))
		}
	}
	return out
}
