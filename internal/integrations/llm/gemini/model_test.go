package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

var searchSpec = agent.ToolSpec{
	Name:        "wikipedia_search",
	Description: "Search Wikipedia.",
	Parameters:  []tools.Parameter{{Name: "query", Type: "string", Description: "Query.", Required: true}},
}

func TestGenerate_FunctionCall(t *testing.T) {
	modelTurn := &genai.Content{
		Role: genai.RoleModel,
		Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{FunctionCall: &genai.FunctionCall{Name: "wikipedia_search", Args: map[string]any{"query": "Go"}}},
		},
	}
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates:    []*genai.Candidate{{Content: modelTurn}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 3},
	}}
	m := newModel(gen, "")

	resp, err := m.Generate(context.Background(), agent.Request{
		Instructions: "You are Knoll.",
		Messages:     []agent.Message{{Role: agent.RoleUser, Content: "What is Go?"}},
		Tools:        []agent.ToolSpec{searchSpec},
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, "gemini/"+DefaultModel, m.Name())
	assert.Empty(t, resp.Text)
	assert.Equal(t, []agent.ToolCall{{ID: "call_1", Name: "wikipedia_search", Arguments: map[string]any{"query": "Go"}}}, resp.ToolCalls)
	assert.Equal(t, agent.Usage{InputTokens: 12, OutputTokens: 3}, resp.Usage)
	assert.Same(t, modelTurn, resp.Raw)

	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, "You are Knoll.", gen.config.SystemInstruction.Parts[0].Text)
	require.Len(t, gen.config.Tools, 1)
	decl := gen.config.Tools[0].FunctionDeclarations[0]
	assert.Equal(t, "wikipedia_search", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, genai.TypeString, decl.Parameters.Properties["query"].Type)
	assert.Equal(t, []string{"query"}, decl.Parameters.Required)
	assert.Equal(t, genai.FunctionCallingConfigModeAuto, gen.config.ToolConfig.FunctionCallingConfig.Mode)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := newModel(&fakeGenerator{err: errors.New("quota")}, "m").Generate(context.Background(), agent.Request{})
	assert.ErrorIs(t, err, ErrRequest)

	_, err = newModel(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, "m").Generate(context.Background(), agent.Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestContents(t *testing.T) {
	raw := &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: "raw"}}}
	msgs := []agent.Message{
		{Role: agent.RoleUser, Content: "q"},
		{Role: agent.RoleAssistant, Raw: raw},
		{Role: agent.RoleTool, Content: "a", ToolCallID: "1", ToolName: "wikipedia_search"},
		{Role: agent.RoleTool, Content: "b", ToolCallID: "2", ToolName: "web_search"},
		{Role: agent.RoleAssistant, Content: "again", ToolCalls: []agent.ToolCall{{ID: "3", Name: "web_search", Arguments: map[string]any{"query": "x"}}}},
	}

	got := contents(msgs)

	require.Len(t, got, 4)
	assert.Equal(t, genai.RoleUser, got[0].Role)
	assert.Same(t, raw, got[1])

	require.Len(t, got[2].Parts, 2)
	assert.Equal(t, genai.RoleUser, got[2].Role)
	assert.Equal(t, "wikipedia_search", got[2].Parts[0].FunctionResponse.Name)
	assert.Equal(t, map[string]any{"output": "b"}, got[2].Parts[1].FunctionResponse.Response)

	assert.Equal(t, genai.RoleModel, got[3].Role)
	require.Len(t, got[3].Parts, 2)
	assert.Equal(t, "again", got[3].Parts[0].Text)
	assert.Equal(t, "web_search", got[3].Parts[1].FunctionCall.Name)
}
