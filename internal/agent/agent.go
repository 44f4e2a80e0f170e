package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
)

const (
	// DefaultMaxTurns ограничение числа обращений к модели за один вопрос
	DefaultMaxTurns = 10

	toolErrorTemplate = "An error occurred while running the tool. Please try again. Error: %v"
)

// Config параметры агента
type Config struct {
	Name     string
	MaxTurns int
}

// Result результат выполнения агента
type Result struct {
	Output    string
	TraceID   string
	Turns     int
	ToolCalls int
	Usage     Usage
}

// Agent отвечает на вопрос, вызывая модель и инструменты по её запросу
type Agent struct {
	name     string
	maxTurns int
	model    ChatModel
	registry *tools.Registry
	logger   Logger
	recorder Recorder
	now      func() time.Time
}

// New создаёт агента
func New(cfg Config, model ChatModel, registry *tools.Registry, logger Logger, recorder Recorder) *Agent {
	if cfg.Name == "" {
		cfg.Name = "Knoll"
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if registry == nil {
		registry = tools.NewRegistry()
	}

	return &Agent{
		name:     cfg.Name,
		maxTurns: cfg.MaxTurns,
		model:    model,
		registry: registry,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Name имя агента
func (a *Agent) Name() string {
	return a.name
}

// Run выполняет вопрос. Ошибки инструментов передаются модели как результат вызова,
// ошибкой Run считаются только сбои модели и превышение числа шагов.
func (a *Agent) Run(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	start := time.Now()
	res := &Result{TraceID: uuid.NewString()}

	a.logger.Info("[trace %s] %s run started (model=%s, tools=%s)", res.TraceID, a.name, a.model.Name(), a.registry.Names())

	err := a.loop(ctx, question, res)

	status := "ok"
	if err != nil {
		status = "error"
		a.logger.Error("[trace %s] %s run failed after %d turns: %v", res.TraceID, a.name, res.Turns, err)
	} else {
		a.logger.Info("[trace %s] %s run finished in %s (turns=%d, tool_calls=%d, output=%d chars)",
			res.TraceID, a.name, time.Since(start).Round(time.Millisecond), res.Turns, res.ToolCalls, len(res.Output))
	}
	if a.recorder != nil {
		a.recorder.AgentRun(status, time.Since(start))
	}

	return res, err
}

func (a *Agent) loop(ctx context.Context, question string, res *Result) error {
	req := Request{
		Instructions: Instructions(a.name, a.now()),
		Messages:     []Message{{Role: RoleUser, Content: question}},
		Tools:        a.toolSpecs(),
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrModel, err)
		}

		resp, err := a.model.Generate(ctx, req)
		res.Turns++
		if err != nil {
			return fmt.Errorf("%w: turn %d: %w", ErrModel, turn+1, err)
		}
		res.Usage.InputTokens += resp.Usage.InputTokens
		res.Usage.OutputTokens += resp.Usage.OutputTokens

		if len(resp.ToolCalls) == 0 {
			output := strings.TrimSpace(resp.Text)
			if output == "" {
				return ErrEmptyOutput
			}
			res.Output = output
			return nil
		}

		req.Messages = append(req.Messages, Message{
			Role:      RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
			Raw:       resp.Raw,
		})

		results, err := a.runTools(ctx, res.TraceID, resp.ToolCalls)
		if err != nil {
			return err
		}
		res.ToolCalls += len(resp.ToolCalls)
		req.Messages = append(req.Messages, results...)
	}

	return fmt.Errorf("%w (%d)", ErrMaxTurns, a.maxTurns)
}

// runTools выполняет вызовы одного шага параллельно, сохраняя порядок результатов
func (a *Agent) runTools(ctx context.Context, traceID string, calls []ToolCall) ([]Message, error) {
	results := make([]Message, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			a.logger.Info("[trace %s] calling tool %s", traceID, call.Name)

			output, err := a.registry.Execute(gctx, call.Name, call.Arguments)
			status := "ok"
			if err != nil {
				status = "error"
				if ctx.Err() != nil {
					return err
				}
				a.logger.Warn("[trace %s] tool %s failed: %v", traceID, call.Name, err)
				output = fmt.Sprintf(toolErrorTemplate, err)
			}
			if a.recorder != nil {
				a.recorder.ToolCall(call.Name, status)
			}

			results[i] = Message{
				Role:       RoleTool,
				Content:    output,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModel, err)
	}

	return results, nil
}

func (a *Agent) toolSpecs() []ToolSpec {
	all := a.registry.All()
	specs := make([]ToolSpec, 0, len(all))
	for _, t := range all {
		specs = append(specs, ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return specs
}
