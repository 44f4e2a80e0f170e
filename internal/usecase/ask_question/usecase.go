package ask_question

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram/templates"
	"github.com/m04kA/SMC-KnollBot/pkg/chunker"
	"github.com/m04kA/SMC-KnollBot/pkg/metrics"
	"github.com/m04kA/SMC-KnollBot/pkg/plaintext"
)

// Config параметры обработки /ask
type Config struct {
	AgentTimeout  time.Duration
	MessageLimit  int
	ResponseDelay time.Duration
	ChunkDelay    time.Duration
	PlainText     bool // переводить markdown ответа в простой текст
}

// UseCase обрабатывает команду /ask
type UseCase struct {
	cfg      Config
	agent    Agent
	limiter  Limiter
	telegram TelegramService
	status   Status
	recorder Recorder
	logger   Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// New создаёт новый use case для обработки /ask
func New(cfg Config, agent Agent, limiter Limiter, telegramService TelegramService, status Status, recorder Recorder, logger Logger) *UseCase {
	if cfg.MessageLimit <= 0 {
		cfg.MessageLimit = chunker.DefaultLimit
	}

	return &UseCase{
		cfg:      cfg,
		agent:    agent,
		limiter:  limiter,
		telegram: telegramService,
		status:   status,
		recorder: recorder,
		logger:   logger,
		sleep:    sleep,
	}
}

// Execute выполняет обработку команды /ask
// Сбой агента пользователь видит как общий ответ об ошибке, наверх возвращаются только ошибки отправки
func (uc *UseCase) Execute(ctx context.Context, msg *tgbotapi.Message) error {
	if uc.status.ShuttingDown() {
		uc.logger.Info("Ignoring /ask during shutdown")
		return nil
	}
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}

	q := domain.NewQuestion(msg)
	uc.logger.Info("User %s (ID: %d) sent /ask", displayName(msg.From), q.UserID)

	// Ограниченный пользователь получает "подождите" даже на пустой вопрос,
	// но пустой вопрос сам лимит не расходует
	limited, err := uc.limiter.Limited(ctx, q.UserID)
	if err != nil {
		uc.logger.Warn("Rate limiter failed for user %d, allowing request: %v", q.UserID, err)
		limited = false
	}
	if limited {
		return uc.rateLimited(ctx, q)
	}

	if q.IsEmpty() {
		uc.record(metrics.OutcomeEmpty)
		return uc.reply(ctx, q, templates.ForgotToAsk)
	}

	allowed, err := uc.limiter.Allow(ctx, q.UserID)
	if err != nil {
		uc.logger.Warn("Rate limiter failed for user %d, allowing request: %v", q.UserID, err)
		allowed = true
	}
	if !allowed {
		return uc.rateLimited(ctx, q)
	}

	uc.logger.Info("Processing query from user %d: %s", q.UserID, preview(q.Text, 50))

	answer, err := uc.answer(ctx, q)
	if err != nil {
		uc.logger.Error("Error processing query for user %d: %v", q.UserID, err)
		uc.record(metrics.OutcomeAgentError)
		return uc.reply(ctx, q, templates.AgentError)
	}

	chunks := chunker.Split(answer, uc.cfg.MessageLimit)
	uc.logger.Info("Generated response for user %d (%d characters, %d messages)", q.UserID, chunker.Length(answer), len(chunks))

	if err := uc.sleep(ctx, uc.cfg.ResponseDelay); err != nil {
		return fmt.Errorf("usecase.AskQuestion: wait before reply to chat %d: %w", q.ChatID, err)
	}

	if err := uc.deliver(ctx, q, chunks); err != nil {
		uc.record(metrics.OutcomeSendError)
		return err
	}

	uc.record(metrics.OutcomeAnswered)
	return nil
}

func (uc *UseCase) rateLimited(ctx context.Context, q *domain.Question) error {
	uc.logger.Info("User %d hit rate limit", q.UserID)
	uc.record(metrics.OutcomeRateLimited)
	return uc.reply(ctx, q, templates.PleaseWait)
}

func (uc *UseCase) answer(ctx context.Context, q *domain.Question) (string, error) {
	runCtx := ctx
	if uc.cfg.AgentTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, uc.cfg.AgentTimeout)
		defer cancel()
	}

	res, err := uc.agent.Run(runCtx, q.Text)
	if err != nil {
		return "", err
	}

	answer := res.Output
	if uc.cfg.PlainText {
		if plain := plaintext.FromMarkdown(answer); plain != "" {
			answer = plain
		}
	}
	return answer, nil
}

// deliver отправляет ответ. Один кусок при 429 заменяется подсказкой подождать,
// при нескольких кусках отправка прекращается на первом 429.
func (uc *UseCase) deliver(ctx context.Context, q *domain.Question, chunks []string) error {
	if len(chunks) == 1 {
		err := uc.telegram.SendText(ctx, domain.NewPlainTelegramMessage(q.ChatID, chunks[0]))
		var retry *telegram.RetryAfterError
		if errors.As(err, &retry) {
			uc.logger.Warn("Rate limit exceeded while sending response to chat %d. Retry in %d seconds", q.ChatID, retry.Seconds())
			return uc.reply(ctx, q, templates.RetryAfterText(retry.Seconds()))
		}
		if err != nil {
			return fmt.Errorf("usecase.AskQuestion: send answer to chat %d: %w", q.ChatID, err)
		}
		return nil
	}

	uc.logger.Info("Splitting response for chat %d into %d chunks", q.ChatID, len(chunks))
	for i, chunk := range chunks {
		if i > 0 {
			if err := uc.sleep(ctx, uc.cfg.ChunkDelay); err != nil {
				return fmt.Errorf("usecase.AskQuestion: wait before chunk %d: %w", i+1, err)
			}
		}

		err := uc.telegram.SendText(ctx, domain.NewPlainTelegramMessage(q.ChatID, chunk))
		var retry *telegram.RetryAfterError
		if errors.As(err, &retry) {
			uc.logger.Warn("Rate limit exceeded while sending chunk %d/%d to chat %d. Retry in %d seconds",
				i+1, len(chunks), q.ChatID, retry.Seconds())
			return nil
		}
		if err != nil {
			return fmt.Errorf("usecase.AskQuestion: send chunk %d/%d to chat %d: %w", i+1, len(chunks), q.ChatID, err)
		}
	}

	return nil
}

// reply отправляет служебный ответ; 429 на нём только логируется
func (uc *UseCase) reply(ctx context.Context, q *domain.Question, text string) error {
	err := uc.telegram.SendText(ctx, domain.NewPlainTelegramMessage(q.ChatID, text))
	var retry *telegram.RetryAfterError
	if errors.As(err, &retry) {
		uc.logger.Warn("Rate limit exceeded while replying to chat %d: %d seconds", q.ChatID, retry.Seconds())
		return nil
	}
	if err != nil {
		return fmt.Errorf("usecase.AskQuestion: reply to chat %d: %w", q.ChatID, err)
	}
	return nil
}

func (uc *UseCase) record(outcome string) {
	if uc.recorder != nil {
		uc.recorder.Question(outcome)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func displayName(u *tgbotapi.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Unknown"
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
