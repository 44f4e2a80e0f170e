package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"github.com/m04kA/SMC-KnollBot/internal/agent"
	"github.com/m04kA/SMC-KnollBot/internal/agent/tools"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/health"
	statushandler "github.com/m04kA/SMC-KnollBot/internal/api/handlers/status"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/telegram_webhook"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/webhook_status"
	"github.com/m04kA/SMC-KnollBot/internal/api/middleware"
	"github.com/m04kA/SMC-KnollBot/internal/config"
	"github.com/m04kA/SMC-KnollBot/internal/integrations/llm/anthropic"
	"github.com/m04kA/SMC-KnollBot/internal/integrations/llm/gemini"
	"github.com/m04kA/SMC-KnollBot/internal/integrations/llm/openai"
	"github.com/m04kA/SMC-KnollBot/internal/integrations/websearch"
	"github.com/m04kA/SMC-KnollBot/internal/integrations/wikipedia"
	"github.com/m04kA/SMC-KnollBot/internal/ratelimit"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram"
	"github.com/m04kA/SMC-KnollBot/pkg/logger"
	"github.com/m04kA/SMC-KnollBot/pkg/metrics"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// buildAgent собирает модель выбранного провайдера и инструменты
func buildAgent(ctx context.Context, cfg *config.Config, log *logger.Logger, recorder agent.Recorder) (*agent.Agent, error) {
	webSearch := cfg.Tools.WebSearch

	var genaiClient *genai.Client
	if cfg.Agent.Provider == config.ProviderGemini || (webSearch.Enabled && webSearch.Backend == config.WebSearchGemini) {
		var err error
		genaiClient, err = gemini.NewClient(ctx, cfg.Agent.Gemini.APIKey, cfg.Agent.Gemini.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	var model agent.ChatModel
	provider := cfg.Agent.SelectedProvider()
	switch cfg.Agent.Provider {
	case config.ProviderOpenAI:
		model = openai.New(provider.APIKey, provider.BaseURL, cfg.Agent.Model)
	case config.ProviderAnthropic:
		model = anthropic.New(provider.APIKey, provider.BaseURL, cfg.Agent.Model, cfg.Agent.MaxTokens)
	default:
		model = gemini.New(genaiClient, cfg.Agent.Model)
	}

	registry := tools.NewRegistry()

	if wiki := cfg.Tools.Wikipedia; wiki.Enabled {
		client := wikipedia.NewClient(wiki.BaseURL, seconds(wiki.Timeout), wikipedia.Options{
			Language: wiki.Language,
			TopK:     wiki.TopK,
			MaxChars: wiki.MaxChars,
		})
		registry.Register(wikipedia.NewTool(client))
	}

	if webSearch.Enabled {
		var searcher websearch.Searcher
		switch webSearch.Backend {
		case config.WebSearchDuckDuckGo:
			searcher = websearch.NewDuckDuckGo(webSearch.BaseURL, seconds(webSearch.Timeout), webSearch.MaxResults)
		default:
			searcher = websearch.NewGemini(genaiClient, webSearch.Model)
		}
		registry.Register(websearch.NewTool(searcher))
		log.Info("Web search backend: %s", searcher.Engine())
	}

	a := agent.New(agent.Config{Name: cfg.Agent.Name, MaxTurns: cfg.Agent.MaxTurns}, model, registry, log.With("component", "agent"), recorder)
	log.Info("Agent %s initialized (model=%s, tools=%s)", a.Name(), model.Name(), registry.Names())

	return a, nil
}

// limiter лимитер вопросов и то, что нужно обслуживать в фоне/закрыть при остановке
type limiter struct {
	ratelimit.Limiter
	evicter ratelimit.Evicter
	close   func() error
}

func buildLimiter(ctx context.Context, cfg config.RateLimitConfig, log *logger.Logger) (*limiter, error) {
	if cfg.Backend == config.RateLimitRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Addr, err)
		}

		rl, err := ratelimit.NewRedis(client, cfg.Interval(), cfg.Redis.Prefix)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		log.Info("Rate limiter: redis (addr=%s, interval=%s)", cfg.Redis.Addr, cfg.Interval())
		return &limiter{Limiter: rl, close: client.Close}, nil
	}

	rl, err := ratelimit.NewMemory(cfg.Interval())
	if err != nil {
		return nil, err
	}
	log.Info("Rate limiter: memory (interval=%s)", cfg.Interval())
	return &limiter{Limiter: rl, evicter: rl, close: func() error { return nil }}, nil
}

// routes обработчики HTTP API
type routes struct {
	status        *statushandler.Handler
	health        *health.Handler
	webhookStatus *webhook_status.Handler
	webhook       *telegram_webhook.Handler
}

func newRouter(cfg *config.Config, m *metrics.Metrics, h routes, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
		log.Info("HTTP metrics middleware enabled")
	}

	r.HandleFunc("/", h.status.Handle).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health.Handle).Methods(http.MethodGet)
	r.HandleFunc("/webhook-status", h.webhookStatus.Handle).Methods(http.MethodGet)
	r.HandleFunc(cfg.Telegram.WebhookPath, h.webhook.Handle).Methods(http.MethodPost)

	// Metrics endpoint (публичный)
	if m != nil {
		r.Handle(cfg.Metrics.Path, m.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	return r
}

// WebhookSetter часть telegram.Service для установки webhook
type WebhookSetter interface {
	SetWebhook(webhookURL string) error
}

// setWebhookWithRetry делает до attempts попыток с паузой delay между ними
func setWebhookWithRetry(ctx context.Context, svc WebhookSetter, url string, attempts int, delay time.Duration, log *logger.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = svc.SetWebhook(url); err == nil {
			log.Info("Telegram webhook set to %s", url)
			return nil
		}
		log.Warn("Failed to set webhook (attempt %d/%d): %v", attempt, attempts, err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return err
}

func newTelegramCLIService(configPath string) (*telegram.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram Bot API: %w", err)
	}
	return telegram.NewService(bot, telegram.Options{}), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
