package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/health"
	statushandler "github.com/m04kA/SMC-KnollBot/internal/api/handlers/status"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/telegram_webhook"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/webhook_status"
	"github.com/m04kA/SMC-KnollBot/internal/config"
	"github.com/m04kA/SMC-KnollBot/internal/domain"
	"github.com/m04kA/SMC-KnollBot/internal/service/status"
	"github.com/m04kA/SMC-KnollBot/pkg/logger"
	"github.com/m04kA/SMC-KnollBot/pkg/metrics"
)

type flakySetter struct {
	failures int
	calls    int
	urls     []string
}

func (s *flakySetter) SetWebhook(url string) error {
	s.calls++
	s.urls = append(s.urls, url)
	if s.calls <= s.failures {
		return errors.New("telegram unavailable")
	}
	return nil
}

func TestSetWebhookWithRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		s := &flakySetter{failures: 2}
		err := setWebhookWithRetry(context.Background(), s, "https://knoll.example/webhook", 3, time.Millisecond, logger.Nop())

		require.NoError(t, err)
		assert.Equal(t, 3, s.calls)
		assert.Equal(t, "https://knoll.example/webhook", s.urls[2])
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		s := &flakySetter{failures: 5}
		err := setWebhookWithRetry(context.Background(), s, "https://knoll.example/webhook", 3, time.Millisecond, logger.Nop())

		assert.EqualError(t, err, "telegram unavailable")
		assert.Equal(t, 3, s.calls)
	})

	t.Run("stops waiting when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := &flakySetter{failures: 5}
		err := setWebhookWithRetry(ctx, s, "https://knoll.example/webhook", 3, time.Hour, logger.Nop())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, s.calls)
	})
}

type noopRouter struct{ updates int }

func (r *noopRouter) Execute(context.Context, *tgbotapi.Update) error {
	r.updates++
	return nil
}

type webhookInfo struct{}

func (webhookInfo) GetWebhookInfo() (*domain.WebhookInfo, error) {
	return &domain.WebhookInfo{URL: "https://knoll.example/webhook"}, nil
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("AGENT_PROVIDER", config.ProviderGemini)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("RATE_LIMIT_BACKEND", config.RateLimitMemory)

	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestRouter(t *testing.T, m *metrics.Metrics) (http.Handler, *noopRouter) {
	t.Helper()
	cfg := loadTestConfig(t)

	st := status.New()
	updates := &noopRouter{}
	log := logger.Nop()

	return newRouter(cfg, m, routes{
		status:        statushandler.NewHandler(st),
		health:        health.NewHandler(st),
		webhookStatus: webhook_status.NewHandler(webhookInfo{}, log),
		webhook:       telegram_webhook.NewHandler(updates, st, log),
	}, log), updates
}

func TestRouter(t *testing.T) {
	r, updates := newTestRouter(t, metrics.New("knollbot_test"))

	cases := []struct {
		method string
		path   string
		body   string
		code   int
		substr string
	}{
		{http.MethodGet, "/", "", http.StatusOK, "Knoll Bot is running"},
		{http.MethodGet, "/health", "", http.StatusOK, `"service":"knoll-bot"`},
		{http.MethodGet, "/webhook-status", "", http.StatusOK, "https://knoll.example/webhook"},
		{http.MethodPost, "/webhook", `{"update_id":1}`, http.StatusOK, `"status":"ok"`},
		{http.MethodGet, "/webhook", "", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/metrics", "", http.StatusOK, "knollbot_test_http_requests_total"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			if tc.substr != "" {
				assert.Contains(t, rec.Body.String(), tc.substr)
			}
		})
	}

	assert.Equal(t, 1, updates.updates)
}

func TestRouter_MetricsDisabled(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildLimiter_Memory(t *testing.T) {
	rl, err := buildLimiter(context.Background(), config.RateLimitConfig{Backend: config.RateLimitMemory, MinInterval: 2}, logger.Nop())
	require.NoError(t, err)

	ok, err := rl.Allow(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rl.Allow(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NotNil(t, rl.evicter)
	assert.NoError(t, rl.close())
}

func TestBuildAgent_OpenAIWithDuckDuckGo(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Agent.Provider = config.ProviderOpenAI
	cfg.Agent.OpenAI.APIKey = "sk-test"
	cfg.Tools.WebSearch.Backend = config.WebSearchDuckDuckGo

	a, err := buildAgent(context.Background(), cfg, logger.Nop(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Knoll", a.Name())
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"ask"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.Execute()

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "requires at least 1 arg"))
}
