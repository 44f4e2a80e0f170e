package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые могут прийти из окружения разработчика
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "HTTP_PORT", "LOG_LEVEL", "LOG_FILE", "METRICS_ENABLED", "METRICS_PATH", "METRICS_SERVICE_NAME",
		"TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN", "WEBHOOK_URL", "TELEGRAM_WEBHOOK_URL",
		"AGENT_PROVIDER", "AGENT_MODEL", "OPENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY",
		"WEB_SEARCH_BACKEND", "RATE_LIMIT_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("PORT", "9000")
	t.Setenv("WEBHOOK_URL", "https://knoll.example.com/")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "g-key", cfg.Agent.Gemini.APIKey)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "https://knoll.example.com/webhook", cfg.Telegram.WebhookEndpoint())
	assert.NoError(t, cfg.RequireTelegram())

	assert.Equal(t, ProviderGemini, cfg.Agent.Provider)
	assert.Equal(t, 10, cfg.Agent.MaxTurns)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.Interval())
	assert.Equal(t, 4096, cfg.Reply.MessageLimit)
	assert.Equal(t, 1000, cfg.Reply.ResponseDelayMs)
	assert.Equal(t, 3, cfg.Telegram.WebhookAttempts)
	assert.Equal(t, 3, cfg.Tools.Wikipedia.TopK)
	assert.Equal(t, 4000, cfg.Tools.Wikipedia.MaxChars)
}

func TestLoad_FileAndOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[logs]
level = "debug"

[telegram]
bot_token = "from-file"

[agent]
provider = "openai"
model = "gpt-4o"

[agent.openai]
api_key = "sk-file"

[tools.web_search]
backend = "duckduckgo"

[rate_limit]
backend = "redis"
min_interval = 0.5

[reply]
message_limit = 1000
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, ProviderOpenAI, cfg.Agent.Provider)
	assert.Equal(t, "sk-file", cfg.Agent.SelectedProvider().APIKey)
	assert.Equal(t, WebSearchDuckDuckGo, cfg.Tools.WebSearch.Backend)
	assert.Equal(t, "redis:6379", cfg.RateLimit.Redis.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.Interval())
	assert.Equal(t, 1000, cfg.Reply.MessageLimit)
	assert.Empty(t, cfg.Telegram.WebhookEndpoint())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		env  map[string]string
	}{
		{
			name: "missing provider key",
			env:  map[string]string{"AGENT_PROVIDER": "anthropic", "GEMINI_API_KEY": "g"},
		},
		{
			name: "gemini search without gemini key",
			env:  map[string]string{"AGENT_PROVIDER": "openai", "OPENAI_API_KEY": "o"},
		},
		{
			name: "unknown provider",
			env:  map[string]string{"AGENT_PROVIDER": "llama", "GEMINI_API_KEY": "g"},
		},
		{
			name: "bad port",
			env:  map[string]string{"PORT": "70000", "GEMINI_API_KEY": "g"},
		},
		{
			name: "bad webhook url",
			env:  map[string]string{"WEBHOOK_URL": "not a url", "GEMINI_API_KEY": "g"},
		},
		{
			name: "message limit too large",
			toml: "[reply]\nmessage_limit = 5000\n",
			env:  map[string]string{"GEMINI_API_KEY": "g"},
		},
		{
			name: "redis without addr",
			toml: "[rate_limit]\nbackend = \"redis\"\n[rate_limit.redis]\naddr = \"\"\n",
			env:  map[string]string{"GEMINI_API_KEY": "g"},
		},
		{
			name: "broken toml",
			toml: "[logs\n",
			env:  map[string]string{"GEMINI_API_KEY": "g"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, tt.toml)

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestRequireTelegram(t *testing.T) {
	cfg := defaults()
	assert.Error(t, cfg.RequireTelegram())
}
