package config

import (
	"os"
	"strconv"
)

// overrideFromEnv переопределяет значения из переменных окружения
func overrideFromEnv(cfg *Config) {
	// Server
	setInt(&cfg.Server.HTTPPort, "PORT", "HTTP_PORT")

	// Logs
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Logs.File, "LOG_FILE")

	// Metrics
	setBool(&cfg.Metrics.Enabled, "METRICS_ENABLED")
	setString(&cfg.Metrics.Path, "METRICS_PATH")
	setString(&cfg.Metrics.ServiceName, "METRICS_SERVICE_NAME")

	// Telegram
	setString(&cfg.Telegram.BotToken, "TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.WebhookURL, "WEBHOOK_URL", "TELEGRAM_WEBHOOK_URL")

	// Agent
	setString(&cfg.Agent.Provider, "AGENT_PROVIDER")
	setString(&cfg.Agent.Model, "AGENT_MODEL")
	setString(&cfg.Agent.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Agent.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setString(&cfg.Agent.Anthropic.APIKey, "ANTHROPIC_API_KEY")

	// Tools
	setString(&cfg.Tools.WebSearch.Backend, "WEB_SEARCH_BACKEND")

	// RateLimit
	setString(&cfg.RateLimit.Backend, "RATE_LIMIT_BACKEND")
	setString(&cfg.RateLimit.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.RateLimit.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.RateLimit.Redis.DB, "REDIS_DB")
}

// lookup возвращает первое непустое значение из списка переменных
func lookup(names ...string) (string, bool) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v, true
		}
	}
	return "", false
}

func setString(dst *string, names ...string) {
	if v, ok := lookup(names...); ok {
		*dst = v
	}
}

func setInt(dst *int, names ...string) {
	if v, ok := lookup(names...); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, names ...string) {
	if v, ok := lookup(names...); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
