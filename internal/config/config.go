package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Logs        LogsConfig        `toml:"logs"`
	Server      ServerConfig      `toml:"server"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Telegram    TelegramConfig    `toml:"telegram"`
	Agent       AgentConfig       `toml:"agent"`
	Tools       ToolsConfig       `toml:"tools"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
	Reply       ReplyConfig       `toml:"reply"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

// LogsConfig содержит настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"gt=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"gt=0"`
}

// MetricsConfig содержит настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

// TelegramConfig содержит настройки Telegram Bot
type TelegramConfig struct {
	BotToken          string  `toml:"bot_token"`
	WebhookURL        string  `toml:"webhook_url" validate:"omitempty,url"` // Пусто - режим long polling
	WebhookPath       string  `toml:"webhook_path" validate:"startswith=/"`
	WebhookAttempts   int     `toml:"webhook_attempts" validate:"min=1"`
	WebhookRetryDelay int     `toml:"webhook_retry_delay"` // в секундах
	PollingTimeout    int     `toml:"polling_timeout" validate:"gt=0"`
	MessagesPerSecond float64 `toml:"messages_per_second" validate:"gt=0"`
}

// WebhookEndpoint полный URL, который регистрируется в Telegram
func (t TelegramConfig) WebhookEndpoint() string {
	if t.WebhookURL == "" {
		return ""
	}
	return strings.TrimRight(t.WebhookURL, "/") + t.WebhookPath
}

// Провайдеры LLM
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// AgentConfig содержит настройки агента и LLM провайдеров
type AgentConfig struct {
	Name      string         `toml:"name" validate:"required"`
	Provider  string         `toml:"provider" validate:"oneof=gemini openai anthropic"`
	Model     string         `toml:"model"` // Пусто - модель провайдера по умолчанию
	MaxTurns  int            `toml:"max_turns" validate:"min=1"`
	Timeout   int            `toml:"timeout" validate:"gt=0"` // в секундах
	MaxTokens int            `toml:"max_tokens"`
	Gemini    ProviderConfig `toml:"gemini"`
	OpenAI    ProviderConfig `toml:"openai"`
	Anthropic ProviderConfig `toml:"anthropic"`
}

// ProviderConfig ключ и адрес API провайдера
type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
}

// SelectedProvider настройки выбранного провайдера
func (a AgentConfig) SelectedProvider() ProviderConfig {
	switch a.Provider {
	case ProviderOpenAI:
		return a.OpenAI
	case ProviderAnthropic:
		return a.Anthropic
	default:
		return a.Gemini
	}
}

// Бэкенды веб-поиска
const (
	WebSearchGemini     = "gemini"
	WebSearchDuckDuckGo = "duckduckgo"
)

// ToolsConfig содержит настройки инструментов агента
type ToolsConfig struct {
	Wikipedia WikipediaConfig `toml:"wikipedia"`
	WebSearch WebSearchConfig `toml:"web_search"`
}

// WikipediaConfig содержит настройки инструмента wikipedia_search
type WikipediaConfig struct {
	Enabled  bool   `toml:"enabled"`
	Language string `toml:"language" validate:"required"`
	BaseURL  string `toml:"base_url" validate:"omitempty,url"`
	TopK     int    `toml:"top_k" validate:"min=1"`
	MaxChars int    `toml:"max_chars" validate:"min=1"`
	Timeout  int    `toml:"timeout" validate:"gt=0"` // в секундах
}

// WebSearchConfig содержит настройки инструмента web_search
type WebSearchConfig struct {
	Enabled    bool   `toml:"enabled"`
	Backend    string `toml:"backend" validate:"oneof=gemini duckduckgo"`
	Model      string `toml:"model"` // модель Gemini для grounded поиска
	BaseURL    string `toml:"base_url" validate:"omitempty,url"`
	MaxResults int    `toml:"max_results" validate:"min=1"`
	Timeout    int    `toml:"timeout" validate:"gt=0"` // в секундах
}

// Бэкенды лимитера
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// RateLimitConfig содержит настройки ограничения частоты вопросов
type RateLimitConfig struct {
	Backend     string      `toml:"backend" validate:"oneof=memory redis"`
	MinInterval float64     `toml:"min_interval" validate:"gt=0"` // в секундах между вопросами одного пользователя
	Redis       RedisConfig `toml:"redis"`
}

// Interval минимальный интервал между вопросами
func (r RateLimitConfig) Interval() time.Duration {
	return time.Duration(r.MinInterval * float64(time.Second))
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"min=0"`
	Prefix   string `toml:"prefix"`
}

// ReplyConfig содержит настройки отправки ответа
type ReplyConfig struct {
	MessageLimit    int  `toml:"message_limit" validate:"min=2,max=4096"`
	ResponseDelayMs int  `toml:"response_delay_ms" validate:"min=0"`
	ChunkDelayMs    int  `toml:"chunk_delay_ms" validate:"min=0"`
	PlainText       bool `toml:"plain_text"`
}

// MaintenanceConfig содержит интервалы фоновых задач (в секундах, 0 - выключено)
type MaintenanceConfig struct {
	EvictInterval        int `toml:"evict_interval" validate:"min=0"`
	EvictIdle            int `toml:"evict_idle" validate:"min=0"`
	WebhookProbeInterval int `toml:"webhook_probe_interval" validate:"min=0"`
}

// Load загружает конфигурацию из TOML файла с поддержкой .env и переменных окружения.
// Отсутствующий файл не ошибка: бот можно настроить только переменными окружения.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := defaults()

	// Читаем TOML файл
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}

	// Переопределяем значения из переменных окружения (если они установлены)
	overrideFromEnv(cfg)

	// Валидация конфигурации
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// RequireTelegram проверяет, что задан токен бота (нужен всем командам, кроме локального ask)
func (c *Config) RequireTelegram() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram bot token is required (TELEGRAM_TOKEN)")
	}
	return nil
}

// defaults значения по умолчанию; TOML и окружение накладываются поверх
func defaults() *Config {
	return &Config{
		Logs: LogsConfig{Level: "info", File: "./logs/app.log"},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    120, // ответ агента приходит в том же запросе webhook
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics", ServiceName: "knollbot"},
		Telegram: TelegramConfig{
			WebhookPath:       "/webhook",
			WebhookAttempts:   3,
			WebhookRetryDelay: 2,
			PollingTimeout:    60,
			MessagesPerSecond: 30,
		},
		Agent: AgentConfig{
			Name:     "Knoll",
			Provider: ProviderGemini,
			MaxTurns: 10,
			Timeout:  120,
		},
		Tools: ToolsConfig{
			Wikipedia: WikipediaConfig{Enabled: true, Language: "en", TopK: 3, MaxChars: 4000, Timeout: 15},
			WebSearch: WebSearchConfig{Enabled: true, Backend: WebSearchGemini, MaxResults: 5, Timeout: 30},
		},
		RateLimit: RateLimitConfig{
			Backend:     RateLimitMemory,
			MinInterval: 2,
			Redis:       RedisConfig{Addr: "localhost:6379", Prefix: "knoll:ratelimit:"},
		},
		Reply: ReplyConfig{
			MessageLimit:    4096,
			ResponseDelayMs: 1000,
			ChunkDelayMs:    1000,
			PlainText:       true,
		},
		Maintenance: MaintenanceConfig{
			EvictInterval:        300,
			EvictIdle:            600,
			WebhookProbeInterval: 60,
		},
	}
}

// validate проверяет корректность конфигурации
func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	// Agent validation
	if cfg.Agent.SelectedProvider().APIKey == "" {
		return fmt.Errorf("%s API key is required for agent provider %q", cfg.Agent.Provider, cfg.Agent.Provider)
	}

	// Tools validation
	if cfg.Tools.WebSearch.Enabled && cfg.Tools.WebSearch.Backend == WebSearchGemini && cfg.Agent.Gemini.APIKey == "" {
		return fmt.Errorf("gemini API key is required for web search backend %q", WebSearchGemini)
	}

	// RateLimit validation
	if cfg.RateLimit.Backend == RateLimitRedis && cfg.RateLimit.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required for rate limit backend %q", RateLimitRedis)
	}

	return nil
}
