package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingDB       = errors.New("DATABASE_URL is required")
	ErrInvalidProvider = errors.New("invalid llm provider")
	ErrInvalidLevel    = errors.New("invalid default exam level")
)

type Config struct {
	Telegram     TelegramConfig
	Database     DatabaseConfig
	HTTP         HTTPConfig
	LLM          LLMConfig
	Log          LogConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Assessment   AssessmentConfig
	DefaultLevel string
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type DatabaseConfig struct {
	URL string
}

type HTTPConfig struct {
	Addr string
}

type LLMConfig struct {
	Provider   string
	OpenRouter OpenRouterConfig
	GigaChat   GigaChatConfig
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GigaChatConfig struct {
	AuthKey      string
	ClientID     string
	ClientSecret string
	Scope        string
	AuthURL      string
	BaseURL      string
	Model        string
}

type LogConfig struct {
	Level string
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type AssessmentConfig struct {
	LLMTimeout     time.Duration
	HistoryLimit   int
	PersistResults bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: os.Getenv("TELEGRAM_DEBUG") == "1",
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		HTTP: HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "mock"),
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
			GigaChat: GigaChatConfig{
				AuthKey:      os.Getenv("GIGACHAT_AUTH_KEY"),
				ClientID:     os.Getenv("GIGACHAT_CLIENT_ID"),
				ClientSecret: os.Getenv("GIGACHAT_CLIENT_SECRET"),
				Scope:        getEnvOrDefault("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				AuthURL:      getEnvOrDefault("GIGACHAT_AUTH_URL", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"),
				BaseURL:      getEnvOrDefault("GIGACHAT_BASE_URL", "https://gigachat.devices.sberbank.ru/api/v1"),
				Model:        getEnvOrDefault("GIGACHAT_MODEL", "GigaChat"),
			},
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 5),
		},
		Assessment: AssessmentConfig{
			LLMTimeout:     time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 90)) * time.Second,
			HistoryLimit:   getEnvIntOrDefault("HISTORY_LIMIT", 10),
			PersistResults: getEnvOrDefault("PERSIST_RESULTS", "1") == "1",
		},
		DefaultLevel: getEnvOrDefault("DEFAULT_LEVEL", "CAE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	switch c.LLM.Provider {
	case "mock", "openrouter", "gigachat":
	default:
		return ErrInvalidProvider
	}
	switch c.DefaultLevel {
	case "CAE", "CPE":
	default:
		return ErrInvalidLevel
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
