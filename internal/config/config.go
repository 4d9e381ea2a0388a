package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/pokedex-translator-go/internal/constants"
)

const (
	ProviderFunTranslations = "funtranslations"
	ProviderOpenAI          = "openai"
	ProviderGemini          = "gemini"
)

type Config struct {
	Server      ServerConfig
	PokeAPI     PokeAPIConfig
	Translation TranslationConfig
	OpenAI      OpenAIConfig
	Gemini      GeminiConfig
	Cache       CacheConfig
	WarmUp      WarmUpConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Port int
}

type PokeAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TranslationConfig struct {
	Provider    string
	BaseURL     string
	APIToken    string
	Timeout     time.Duration
	RatePerHour int
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type CacheConfig struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	MaxEntries  int
}

type WarmUpConfig struct {
	Names       []string
	Concurrency int
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	translationBaseURL := getEnv("TRANSLATION_API_BASE_URL", "")
	if translationBaseURL == "" {
		// 구버전 배포는 SHAKESPEARE_API_BASE_URL에 전체 엔드포인트를 넣었다
		translationBaseURL = legacyTranslationBaseURL(getEnv("SHAKESPEARE_API_BASE_URL", constants.APIConfig.FunTranslationsURL))
	}
	timeout := time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", int(constants.APIConfig.UpstreamTimeout/time.Second))) * time.Second

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 0),
		},
		PokeAPI: PokeAPIConfig{
			BaseURL: strings.TrimRight(getEnv("POKEMON_API_BASE_URL", constants.APIConfig.PokeAPIBaseURL), "/"),
			Timeout: timeout,
		},
		Translation: TranslationConfig{
			Provider:    strings.ToLower(getEnv("TRANSLATION_PROVIDER", ProviderFunTranslations)),
			BaseURL:     strings.TrimRight(translationBaseURL, "/"),
			APIToken:    getEnv("API_TOKEN", ""),
			Timeout:     timeout,
			RatePerHour: getEnvInt("TRANSLATION_RATE_PER_HOUR", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", constants.LLMConfig.DefaultOpenAIModel),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.LLMConfig.DefaultGeminiModel),
		},
		Cache: CacheConfig{
			TTL:         time.Duration(getEnvInt("CACHE_TTL_MINUTES", int(constants.CacheConfig.TTL/time.Minute))) * time.Minute,
			FallbackTTL: time.Duration(getEnvInt("CACHE_FALLBACK_TTL_MINUTES", int(constants.CacheConfig.FallbackTTL/time.Minute))) * time.Minute,
			MaxEntries:  getEnvInt("CACHE_MAX_ENTRIES", constants.CacheConfig.MaxEntries),
		},
		WarmUp: WarmUpConfig{
			Names:       parseCommaSeparated(getEnv("WARMUP_POKEMON", "")),
			Concurrency: getEnvInt("WARMUP_CONCURRENCY", constants.WarmUpConfig.Concurrency),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT is required and must be between 1 and 65535")
	}
	if c.PokeAPI.BaseURL == "" {
		return fmt.Errorf("POKEMON_API_BASE_URL must not be empty")
	}
	if c.PokeAPI.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}
	if c.Cache.TTL < 0 || c.Cache.FallbackTTL < 0 || c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache settings must not be negative")
	}
	if c.Translation.RatePerHour < 0 {
		return fmt.Errorf("TRANSLATION_RATE_PER_HOUR must not be negative")
	}

	switch c.Translation.Provider {
	case ProviderFunTranslations:
		if c.Translation.BaseURL == "" {
			return fmt.Errorf("TRANSLATION_API_BASE_URL must not be empty")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSLATION_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when TRANSLATION_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unknown TRANSLATION_PROVIDER %q", c.Translation.Provider)
	}
	return nil
}

// ListenAddr is the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Server.Port)
}

// legacyShakespeareEndpoint is the path older deployments appended to SHAKESPEARE_API_BASE_URL.
const legacyShakespeareEndpoint = "/translate/shakespeare.json"

func legacyTranslationBaseURL(value string) string {
	return strings.TrimSuffix(strings.TrimRight(value, "/"), legacyShakespeareEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
