// Package config loads process configuration from the environment and policy
// files for the example agents and server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Providers accepted in AGENTRY_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config holds process-wide settings for wiring models and runtimes.
type Config struct {
	// Provider selects the model backend.
	Provider string

	// Model is the provider-specific model identifier. Empty selects the
	// provider adapter's default.
	Model string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is json or text.
	LogFormat string

	MaxTurns       int
	MaxModelCalls  int
	CallsPerMinute int
}

// Load reads configuration from the environment. Outside production
// (AGENTRY_ENV != "production") a .env file in the working directory is
// loaded first when present, so local development does not need exported
// variables.
func Load() (*Config, error) {
	if os.Getenv("AGENTRY_ENV") != "production" {
		// Missing .env is fine; the environment may carry everything.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Provider:        envOr("AGENTRY_PROVIDER", ProviderAnthropic),
		Model:           os.Getenv("AGENTRY_MODEL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		LogLevel:        envOr("AGENTRY_LOG_LEVEL", "info"),
		LogFormat:       envOr("AGENTRY_LOG_FORMAT", "json"),
	}

	switch cfg.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderMock:
	default:
		return nil, fmt.Errorf("config: unknown provider %q", cfg.Provider)
	}

	var err error
	if cfg.MaxTurns, err = intEnv("AGENTRY_MAX_TURNS", 0); err != nil {
		return nil, err
	}
	if cfg.MaxModelCalls, err = intEnv("AGENTRY_MAX_MODEL_CALLS", 0); err != nil {
		return nil, err
	}
	if cfg.CallsPerMinute, err = intEnv("AGENTRY_CALLS_PER_MINUTE", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}
