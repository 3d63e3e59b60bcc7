package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultGeminiModel is the model problems and hints are tuned for.
const DefaultGeminiModel = "gemini-2.5-flash-preview-04-17"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"SQLPAD_LLM_PROVIDER" envDefault:"gemini"`

	Anthropic  AnthropicConfig  `envPrefix:"SQLPAD_ANTHROPIC_"`
	OpenAI     OpenAIConfig     `envPrefix:"SQLPAD_OPENAI_"`
	Gemini     GeminiConfig     `envPrefix:"SQLPAD_GEMINI_"`
	OpenRouter OpenRouterConfig `envPrefix:"SQLPAD_OPENROUTER_"`
	Retry      RetryConfig      `envPrefix:"SQLPAD_LLM_RETRY_"`

	// Timeout bounds a single Generate call, retries included.
	Timeout time.Duration `env:"SQLPAD_LLM_TIMEOUT" envDefault:"45s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-2.5-flash-preview-04-17"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"google/gemini-2.5-flash"`
	BaseURL string `env:"BASE_URL"` // Default: "https://openrouter.ai/api/v1"

	// AppURL and AppTitle identify sqlpad in OpenRouter's app rankings.
	AppURL   string `env:"APP_URL" envDefault:"https://github.com/abhisek/sqlpad"`
	AppTitle string `env:"APP_TITLE" envDefault:"sqlpad"`
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retries; regeneration is then left to the user.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"1"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config with every field at its envDefault,
// ignoring the process environment.
func DefaultConfig() Config {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("llm: invalid config defaults: %v", err))
	}
	return cfg
}

// ConfigFromEnv builds a Config from SQLPAD_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse LLM env: %w", err)
	}
	return cfg, nil
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → API_KEY → OpenAI → Anthropic → OpenRouter) and returns a Config
// for the first provider whose key is found. Returns (Config{}, false) if
// none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	// API_KEY is the generic Gemini credential variable.
	if k := os.Getenv("API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
// A missing key wraps ErrNotConfigured.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("%w: SQLPAD_ANTHROPIC_API_KEY is required for the anthropic provider", ErrNotConfigured)
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: SQLPAD_OPENAI_API_KEY is required for the openai provider", ErrNotConfigured)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: SQLPAD_GEMINI_API_KEY is required for the gemini provider", ErrNotConfigured)
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("%w: SQLPAD_OPENROUTER_API_KEY is required for the openrouter provider", ErrNotConfigured)
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("SQLPAD_LLM_RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
