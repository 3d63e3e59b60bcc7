// Package config loads sqlpad settings from SQLPAD_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config is the application-level configuration. LLM settings live in
// llm.Config and are parsed separately.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string `env:"SQLPAD_DB"`

	// Store selects the backend for accounts, tokens and progress.
	Store string `env:"SQLPAD_STORE" envDefault:"sqlite"`

	// StoreFile is the JSON document used by the "file" backend.
	StoreFile string `env:"SQLPAD_STORE_FILE"`

	Redis RedisConfig `envPrefix:"SQLPAD_REDIS_"`
	Log   LogConfig   `envPrefix:"SQLPAD_LOG_"`
	Auth  AuthConfig  `envPrefix:"SQLPAD_"`

	Update UpdateConfig `envPrefix:"SQLPAD_UPDATE_"`

	// Locale is the initial UI language when none is stored.
	Locale string `env:"SQLPAD_LOCALE" envDefault:"en"`
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"sqlpad:"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
	// File overrides the default log file location. "-" logs to stderr.
	File string `env:"FILE"`
}

// AuthConfig configures the simulated auth backend.
type AuthConfig struct {
	// SessionSecret signs session tokens.
	SessionSecret string `env:"SESSION_SECRET" envDefault:"sqlpad-local-session"`

	// LatencyScale multiplies the simulated auth latencies. 0 disables them.
	LatencyScale float64 `env:"AUTH_LATENCY_SCALE" envDefault:"1"`

	// LatencyBase is the base restore/logout latency. Login is 2x, federated 3x.
	LatencyBase time.Duration `env:"AUTH_LATENCY" envDefault:"500ms"`
}

// UpdateConfig configures "sqlpad update".
type UpdateConfig struct {
	// Repository is the GitHub "owner/name" publishing releases.
	Repository string `env:"REPOSITORY" envDefault:"abhisek/sqlpad"`

	// APIURL serves release metadata, DownloadURL the release assets.
	APIURL      string `env:"API_URL" envDefault:"https://api.github.com"`
	DownloadURL string `env:"DOWNLOAD_URL" envDefault:"https://github.com"`

	// Timeout bounds the whole update, download included.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2m"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum-like fields.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	case StoreFile:
		if c.StoreFile == "" {
			return fmt.Errorf("SQLPAD_STORE_FILE is required for the file store")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store)
	}
	switch c.Locale {
	case "en", "pt":
	default:
		return fmt.Errorf("unsupported locale: %q", c.Locale)
	}
	if c.Auth.LatencyScale < 0 {
		return fmt.Errorf("SQLPAD_AUTH_LATENCY_SCALE must not be negative")
	}
	if r := c.Update.Repository; r != "" {
		owner, name, ok := strings.Cut(r, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("SQLPAD_UPDATE_REPOSITORY must be owner/name, got %q", r)
		}
	}
	if c.Update.Timeout < 0 {
		return fmt.Errorf("SQLPAD_UPDATE_TIMEOUT must not be negative")
	}
	return nil
}
