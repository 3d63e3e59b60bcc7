package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want sqlite", cfg.Store)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.Locale)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Auth.LatencyBase != 500*time.Millisecond {
		t.Errorf("LatencyBase = %v, want 500ms", cfg.Auth.LatencyBase)
	}
	if cfg.Auth.LatencyScale != 1 {
		t.Errorf("LatencyScale = %v, want 1", cfg.Auth.LatencyScale)
	}
	if cfg.Update.Repository != "abhisek/sqlpad" || cfg.Update.Timeout != 2*time.Minute {
		t.Errorf("Update = %+v", cfg.Update)
	}
}

func TestLoadUpdateFromEnv(t *testing.T) {
	t.Setenv("SQLPAD_UPDATE_REPOSITORY", "acme/sqlpad-fork")
	t.Setenv("SQLPAD_UPDATE_API_URL", "https://ghe.example.com/api/v3")
	t.Setenv("SQLPAD_UPDATE_DOWNLOAD_URL", "https://ghe.example.com")
	t.Setenv("SQLPAD_UPDATE_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := UpdateConfig{
		Repository:  "acme/sqlpad-fork",
		APIURL:      "https://ghe.example.com/api/v3",
		DownloadURL: "https://ghe.example.com",
		Timeout:     45 * time.Second,
	}
	if cfg.Update != want {
		t.Errorf("Update = %+v, want %+v", cfg.Update, want)
	}

	t.Setenv("SQLPAD_UPDATE_REPOSITORY", "no-owner")
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed repository")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SQLPAD_STORE", "redis")
	t.Setenv("SQLPAD_REDIS_ADDR", "cache:6380")
	t.Setenv("SQLPAD_REDIS_DB", "3")
	t.Setenv("SQLPAD_LOCALE", "pt")
	t.Setenv("SQLPAD_LOG_LEVEL", "debug")
	t.Setenv("SQLPAD_AUTH_LATENCY_SCALE", "0")
	t.Setenv("SQLPAD_SESSION_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreRedis || cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 3 {
		t.Errorf("redis config not applied: %+v", cfg.Redis)
	}
	if cfg.Locale != "pt" {
		t.Errorf("Locale = %q", cfg.Locale)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Auth.LatencyScale != 0 {
		t.Errorf("LatencyScale = %v", cfg.Auth.LatencyScale)
	}
	if cfg.Auth.SessionSecret != "s3cret" {
		t.Errorf("SessionSecret = %q", cfg.Auth.SessionSecret)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown store", func(c *Config) { c.Store = "mongo" }, true},
		{"file without path", func(c *Config) { c.Store = StoreFile }, true},
		{"file with path", func(c *Config) { c.Store = StoreFile; c.StoreFile = "/tmp/x.json" }, false},
		{"bad locale", func(c *Config) { c.Locale = "fr" }, true},
		{"negative latency", func(c *Config) { c.Auth.LatencyScale = -1 }, true},
		{"update repository", func(c *Config) { c.Update.Repository = "acme/sqlpad" }, false},
		{"update repository without owner", func(c *Config) { c.Update.Repository = "sqlpad" }, true},
		{"update repository too deep", func(c *Config) { c.Update.Repository = "a/b/c" }, true},
		{"negative update timeout", func(c *Config) { c.Update.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Store: StoreSQLite, Locale: "en"}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
