package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/config"
	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/spf13/cobra"
)

// environment bundles everything a command needs: configuration, logger,
// the SQLite store (always open, it holds the event logs) and the KV
// backend selected by SQLPAD_STORE.
type environment struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	kv     store.KV

	closers []io.Closer
}

// openEnvironment loads configuration and opens the backends. Callers must
// Close the result.
func openEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	logger, logCloser, err := openLogger(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	env := &environment{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	env.store = st
	env.closers = append(env.closers, st)

	kv, err := openKV(cmd.Context(), cfg, st)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.kv = kv
	if c, ok := kv.(io.Closer); ok {
		env.closers = append(env.closers, c)
	}

	logger.Debug("environment ready", "db", dbPath, "store", cfg.Store)
	return env, nil
}

func openLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, io.Closer, error) {
	file := cfg.Log.File
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		file = "-"
		cfg.Log.Level = "debug"
	}
	return logging.Open(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: file})
}

func openKV(ctx context.Context, cfg config.Config, st *store.Store) (store.KV, error) {
	switch cfg.Store {
	case config.StoreRedis:
		kv, err := store.NewRedisKV(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return kv, nil
	case config.StoreFile:
		kv, err := store.OpenFileKV(cfg.StoreFile)
		if err != nil {
			return nil, fmt.Errorf("open store file: %w", err)
		}
		return kv, nil
	case config.StoreMemory:
		return store.NewMemoryKV(), nil
	default:
		return st.KV(), nil
	}
}

// authManager builds the session manager over the selected KV backend.
func (e *environment) authManager() *auth.Manager {
	latency := auth.DefaultLatency(e.cfg.Auth.LatencyBase).Scale(e.cfg.Auth.LatencyScale)
	return auth.NewManager(
		auth.NewKVDirectory(e.kv, e.logger),
		auth.NewKVTokenStore(e.kv),
		auth.Options{
			Secret:  []byte(e.cfg.Auth.SessionSecret),
			Latency: latency,
			Logger:  e.logger,
		},
	)
}

// restoreUser resolves the signed-in user or fails with a hint to log in.
func (e *environment) restoreUser(ctx context.Context) (*auth.User, error) {
	u := e.authManager().RestoreSession(ctx)
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

var errNotSignedIn = errors.New("no active session: sign in from the app first")

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.logger != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
}
