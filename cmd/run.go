package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/sqlpad/internal/app"
	"github.com/abhisek/sqlpad/internal/hints"
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/llm"
	"github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/progress"
	"github.com/spf13/cobra"
)

// runApp opens the backends, restores the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	accounts := env.authManager()
	if u := accounts.RestoreSession(ctx); u != nil {
		env.logger.Info("session restored", "user_id", u.ID)
	}

	prefs := i18n.NewPreferenceStore(env.kv)
	fallback, ok := i18n.Parse(env.cfg.Locale)
	if !ok {
		fallback = i18n.DefaultLocale
	}
	locale, err := prefs.Load(ctx, fallback)
	if err != nil {
		env.logger.Warn("load language preference", "error", err)
	}

	deps := practice.Deps{
		Identity: accounts,
		Progress: progress.NewStore(env.kv, env.logger),
		Events:   env.store.EventRepo(),
		Locales:  prefs,
		Logger:   env.logger,
	}

	provider, err := llm.NewProviderFromEnv(ctx, env.store.EventRepo(), env.logger)
	switch {
	case err == nil:
		deps.Problems = problemgen.New(provider, problemgen.DefaultConfig(), env.logger)
		deps.Hints = hints.NewService(provider, hints.DefaultConfig(), env.logger)
	case errors.Is(err, llm.ErrNotConfigured):
		env.logger.Warn("LLM provider not configured", "error", err)
		fmt.Fprintln(os.Stderr, "No AI provider configured; problem generation and hints are disabled.")
	default:
		return fmt.Errorf("configure LLM provider: %w", err)
	}

	machine := practice.New(deps, locale)
	machine.SyncUser(ctx)

	skip, _ := cmd.Flags().GetBool("skip-welcome")
	return app.Run(app.Options{
		Machine:     machine,
		Accounts:    accounts,
		Events:      env.store.EventRepo(),
		SkipWelcome: skip,
	})
}
