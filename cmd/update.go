package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/sqlpad/internal/config"
	"github.com/abhisek/sqlpad/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update sqlpad to the latest release",
	Long: `Download the release build for this platform, verify it against the
release checksums and replace the running binary.

Releases come from SQLPAD_UPDATE_REPOSITORY (default abhisek/sqlpad).
SQLPAD_UPDATE_API_URL and SQLPAD_UPDATE_DOWNLOAD_URL point at a GitHub
Enterprise host or a mirror. SQLPAD_UPDATE_TIMEOUT bounds the update.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("version")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, logCloser, err := openLogger(cmd, cfg)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer logCloser.Close()

		checker, err := newUpdateChecker(cfg.Update, logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if cfg.Update.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Update.Timeout)
			defer cancel()
		}

		if checkOnly {
			return runUpdateCheck(ctx, cmd.OutOrStdout(), checker, version)
		}
		return runUpdate(ctx, cmd.OutOrStdout(), checker, selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		})
	},
}

// newUpdateChecker builds a release checker from SQLPAD_UPDATE_* settings.
func newUpdateChecker(cfg config.UpdateConfig, logger *slog.Logger) (*selfupdate.Checker, error) {
	opts := []selfupdate.Option{
		selfupdate.WithBaseURL(cfg.APIURL),
		selfupdate.WithDownloadBaseURL(cfg.DownloadURL),
		selfupdate.WithTimeout(cfg.Timeout),
		selfupdate.WithLogger(logger),
	}
	if cfg.Repository != "" {
		owner, repo, err := selfupdate.ParseRepository(cfg.Repository)
		if err != nil {
			return nil, err
		}
		opts = append(opts, selfupdate.WithRepository(owner, repo))
	}
	return selfupdate.NewChecker(opts...), nil
}

func runUpdateCheck(ctx context.Context, w io.Writer, checker *selfupdate.Checker, current string) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: current})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		fmt.Fprintf(w, "sqlpad %s is up to date (latest %s)\n", current, res.LatestVersion)
		return nil
	}
	fmt.Fprintf(w, "sqlpad %s is available (running %s)\n%s\n", res.LatestVersion, current, res.ReleaseURL)
	return nil
}

func runUpdate(ctx context.Context, w io.Writer, checker *selfupdate.Checker, in selfupdate.UpdateInput) error {
	res, err := checker.Update(ctx, in, func(p selfupdate.UpdateProgress) {
		fmt.Fprintln(w, p.Message)
	})
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s → %s (%s)\n", res.From, res.To, res.Path)
		return nil
	case errors.Is(err, selfupdate.ErrDevBuild):
		fmt.Fprintln(w, "Cannot update a development build. Install a release build first.")
		return nil
	case errors.Is(err, selfupdate.ErrAlreadyLatest):
		fmt.Fprintln(w, "Already running the latest version.")
		return nil
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w\n\nTry running: sudo sqlpad update", err)
	}
	return err
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}
