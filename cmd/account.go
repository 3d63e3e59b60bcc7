package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/progress"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect local accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		accounts, err := auth.NewKVDirectory(env.kv, env.logger).List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		if len(accounts) == 0 {
			fmt.Println("No accounts registered.")
			return nil
		}

		current := env.authManager().RestoreSession(cmd.Context())

		fmt.Printf("%-2s  %-28s  %-32s  %s\n", "", "ID", "Email", "Name")
		fmt.Println(strings.Repeat("─", 80))
		for _, a := range accounts {
			mark := ""
			if current != nil && current.ID == a.ID {
				mark = "*"
			}
			fmt.Printf("%-2s  %-28s  %-32s  %s\n", mark, truncate(a.ID, 28), truncate(a.Email, 32), a.Name)
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show points and today's attempts for the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.restoreUser(cmd.Context())
		if err != nil {
			return err
		}

		rec, err := progress.NewStore(env.kv, env.logger).Fetch(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		today := progress.Today(time.Now())
		r := progress.Default(today)
		if rec != nil {
			r = progress.RolloverIfStale(*rec, today)
		}

		fmt.Printf("User:      %s <%s>\n", u.Name, u.Email)
		fmt.Printf("Points:    %d\n", r.Points)
		fmt.Printf("Attempts:  %d/%d today (%s)\n", r.DailyAttempts.Count, practice.MaxDailyProblems, today)
		fmt.Printf("Remaining: %d\n", r.AttemptsLeft(today, practice.MaxDailyProblems))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice activity for the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.restoreUser(cmd.Context())
		if err != nil {
			return err
		}

		events, err := env.store.EventRepo().QueryPracticeEvents(cmd.Context(), u.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No practice activity yet.")
			return nil
		}

		fmt.Printf("%-19s  %-20s  %-9s  %-10s  %6s\n", "Timestamp", "Kind", "Level", "Outcome", "Points")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range events {
			if kind != "" && e.Kind != kind {
				continue
			}
			fmt.Printf("%-19s  %-20s  %-9s  %-10s  %+6d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				e.Difficulty,
				e.Outcome,
				e.PointsDelta,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	historyCmd.Flags().StringP("kind", "k", "", "Filter by kind (problem_generated, solution_submitted, hint_purchased, hint_refunded)")

	userCmd.AddCommand(userListCmd)
}
