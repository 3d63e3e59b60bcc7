package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/sqlpad/internal/llm"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/spf13/cobra"
)

const timestampLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the AI calls made for problems and hints",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")

		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		events, err := env.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeLLMEvents(cmd.OutOrStdout(), filterLLMEvents(events, purpose, failed))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		e, err := env.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		repo := env.store.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		writeLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

// filterLLMEvents keeps events for purpose (any when empty), and only
// failures when failedOnly is set.
func filterLLMEvents(events []store.LLMRequestEvent, purpose string, failedOnly bool) []store.LLMRequestEvent {
	var out []store.LLMRequestEvent
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if failedOnly && e.Success {
			continue
		}
		out = append(out, e)
	}
	return out
}

func writeLLMEvents(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}
	rows := make([]map[string]any, len(events))
	for i, e := range events {
		status := "✓"
		if !e.Success {
			status = "✗ " + truncate(e.ErrorMessage, 40)
		}
		rows[i] = map[string]any{
			"id":      e.ID,
			"time":    e.Timestamp.Local().Format(timestampLayout),
			"purpose": e.Purpose,
			"model":   truncate(e.Model, 28),
			"tokens":  fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			"ms":      e.LatencyMs,
			"status":  status,
		}
	}
	fmt.Fprintln(w, components.DataTable([]string{"id", "time", "purpose", "model", "tokens", "ms", "status"}, rows))
}

func writeLLMEvent(w io.Writer, e *store.LLMRequestEvent) {
	fmt.Fprintf(w, "#%d  %s  %s\n", e.ID, e.Timestamp.Local().Format(timestampLayout), e.Purpose)
	fmt.Fprintf(w, "model    %s (%s)\n", e.Model, e.Provider)
	fmt.Fprintf(w, "tokens   %d in, %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "latency  %dms\n", e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(w, "error    %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"request", e.RequestBody},
		{"response", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n── %s %s\n", part.title, strings.Repeat("─", 50-len(part.title)))
		fmt.Fprintln(w, prettyBody(part.body))
	}
}

// prettyBody indents JSON bodies and passes other text through.
func prettyBody(body string) string {
	if body == "" {
		return "(not captured)"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

func writeLLMUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	var calls, in, out int
	rows := make([]map[string]any, 0, len(byPurpose)+1)
	for _, u := range byPurpose {
		rows = append(rows, map[string]any{
			"purpose": u.Purpose, "calls": u.Calls, "input": u.InputTokens,
			"output": u.OutputTokens, "avg ms": u.AvgLatencyMs,
		})
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rows = append(rows, map[string]any{"purpose": "total", "calls": calls, "input": in, "output": out})
	fmt.Fprintln(w, "Usage by purpose")
	fmt.Fprintln(w, components.DataTable([]string{"purpose", "calls", "input", "output", "avg ms"}, rows))

	if len(byModel) == 0 {
		return
	}

	var total float64
	var unpriced []string
	rows = make([]map[string]any, 0, len(byModel)+1)
	for _, u := range byModel {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		rows = append(rows, map[string]any{
			"model": truncate(u.Model, 32), "calls": u.Calls,
			"input": u.InputTokens, "output": u.OutputTokens, "cost": cost,
		})
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	rows = append(rows, map[string]any{"model": label, "cost": formatCost(total)})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, components.DataTable([]string{"model", "calls", "input", "output", "cost"}, rows))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "No pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to read")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show this purpose (problem-gen or hint)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
