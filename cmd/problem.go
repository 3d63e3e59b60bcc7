package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/spf13/cobra"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Generate a new problem for the signed-in user",
	Long: `Generate a problem at the requested difficulty and print it.

Requires an active session. Each problem counts against the daily limit,
exactly as in the app. The problem stays current for "sqlpad hint" and
"sqlpad check" until the next one is generated.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		diff, _ := cmd.Flags().GetString("difficulty")
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := problemgen.ParseDifficulty(diff)
		if err != nil {
			return err
		}

		return withSession(cmd, true, func(ctx context.Context, s *practiceSession) error {
			return runProblem(ctx, cmd.OutOrStdout(), s, d, asJSON)
		})
	},
}

var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: fmt.Sprintf("Buy a hint for the current problem (%d pts)", practice.HintCost),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, true, func(ctx context.Context, s *practiceSession) error {
			return runHint(ctx, cmd.OutOrStdout(), s)
		})
	},
}

var errWrongSolution = errors.New("solution does not match")

var checkCmd = &cobra.Command{
	Use:   "check [query]",
	Short: "Submit a query for the current problem",
	Long: `Submit a query for the current problem and collect the points.

The query is read from the argument, or from stdin when omitted.
Comparison ignores case, surrounding whitespace, one trailing semicolon
and spacing around commas. Exits non-zero when the query does not match.

With --file, the query is compared against a problem JSON document
instead. No session is needed and no points are awarded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := readQuery(cmd, args)
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("file"); path != "" {
			p, err := readProblem(path)
			if err != nil {
				return err
			}
			return reportMatch(cmd.OutOrStdout(), problemgen.CheckSolution(query, p))
		}

		return withSession(cmd, false, func(ctx context.Context, s *practiceSession) error {
			return runCheck(ctx, cmd.OutOrStdout(), s, query)
		})
	},
}

// withSession opens the environment and a practice session for the
// signed-in user. AI gateways are resolved only when withAI is set.
func withSession(cmd *cobra.Command, withAI bool, fn func(context.Context, *practiceSession) error) error {
	ctx := cmd.Context()
	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var gw gateways
	if withAI {
		if gw, err = env.gateways(ctx); err != nil {
			return err
		}
	}

	s, err := openSession(ctx, env, gw, sessionLocale(cmd, env))
	if err != nil {
		return err
	}
	return fn(ctx, s)
}

// sessionLocale is --lang when given, then the saved preference.
func sessionLocale(cmd *cobra.Command, env *environment) i18n.Locale {
	fallback, ok := i18n.Parse(env.cfg.Locale)
	if !ok {
		fallback = i18n.DefaultLocale
	}
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		if l, ok := i18n.Parse(lang); ok {
			return l
		}
		env.logger.Warn("ignoring unsupported language", "lang", lang)
	}
	l, err := i18n.NewPreferenceStore(env.kv).Load(cmd.Context(), fallback)
	if err != nil {
		env.logger.Warn("load language preference", "error", err)
	}
	return l
}

func runProblem(ctx context.Context, w io.Writer, s *practiceSession, d problemgen.Difficulty, asJSON bool) error {
	s.machine.SetDifficulty(d)
	s.machine.RequestNewProblem(ctx)

	snap := s.machine.Snapshot()
	if snap.Problem == nil {
		if snap.Feedback != nil {
			return feedbackError(snap.Feedback, s.locale)
		}
		return errors.New("problem generation did not complete")
	}
	if err := s.save(ctx); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(publicProblem{ID: snap.Problem.ID, Problem: snap.Problem})
	}
	printProblem(w, snap.Problem, s.locale)
	fmt.Fprintln(w, s.balance())
	return nil
}

func runHint(ctx context.Context, w io.Writer, s *practiceSession) error {
	if err := s.resume(ctx); err != nil {
		return err
	}
	if snap := s.machine.Snapshot(); snap.Hint != "" {
		fmt.Fprintln(w, snap.Hint)
		return nil
	}

	s.machine.RequestHint(ctx)

	snap := s.machine.Snapshot()
	if snap.Hint == "" {
		switch {
		case snap.HintError != "":
			return errors.New(i18n.T(s.locale, snap.HintError))
		case snap.Feedback != nil:
			return feedbackError(snap.Feedback, s.locale)
		}
		return errors.New("hint generation did not complete")
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", i18n.T(s.locale, "hint.title"), snap.Hint)
	fmt.Fprintln(w, s.balance())
	return nil
}

func runCheck(ctx context.Context, w io.Writer, s *practiceSession, query string) error {
	if err := s.resume(ctx); err != nil {
		return err
	}
	if s.machine.Snapshot().Solved {
		fmt.Fprintln(w, `Already solved. Run "sqlpad problem" for a new one.`)
		return nil
	}

	s.machine.SubmitSolution(ctx, query)

	snap := s.machine.Snapshot()
	if !snap.Solved {
		if snap.Feedback != nil {
			fmt.Fprintln(w, snap.Feedback.Message(s.locale))
		}
		return reportMatch(w, false)
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	if snap.Feedback != nil {
		fmt.Fprintf(w, "%s %s\n", snap.Feedback.Title(s.locale), snap.Feedback.Message(s.locale))
	}
	fmt.Fprintln(w, s.balance())
	return nil
}

func reportMatch(w io.Writer, ok bool) error {
	if ok {
		fmt.Fprintln(w, "✓ correct")
		return nil
	}
	fmt.Fprintln(w, "✗ incorrect")
	return errWrongSolution
}

func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	return string(b), nil
}

// publicProblem is the JSON form printed to learners. The expected
// solution is shadowed so it never leaves the session.
type publicProblem struct {
	ID string `json:"id"`
	*problemgen.Problem
	ExpectedSolution string `json:"expectedSolution,omitempty"`
}

func readProblem(path string) (*problemgen.Problem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	var p problemgen.Problem
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse problem: %w", err)
	}
	if verr := (&problemgen.StructuralValidator{}).Validate(&p, p.Difficulty); verr != nil {
		return nil, fmt.Errorf("invalid problem file: %w", verr)
	}
	return &p, nil
}

func printProblem(w io.Writer, p *problemgen.Problem, l i18n.Locale) {
	fmt.Fprintf(w, "%s · %s\n\n", p.TableName, p.Difficulty)
	fmt.Fprintln(w, p.Statement)
	fmt.Fprintln(w)

	schemaRows := make([]map[string]any, len(p.Schema))
	for i, c := range p.Schema {
		schemaRows[i] = map[string]any{"column": c.ColumnName, "type": c.DataType, "description": c.Description}
	}
	fmt.Fprintln(w, i18n.T(l, "problem.schema"))
	fmt.Fprintln(w, components.DataTable([]string{"column", "type", "description"}, schemaRows))

	if len(p.SampleRows) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, i18n.T(l, "problem.sample"))
		fmt.Fprintln(w, components.DataTable(p.ColumnNames(), p.SampleRows))
	}
	fmt.Fprintln(w, strings.Repeat("─", 40))
}

func init() {
	problemCmd.Flags().StringP("difficulty", "d", "Easy", "Difficulty: Easy, Medium or Advanced")
	problemCmd.Flags().StringP("lang", "l", "", "Problem language: en or pt (default: saved preference)")
	problemCmd.Flags().Bool("json", false, "Print the problem as JSON")

	hintCmd.Flags().StringP("lang", "l", "", "Hint language: en or pt (default: saved preference)")

	checkCmd.Flags().StringP("file", "f", "", "Compare against a problem JSON file instead of the current problem")
}
