package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/hints"
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/llm"
	"github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/progress"
)

// cliProblemPrefix keys the problem a user is working on from the command
// line, so problem, hint and check can run as separate processes.
const cliProblemPrefix = "sqlpad_cliProblem_"

var errNoProblem = errors.New(`no current problem: run "sqlpad problem" first`)

// gateways are the AI collaborators of a headless session. Both are nil
// when no provider is configured.
type gateways struct {
	problems problemgen.Generator
	hints    hints.Generator
}

// gateways resolves the configured LLM provider. A missing configuration
// is not an error here; the machine reports it when an AI operation runs.
func (e *environment) gateways(ctx context.Context) (gateways, error) {
	provider, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo(), e.logger)
	switch {
	case err == nil:
		return gateways{
			problems: problemgen.New(provider, problemgen.DefaultConfig(), e.logger),
			hints:    hints.NewService(provider, hints.DefaultConfig(), e.logger),
		}, nil
	case errors.Is(err, llm.ErrNotConfigured):
		e.logger.Warn("LLM provider not configured", "error", err)
		return gateways{}, nil
	default:
		return gateways{}, fmt.Errorf("configure LLM provider: %w", err)
	}
}

// practiceSession runs the practice machine for the signed-in user outside
// the TUI. Quota, points and hint pricing apply exactly as in the app.
type practiceSession struct {
	env     *environment
	user    *auth.User
	machine *practice.Machine
	locale  i18n.Locale
}

func openSession(ctx context.Context, env *environment, gw gateways, locale i18n.Locale) (*practiceSession, error) {
	accounts := env.authManager()
	u := accounts.RestoreSession(ctx)
	if u == nil {
		return nil, errNotSignedIn
	}

	m := practice.New(practice.Deps{
		Identity: accounts,
		Progress: progress.NewStore(env.kv, env.logger),
		Problems: gw.problems,
		Hints:    gw.hints,
		Events:   env.store.EventRepo(),
		Logger:   env.logger,
	}, locale)
	m.SyncUser(ctx)
	if fb := m.Snapshot().Feedback; fb != nil && fb.Kind == practice.FeedbackError {
		return nil, feedbackError(fb, locale)
	}

	return &practiceSession{env: env, user: u, machine: m, locale: locale}, nil
}

type savedProblem struct {
	ID      string              `json:"id"`
	Problem *problemgen.Problem `json:"problem"`
	Solved  bool                `json:"solved"`
	Hint    string              `json:"hint,omitempty"`
}

func (s *practiceSession) key() string {
	return cliProblemPrefix + s.user.ID
}

// resume loads the saved problem into the machine. It returns errNoProblem
// when there is none.
func (s *practiceSession) resume(ctx context.Context) error {
	raw, ok, err := s.env.kv.Get(ctx, s.key())
	if err != nil {
		return fmt.Errorf("load current problem: %w", err)
	}
	if !ok {
		return errNoProblem
	}
	var sp savedProblem
	if err := json.Unmarshal([]byte(raw), &sp); err != nil || sp.Problem == nil {
		s.env.logger.Warn("discarding unreadable saved problem", "user_id", s.user.ID, "error", err)
		_ = s.env.kv.Delete(ctx, s.key())
		return errNoProblem
	}
	sp.Problem.ID = sp.ID
	s.machine.ResumeProblem(sp.Problem, sp.Solved, sp.Hint)
	return nil
}

// save stores the machine's current problem, if any.
func (s *practiceSession) save(ctx context.Context) error {
	snap := s.machine.Snapshot()
	if snap.Problem == nil {
		return nil
	}
	b, err := json.Marshal(savedProblem{
		ID:      snap.Problem.ID,
		Problem: snap.Problem,
		Solved:  snap.Solved,
		Hint:    snap.Hint,
	})
	if err != nil {
		return fmt.Errorf("encode current problem: %w", err)
	}
	if err := s.env.kv.Put(ctx, s.key(), string(b)); err != nil {
		return fmt.Errorf("save current problem: %w", err)
	}
	return nil
}

// balance is a one-line summary of points and today's attempts.
func (s *practiceSession) balance() string {
	snap := s.machine.Snapshot()
	return fmt.Sprintf("%d pts · %d/%d problems today",
		snap.Progress.Points, snap.AttemptsToday(s.machine.Today()), practice.MaxDailyProblems)
}

func feedbackError(fb *practice.Feedback, l i18n.Locale) error {
	msg := fb.Message(l)
	if t := fb.Title(l); t != "" {
		msg = t + ": " + msg
	}
	return errors.New(msg)
}
