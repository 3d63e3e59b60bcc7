// Package practice is the session state machine: it gates problem
// generation on sign-in and the daily quota, sells hints against the points
// balance, checks submitted queries and keeps the progress ledger saved.
package practice

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/hints"
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/progress"
	"github.com/abhisek/sqlpad/internal/store"
)

// Identity reports the signed-in user.
type Identity interface {
	CurrentUser() *auth.User
}

// ProgressStore loads and saves progress records.
type ProgressStore interface {
	Fetch(ctx context.Context, userID string) (*progress.Record, error)
	Save(ctx context.Context, userID string, rec progress.Record) error
}

// EventRecorder appends to the activity log.
type EventRecorder interface {
	AppendPracticeEvent(ctx context.Context, data store.PracticeEventData) error
}

// LocaleStore persists the language preference.
type LocaleStore interface {
	Save(ctx context.Context, l i18n.Locale) error
}

// Deps are the collaborators of a Machine. Problems and Hints are nil when
// no AI provider is configured. Events, Locales, Now and Logger are
// optional.
type Deps struct {
	Identity Identity
	Progress ProgressStore
	Problems problemgen.Generator
	Hints    hints.Generator
	Events   EventRecorder
	Locales  LocaleStore
	Now      func() time.Time
	Logger   *slog.Logger
}

// Machine owns the practice session state. Operations are expected to be
// issued one at a time; the mutex keeps memory access safe but is released
// while gateways run, so overlapping calls resolve last-writer-wins.
type Machine struct {
	deps   Deps
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a Machine at Easy difficulty in locale l.
func New(deps Deps, l i18n.Locale) *Machine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &Machine{deps: deps, logger: logging.OrDiscard(deps.Logger)}
	m.state = State{
		Progress:   progress.Default(m.today()),
		Difficulty: problemgen.Easy,
		Locale:     l,
		Route:      RouteMain,
		AIReady:    deps.Problems != nil && deps.Hints != nil,
	}
	return m
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	if s.Feedback != nil {
		fb := *s.Feedback
		s.Feedback = &fb
	}
	return s
}

// Today is the current attempts date.
func (m *Machine) Today() string {
	return m.today()
}

func (m *Machine) today() string {
	return progress.Today(m.deps.Now())
}

// SyncUser reconciles progress with the signed-in identity. It must be
// called after every sign-in, sign-out or session restore.
func (m *Machine) SyncUser(ctx context.Context) {
	user := m.deps.Identity.CurrentUser()

	m.mu.Lock()
	if user == nil {
		if m.state.LoadedFor != "" {
			m.resetProblemLocked()
		}
		m.state.Progress = progress.Default(m.today())
		m.state.LoadedFor = ""
		m.state.Loading = false
		m.mu.Unlock()
		return
	}
	if m.state.LoadedFor == user.ID {
		m.mu.Unlock()
		return
	}
	if m.state.LoadedFor != "" {
		m.resetProblemLocked()
	}
	m.state.Loading = true
	m.mu.Unlock()

	rec, err := m.deps.Progress.Fetch(ctx, user.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	m.state.LoadedFor = user.ID
	m.state.Route = RouteMain
	switch {
	case err != nil:
		m.logger.Error("load progress", "user_id", user.ID, "error", err)
		m.state.Progress = progress.Default(m.today())
		m.state.Feedback = &Feedback{Kind: FeedbackError, Key: "progress.load_error"}
	case rec == nil:
		m.state.Progress = progress.Default(m.today())
	default:
		m.state.Progress = progress.RolloverIfStale(*rec, m.today())
	}
}

// RequestNewProblem generates a problem at the selected difficulty once the
// AI, sign-in and quota checks pass, in that order.
func (m *Machine) RequestNewProblem(ctx context.Context) {
	m.mu.Lock()
	if !m.state.AIReady {
		m.state.Feedback = configErrorFeedback()
		m.mu.Unlock()
		return
	}
	user := m.deps.Identity.CurrentUser()
	if user == nil {
		m.state.Feedback = authRequiredFeedback()
		m.state.Route = RouteLogin
		m.mu.Unlock()
		return
	}

	today := m.today()
	rolled := progress.RolloverIfStale(m.state.Progress, today)
	changed := rolled != m.state.Progress
	m.state.Progress = rolled
	if rolled.DailyAttempts.Count >= MaxDailyProblems {
		m.state.Feedback = &Feedback{Kind: FeedbackInfo, Key: "quota.reached", Args: []any{MaxDailyProblems}}
		m.mu.Unlock()
		if changed {
			m.persist(ctx, user.ID, rolled)
		}
		return
	}

	m.resetProblemLocked()
	m.state.Feedback = nil
	m.state.Pending = OpProblem
	difficulty, locale := m.state.Difficulty, m.state.Locale
	m.mu.Unlock()

	p, err := m.deps.Problems.Generate(ctx, difficulty, locale)

	m.mu.Lock()
	m.state.Pending = OpNone
	if err != nil {
		m.logger.Warn("problem generation failed", "difficulty", difficulty, "error", err)
		if errors.Is(err, problemgen.ErrUpstreamUnavailable) {
			m.state.Feedback = configErrorFeedback()
		} else {
			m.state.Feedback = &Feedback{Kind: FeedbackError, TitleKey: "error.prefix", Key: "feedback.api_error", Args: []any{err.Error()}}
		}
		m.mu.Unlock()
		m.record(ctx, store.PracticeEventData{
			UserID: user.ID, Kind: store.KindProblemGenerated,
			Difficulty: string(difficulty), Outcome: "error", Detail: err.Error(),
		})
		return
	}

	m.state.Problem = p
	m.state.Progress.RecordAttempt(m.today())
	rec := m.state.Progress
	m.mu.Unlock()

	m.persist(ctx, user.ID, rec)
	m.record(ctx, store.PracticeEventData{
		UserID: user.ID, Kind: store.KindProblemGenerated, ProblemID: p.ID,
		Difficulty: string(p.Difficulty), Outcome: "ok", Detail: p.TableName,
	})
}

// SubmitSolution checks text against the current problem and rewards a
// match. A problem is rewarded at most once.
func (m *Machine) SubmitSolution(ctx context.Context, text string) {
	user := m.deps.Identity.CurrentUser()

	m.mu.Lock()
	p := m.state.Problem
	if p == nil || user == nil || m.state.Solved {
		m.mu.Unlock()
		return
	}

	if !problemgen.CheckSolution(text, p) {
		m.state.Feedback = &Feedback{Kind: FeedbackError, Key: "feedback.incorrect"}
		m.mu.Unlock()
		m.record(ctx, store.PracticeEventData{
			UserID: user.ID, Kind: store.KindSolutionSubmitted, ProblemID: p.ID,
			Difficulty: string(p.Difficulty), Outcome: "incorrect",
		})
		return
	}

	points := PointsFor(p.Difficulty)
	m.state.Progress.Award(points)
	m.state.Solved = true
	m.state.Feedback = &Feedback{
		Kind:     FeedbackSuccess,
		TitleKey: "feedback.correct.title",
		Key:      "feedback.correct.message",
		Args:     []any{points},
	}
	rec := m.state.Progress
	m.mu.Unlock()

	m.persist(ctx, user.ID, rec)
	m.record(ctx, store.PracticeEventData{
		UserID: user.ID, Kind: store.KindSolutionSubmitted, ProblemID: p.ID,
		Difficulty: string(p.Difficulty), PointsDelta: points, Outcome: "correct",
	})
}

// RequestHint buys a hint for the current problem. The cost is debited
// before the gateway call and refunded if the call fails.
func (m *Machine) RequestHint(ctx context.Context) {
	user := m.deps.Identity.CurrentUser()

	m.mu.Lock()
	eligible := m.state.Problem != nil &&
		m.state.AIReady &&
		m.state.Hint == "" &&
		user != nil &&
		m.state.CanAffordHint()
	if !eligible {
		switch {
		case user == nil:
			m.state.Feedback = authRequiredFeedback()
			m.state.Route = RouteLogin
		case !m.state.CanAffordHint():
			m.state.HintError = "hint.insufficient_points"
		}
		m.mu.Unlock()
		return
	}

	res, err := m.state.Progress.Reserve(HintCost)
	if err != nil {
		m.state.HintError = "hint.insufficient_points"
		m.mu.Unlock()
		return
	}
	m.state.HintError = ""
	m.state.Pending = OpHint
	p := m.state.Problem
	locale := m.state.Locale
	debited := m.state.Progress
	m.mu.Unlock()

	m.persist(ctx, user.ID, debited)

	hint, err := m.deps.Hints.GenerateHint(ctx, hints.ContextFor(p), locale)

	m.mu.Lock()
	m.state.Pending = OpNone
	if err != nil {
		if m.state.LoadedFor != user.ID {
			// Signed out or switched users mid-call; the debit was already
			// persisted for the old user and the refund is dropped.
			m.mu.Unlock()
			m.logger.Warn("hint refund dropped after user change", "user_id", user.ID, "error", err)
			return
		}
		res.Release()
		if errors.Is(err, hints.ErrUpstreamUnavailable) {
			m.state.Feedback = configErrorFeedback()
		} else {
			m.state.HintError = "hint.error"
		}
		rec := m.state.Progress
		m.mu.Unlock()

		m.logger.Warn("hint generation failed, points refunded", "problem_id", p.ID, "error", err)
		m.persist(ctx, user.ID, rec)
		m.record(ctx, store.PracticeEventData{
			UserID: user.ID, Kind: store.KindHintRefunded, ProblemID: p.ID,
			Difficulty: string(p.Difficulty), Outcome: "error", Detail: err.Error(),
		})
		return
	}

	res.Commit()
	if m.state.Problem == p {
		m.state.Hint = hint
		m.state.HintRevealed = true
	}
	m.mu.Unlock()

	m.record(ctx, store.PracticeEventData{
		UserID: user.ID, Kind: store.KindHintPurchased, ProblemID: p.ID,
		Difficulty: string(p.Difficulty), PointsDelta: -res.Amount(), Outcome: "ok",
	})
}

// ToggleHintVisibility reveals an existing hidden hint.
func (m *Machine) ToggleHintVisibility() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Hint != "" && !m.state.HintRevealed {
		m.state.HintRevealed = true
	}
}

// SetDifficulty selects the level for the next problem and discards hint
// state.
func (m *Machine) SetDifficulty(d problemgen.Difficulty) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Difficulty = d
	m.state.Hint = ""
	m.state.HintRevealed = false
	m.state.HintError = ""
}

// SetLocale switches the display and generation language and persists the
// choice when a LocaleStore is configured.
func (m *Machine) SetLocale(ctx context.Context, l i18n.Locale) {
	m.mu.Lock()
	m.state.Locale = l
	m.mu.Unlock()

	if m.deps.Locales != nil {
		if err := m.deps.Locales.Save(ctx, l); err != nil {
			m.logger.Warn("save locale preference", "locale", l, "error", err)
		}
	}
}

// DismissFeedback clears the current feedback message.
func (m *Machine) DismissFeedback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Feedback = nil
}

// ClearRoute acknowledges a route request once the UI has acted on it.
func (m *Machine) ClearRoute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Route = RouteMain
}

// ResumeProblem restores a problem generated in an earlier run for the
// loaded user, along with whether it was solved and any purchased hint.
// It does nothing when no user is loaded.
func (m *Machine) ResumeProblem(p *problemgen.Problem, solved bool, hint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.LoadedFor == "" || p == nil {
		return
	}
	m.resetProblemLocked()
	m.state.Problem = p
	m.state.Difficulty = p.Difficulty
	m.state.Solved = solved
	m.state.Hint = hint
	m.state.HintRevealed = hint != ""
}

func (m *Machine) resetProblemLocked() {
	m.state.Problem = nil
	m.state.Hint = ""
	m.state.HintRevealed = false
	m.state.HintError = ""
	m.state.Solved = false
}

// persist saves rec when it was loaded for userID. Failures keep the
// in-memory state and surface a warning.
func (m *Machine) persist(ctx context.Context, userID string, rec progress.Record) {
	m.mu.Lock()
	loaded := m.state.LoadedFor == userID
	m.mu.Unlock()
	if !loaded {
		return
	}

	if err := m.deps.Progress.Save(ctx, userID, rec); err != nil {
		m.logger.Error("save progress", "user_id", userID, "error", err)
		m.mu.Lock()
		m.state.Feedback = &Feedback{Kind: FeedbackWarning, Key: "progress.save_error"}
		m.mu.Unlock()
	}
}

func (m *Machine) record(ctx context.Context, data store.PracticeEventData) {
	if m.deps.Events == nil {
		return
	}
	if err := m.deps.Events.AppendPracticeEvent(ctx, data); err != nil {
		m.logger.Warn("record practice event", "kind", data.Kind, "error", err)
	}
}

func configErrorFeedback() *Feedback {
	return &Feedback{Kind: FeedbackError, TitleKey: "config.error.title", Key: "config.error.message"}
}

func authRequiredFeedback() *Feedback {
	return &Feedback{Kind: FeedbackInfo, TitleKey: "auth.required.title", Key: "auth.required"}
}
