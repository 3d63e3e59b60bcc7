package practice

import (
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/progress"
)

// Limits of the points and quota ledger.
const (
	MaxDailyProblems = 10
	HintCost         = 5
)

var pointsMap = map[problemgen.Difficulty]int{
	problemgen.Easy:     10,
	problemgen.Medium:   20,
	problemgen.Advanced: 30,
}

// PointsFor is the reward for solving a problem of difficulty d.
func PointsFor(d problemgen.Difficulty) int {
	return pointsMap[d]
}

// Route tells the UI where the user should be.
type Route string

const (
	RouteMain  Route = "main"
	RouteLogin Route = "login"
)

// Op names the operation currently waiting on a gateway or store.
type Op string

const (
	OpNone    Op = ""
	OpProblem Op = "problem"
	OpHint    Op = "hint"
)

// FeedbackKind classifies a feedback message.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackWarning FeedbackKind = "warning"
	FeedbackInfo    FeedbackKind = "info"
)

// Feedback is a message for the user, kept as catalog keys so it follows
// locale changes.
type Feedback struct {
	Kind     FeedbackKind
	TitleKey string
	Key      string
	Args     []any
}

// Title renders the title in l, or "" when there is none.
func (f Feedback) Title(l i18n.Locale) string {
	if f.TitleKey == "" {
		return ""
	}
	return i18n.T(l, f.TitleKey)
}

// Message renders the body in l.
func (f Feedback) Message(l i18n.Locale) string {
	return i18n.T(l, f.Key, f.Args...)
}

// State is a point-in-time copy of the machine. Problem is shared and must
// be treated as read-only.
type State struct {
	Progress progress.Record
	Problem  *problemgen.Problem

	Hint         string
	HintRevealed bool
	HintError    string // catalog key, empty when none

	Feedback *Feedback

	Difficulty problemgen.Difficulty
	Locale     i18n.Locale

	// Solved is set once the current problem has been rewarded.
	Solved bool

	Route     Route
	Pending   Op
	Loading   bool
	LoadedFor string

	// AIReady is false when no AI provider is configured.
	AIReady bool
}

// AttemptsToday is the number of problems generated on today's date.
func (s State) AttemptsToday(today string) int {
	return progress.RolloverIfStale(s.Progress, today).DailyAttempts.Count
}

// QuotaReached reports whether no more problems may be generated today.
func (s State) QuotaReached(today string) bool {
	return s.AttemptsToday(today) >= MaxDailyProblems
}

// CanAffordHint reports whether the balance covers a hint.
func (s State) CanAffordHint() bool {
	return s.Progress.Points >= HintCost
}
