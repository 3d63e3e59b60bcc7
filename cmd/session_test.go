package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/config"
	"github.com/abhisek/sqlpad/internal/hints"
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/progress"
	"github.com/abhisek/sqlpad/internal/store"
)

type stubProblems struct {
	calls int
}

func (g *stubProblems) Generate(_ context.Context, d problemgen.Difficulty, _ i18n.Locale) (*problemgen.Problem, error) {
	g.calls++
	return &problemgen.Problem{
		ID:               "prob_1",
		TableName:        "LibraryBooks",
		Schema:           []problemgen.Column{{ColumnName: "id", DataType: "INTEGER"}, {ColumnName: "title", DataType: "TEXT"}},
		SampleRows:       []map[string]any{{"id": 1, "title": "Dune"}},
		Statement:        "List every title.",
		ExpectedSolution: "SELECT title FROM LibraryBooks;",
		Difficulty:       d,
	}, nil
}

type stubHints struct {
	calls int
}

func (h *stubHints) GenerateHint(context.Context, hints.Context, i18n.Locale) (string, error) {
	h.calls++
	return "Select a single column.", nil
}

type cliHarness struct {
	env      *environment
	problems *stubProblems
	hints    *stubHints
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &cliHarness{
		env: &environment{
			cfg:    config.Config{Auth: config.AuthConfig{SessionSecret: "test-secret"}},
			logger: logging.Discard(),
			store:  st,
			kv:     store.NewMemoryKV(),
		},
		problems: &stubProblems{},
		hints:    &stubHints{},
	}
}

func (h *cliHarness) signIn(t *testing.T) *auth.User {
	t.Helper()
	u, err := h.env.authManager().RegisterWithCredentials(context.Background(), "ana@x.com", "pw", "Ana")
	require.NoError(t, err)
	return u
}

// open starts a fresh session, as a new process would.
func (h *cliHarness) open(t *testing.T) *practiceSession {
	t.Helper()
	s, err := openSession(context.Background(), h.env, gateways{problems: h.problems, hints: h.hints}, i18n.EN)
	require.NoError(t, err)
	return s
}

func (h *cliHarness) points(t *testing.T, userID string) int {
	t.Helper()
	rec, err := progress.NewStore(h.env.kv, nil).Fetch(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Points
}

func TestOpenSessionRequiresSignIn(t *testing.T) {
	h := newCLIHarness(t)

	_, err := openSession(context.Background(), h.env, gateways{problems: h.problems, hints: h.hints}, i18n.EN)
	assert.ErrorIs(t, err, errNotSignedIn)
	assert.Zero(t, h.problems.calls)
}

func TestRunProblemHidesSolution(t *testing.T) {
	h := newCLIHarness(t)
	h.signIn(t)
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runProblem(ctx, &out, h.open(t), problemgen.Easy, false))
		assert.Contains(t, out.String(), "List every title.")
		assert.Contains(t, out.String(), "1/10 problems today")
		assert.NotContains(t, out.String(), "SELECT title")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runProblem(ctx, &out, h.open(t), problemgen.Medium, true))
		assert.NotContains(t, out.String(), "SELECT title")

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, "prob_1", doc["id"])
		assert.Equal(t, "LibraryBooks", doc["tableName"])
		assert.Equal(t, "Medium", doc["difficulty"])
		assert.NotContains(t, doc, "expectedSolution")
	})

	assert.Equal(t, 2, h.problems.calls)
}

func TestRunProblemHonorsDailyQuota(t *testing.T) {
	h := newCLIHarness(t)
	u := h.signIn(t)
	ctx := context.Background()

	full := progress.Record{
		Points:        40,
		DailyAttempts: progress.DailyAttempts{Date: progress.Today(time.Now()), Count: practice.MaxDailyProblems},
	}
	require.NoError(t, progress.NewStore(h.env.kv, nil).Save(ctx, u.ID, full))

	var out bytes.Buffer
	err := runProblem(ctx, &out, h.open(t), problemgen.Easy, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10")
	assert.Zero(t, h.problems.calls)

	_, ok, err := h.env.kv.Get(ctx, cliProblemPrefix+u.ID)
	require.NoError(t, err)
	assert.False(t, ok, "no problem should be saved")
}

func TestRunProblemWithoutProvider(t *testing.T) {
	h := newCLIHarness(t)
	h.signIn(t)

	s, err := openSession(context.Background(), h.env, gateways{}, i18n.EN)
	require.NoError(t, err)

	err = runProblem(context.Background(), &bytes.Buffer{}, s, problemgen.Easy, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), i18n.T(i18n.EN, "config.error.title"))
}

func TestHintAndCheckAcrossRuns(t *testing.T) {
	h := newCLIHarness(t)
	u := h.signIn(t)
	ctx := context.Background()

	require.NoError(t, runProblem(ctx, &bytes.Buffer{}, h.open(t), problemgen.Easy, false))

	// No points yet, so the hint is refused without calling the generator.
	err := runHint(ctx, &bytes.Buffer{}, h.open(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), i18n.T(i18n.EN, "hint.insufficient_points"))
	assert.Zero(t, h.hints.calls)

	var out bytes.Buffer
	err = runCheck(ctx, &out, h.open(t), "SELECT * FROM LibraryBooks")
	assert.ErrorIs(t, err, errWrongSolution)
	assert.Contains(t, out.String(), "✗ incorrect")

	out.Reset()
	require.NoError(t, runCheck(ctx, &out, h.open(t), "select title from librarybooks"))
	assert.Contains(t, out.String(), "10 pts")
	assert.Equal(t, 10, h.points(t, u.ID))

	out.Reset()
	require.NoError(t, runCheck(ctx, &out, h.open(t), "select title from librarybooks"))
	assert.Contains(t, out.String(), "Already solved")
	assert.Equal(t, 10, h.points(t, u.ID), "a problem is rewarded once")

	out.Reset()
	require.NoError(t, runHint(ctx, &out, h.open(t)))
	assert.Contains(t, out.String(), "Select a single column.")
	assert.Equal(t, 1, h.hints.calls)
	assert.Equal(t, 10-practice.HintCost, h.points(t, u.ID))

	out.Reset()
	require.NoError(t, runHint(ctx, &out, h.open(t)))
	assert.Contains(t, out.String(), "Select a single column.")
	assert.Equal(t, 1, h.hints.calls, "a bought hint is not bought again")
	assert.Equal(t, 10-practice.HintCost, h.points(t, u.ID))
}

func TestRunHintWithoutProblem(t *testing.T) {
	h := newCLIHarness(t)
	h.signIn(t)

	err := runHint(context.Background(), &bytes.Buffer{}, h.open(t))
	assert.ErrorIs(t, err, errNoProblem)

	err = runCheck(context.Background(), &bytes.Buffer{}, h.open(t), "SELECT 1")
	assert.ErrorIs(t, err, errNoProblem)
}

func TestResumeDiscardsUnreadableProblem(t *testing.T) {
	h := newCLIHarness(t)
	u := h.signIn(t)
	ctx := context.Background()

	require.NoError(t, h.env.kv.Put(ctx, cliProblemPrefix+u.ID, "{not json"))

	err := h.open(t).resume(ctx)
	assert.ErrorIs(t, err, errNoProblem)

	_, ok, err := h.env.kv.Get(ctx, cliProblemPrefix+u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
