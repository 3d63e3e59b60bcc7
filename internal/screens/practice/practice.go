// Package practice is the main screen: pick a difficulty, generate a
// problem, write a query, buy hints.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sqlpad/internal/i18n"
	pr "github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/problemgen"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/screen"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/abhisek/sqlpad/internal/ui/layout"
)

const (
	spinnerInterval = 120 * time.Millisecond

	// opTimeout bounds a single machine operation, gateway calls included.
	opTimeout = 2 * time.Minute
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// PracticeScreen implements screen.Screen over a practice.Machine.
type PracticeScreen struct {
	machine   *pr.Machine
	openLogin func() screen.Screen

	input      components.TextInput
	editing    bool
	lastProbID string

	inflight     int
	ticking      bool
	spinnerFrame int
	scroll       int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.InputCapturer = (*PracticeScreen)(nil)

// New creates a PracticeScreen. openLogin builds the screen pushed when the
// machine asks for sign-in.
func New(machine *pr.Machine, openLogin func() screen.Screen) *PracticeScreen {
	s := &PracticeScreen{
		machine:   machine,
		openLogin: openLogin,
	}
	s.input = components.NewTextInput(i18n.T(s.locale(), "solution.label"), i18n.T(s.locale(), "solution.placeholder"), 4000)
	return s
}

func (s *PracticeScreen) locale() i18n.Locale {
	return s.machine.Snapshot().Locale
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.run("sync", s.machine.SyncUser)
}

func (s *PracticeScreen) Title() string {
	return i18n.T(s.locale(), "app.title")
}

// CapturesInput is true while the query editor has focus.
func (s *PracticeScreen) CapturesInput() bool { return s.editing }

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	l := s.locale()
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: i18n.T(l, "solution.submit")},
			{Key: "Esc", Description: i18n.T(l, "key.stop_editing")},
		}
	}
	return []layout.KeyHint{
		{Key: "1-3", Description: i18n.T(l, "difficulty.label")},
		{Key: "G", Description: i18n.T(l, "key.generate")},
		{Key: "Tab", Description: i18n.T(l, "key.edit")},
		{Key: "H", Description: i18n.T(l, "key.hint")},
		{Key: "L", Description: i18n.T(l, "language.switch")},
		{Key: "Esc", Description: i18n.T(l, "key.back")},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		return s.handleOpDone()

	case spinnerTickMsg:
		if s.inflight == 0 {
			s.ticking = false
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case router.ScreenResumedMsg:
		return s, s.run("sync", s.machine.SyncUser)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleOpDone() (screen.Screen, tea.Cmd) {
	if s.inflight > 0 {
		s.inflight--
	}

	snap := s.machine.Snapshot()
	id := ""
	if snap.Problem != nil {
		id = snap.Problem.ID
	}
	if id != s.lastProbID {
		s.lastProbID = id
		s.input.Reset()
		s.scroll = 0
	}

	if snap.Route == pr.RouteLogin {
		s.machine.ClearRoute()
		s.editing = false
		s.input.Blur()
		if s.openLogin != nil {
			login := s.openLogin()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: login} }
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.editing {
		switch key {
		case "esc", "tab":
			s.editing = false
			s.input.Blur()
			return s, nil
		case "enter":
			if s.busy() {
				return s, nil
			}
			text := s.input.Value()
			return s, s.run("submit", func(ctx context.Context) {
				s.machine.SubmitSolution(ctx, text)
			})
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	snap := s.machine.Snapshot()
	busy := s.busy()

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "1", "2", "3":
		d := problemgen.Difficulties()[key[0]-'1']
		s.machine.SetDifficulty(d)
		return s, nil
	case "left", "right":
		s.machine.SetDifficulty(cycleDifficulty(snap.Difficulty, key == "right"))
		return s, nil
	case "g":
		if busy {
			return s, nil
		}
		return s, s.run("problem", s.machine.RequestNewProblem)
	case "h":
		if busy {
			return s, nil
		}
		return s, s.run("hint", s.machine.RequestHint)
	case "s":
		s.machine.ToggleHintVisibility()
		return s, nil
	case "l":
		next := snap.Locale.Next()
		return s, s.run("locale", func(ctx context.Context) {
			s.machine.SetLocale(ctx, next)
		})
	case "x":
		s.machine.DismissFeedback()
		return s, nil
	case "tab", "i":
		if snap.Problem == nil || snap.Solved {
			return s, nil
		}
		s.editing = true
		return s, s.input.Focus()
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
		return s, nil
	case "down", "j":
		s.scroll++
		return s, nil
	}
	return s, nil
}

// busy reports whether an operation is dispatched or still running. inflight
// covers the gap between returning a command and the machine marking the
// operation pending.
func (s *PracticeScreen) busy() bool {
	if s.inflight > 0 {
		return true
	}
	snap := s.machine.Snapshot()
	return snap.Pending != pr.OpNone || snap.Loading
}

// run executes fn off the UI loop and reports back with opDoneMsg.
func (s *PracticeScreen) run(op string, fn func(ctx context.Context)) tea.Cmd {
	s.inflight++
	work := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		fn(ctx)
		return opDoneMsg{Op: op}
	}
	if s.ticking {
		return work
	}
	s.ticking = true
	return tea.Batch(work, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func cycleDifficulty(d problemgen.Difficulty, forward bool) problemgen.Difficulty {
	all := problemgen.Difficulties()
	idx := 0
	for i, v := range all {
		if v == d {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(all)
	} else {
		idx = (idx - 1 + len(all)) % len(all)
	}
	return all[idx]
}
