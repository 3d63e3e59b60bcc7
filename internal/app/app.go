package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/i18n"
	pr "github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/screen"
	"github.com/abhisek/sqlpad/internal/screens/home"
	"github.com/abhisek/sqlpad/internal/screens/welcome"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/abhisek/sqlpad/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Machine  *pr.Machine
	Accounts home.Accounts
	Events   store.EventRepo // nil disables history

	// SkipWelcome starts on the home screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	machine *pr.Machine
	width   int
	height  int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Machine, opts.Accounts, opts.Events)
	}

	var initial screen.Screen
	if opts.SkipWelcome {
		initial = homeFactory()
	} else {
		initial = welcome.New(homeFactory, opts.Machine.Snapshot().Locale)
	}

	return AppModel{
		router:  router.New(initial),
		machine: opts.Machine,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	snap := m.machine.Snapshot()
	l := snap.Locale

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, layout.HeaderStats{
		Visible:     snap.LoadedFor != "",
		Points:      snap.Progress.Points,
		Attempts:    snap.AttemptsToday(m.machine.Today()),
		MaxAttempts: pr.MaxDailyProblems,
		Locale:      string(l),
	}, m.width)

	var footerHints []layout.KeyHint
	if khp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = khp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: i18n.T(l, "key.back")},
			{Key: "Ctrl+C", Description: i18n.T(l, "key.quit")},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: i18n.T(l, "key.quit")},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
