package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/i18n"
	pr "github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/screen"
	"github.com/abhisek/sqlpad/internal/screens/history"
	"github.com/abhisek/sqlpad/internal/screens/login"
	practicescreen "github.com/abhisek/sqlpad/internal/screens/practice"
	"github.com/abhisek/sqlpad/internal/store"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/abhisek/sqlpad/internal/ui/layout"
)

// Accounts is the identity surface the home screen needs.
type Accounts interface {
	login.Authenticator
	CurrentUser() *auth.User
	Logout(ctx context.Context)
}

// refreshMsg asks the screen to re-read machine state.
type refreshMsg struct{}

const (
	itemPractice = iota
	itemHistory
	itemLanguage
	itemAccount
	itemQuit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	machine  *pr.Machine
	accounts Accounts
	events   store.EventRepo
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil, which disables history.
func New(machine *pr.Machine, accounts Accounts, events store.EventRepo) *HomeScreen {
	h := &HomeScreen{
		machine:  machine,
		accounts: accounts,
		events:   events,
	}
	h.rebuildMenu()
	return h
}

func (h *HomeScreen) locale() i18n.Locale {
	return h.machine.Snapshot().Locale
}

func (h *HomeScreen) openLogin() screen.Screen {
	return login.New(h.accounts, h.machine.SyncUser, h.locale)
}

// rebuildMenu recreates the items, since labels follow locale and sign-in
// state. The selection is kept.
func (h *HomeScreen) rebuildMenu() {
	l := h.locale()
	user := h.accounts.CurrentUser()

	accountLabel := i18n.T(l, "auth.login")
	if user != nil {
		accountLabel = i18n.T(l, "auth.logout")
	}

	items := []components.MenuItem{
		itemPractice: {Label: i18n.T(l, "menu.practice"), Action: func() tea.Cmd {
			s := practicescreen.New(h.machine, h.openLogin)
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}},
		itemHistory: {Label: i18n.T(l, "history.title"), Disabled: h.events == nil || user == nil, Action: func() tea.Cmd {
			u := h.accounts.CurrentUser()
			if u == nil {
				return nil
			}
			s := history.New(h.events, u.ID, h.locale)
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}},
		itemLanguage: {Label: i18n.T(l, "language.label", l.LanguageName()), Action: func() tea.Cmd {
			next := h.locale().Next()
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				h.machine.SetLocale(ctx, next)
				return refreshMsg{}
			}
		}},
		itemAccount: {Label: accountLabel, Action: func() tea.Cmd {
			if h.accounts.CurrentUser() == nil {
				s := h.openLogin()
				return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
			}
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				h.accounts.Logout(ctx)
				h.machine.SyncUser(ctx)
				return refreshMsg{}
			}
		}},
		itemQuit: {Label: i18n.T(l, "menu.quit"), Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected >= 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.sync()
}

func (h *HomeScreen) sync() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.machine.SyncUser(ctx)
		return refreshMsg{}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case refreshMsg:
		h.rebuildMenu()
		return h, nil
	case router.ScreenResumedMsg:
		return h, h.sync()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	l := h.locale()
	return []layout.KeyHint{
		{Key: "↑↓", Description: i18n.T(l, "key.navigate")},
		{Key: "Enter", Description: i18n.T(l, "key.select")},
		{Key: "Ctrl+C", Description: i18n.T(l, "key.quit")},
	}
}

func (h *HomeScreen) mascot(snap pr.State, today string) MascotVariant {
	switch {
	case !snap.AIReady || snap.QuotaReached(today):
		return MascotAlert
	case snap.Solved:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

func (h *HomeScreen) View(width, height int) string {
	snap := h.machine.Snapshot()
	today := h.machine.Today()
	l := snap.Locale

	// height is the content area; add back header and footer
	termHeight := height + 8
	compact := termHeight < 34 || width < 100
	cw := components.ContentWidth(width, 60)

	var name string
	if u := h.accounts.CurrentUser(); u != nil {
		name = u.Name
		if name == "" {
			name = u.Email
		}
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(snap, today), cw))
	}
	sections = append(sections, renderStatsBar(stats{
		user:     name,
		points:   snap.Progress.Points,
		attempts: snap.AttemptsToday(today),
		max:      pr.MaxDailyProblems,
	}, l, cw, compact))
	if !snap.AIReady {
		sections = append(sections, renderAIBanner(l, cw))
	}
	sections = append(sections, h.menu.View(cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return i18n.T(h.locale(), "home.title")
}
