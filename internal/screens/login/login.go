// Package login is the sign-in and registration screen.
package login

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/screen"
	"github.com/abhisek/sqlpad/internal/ui/components"
	"github.com/abhisek/sqlpad/internal/ui/layout"
	"github.com/abhisek/sqlpad/internal/ui/theme"
)

// Authenticator is the part of auth.Manager the screen drives.
type Authenticator interface {
	LoginWithCredentials(ctx context.Context, email, password string) (*auth.User, error)
	RegisterWithCredentials(ctx context.Context, email, password, name string) (*auth.User, error)
	LoginWithFederatedIdentity(ctx context.Context) (*auth.User, error)
}

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

type authDoneMsg struct {
	User *auth.User
	Err  error
	Op   string
}

type syncedMsg struct{}

// LoginScreen collects credentials and signs the user in.
type LoginScreen struct {
	auth    Authenticator
	onLogin func(ctx context.Context)
	locale  func() i18n.Locale

	mode   Mode
	fields []components.TextInput
	focus  int

	busy   bool
	errKey string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.InputCapturer = (*LoginScreen)(nil)

// New creates a LoginScreen. onLogin runs after a successful sign-in,
// before the screen closes; locale supplies the display language.
func New(a Authenticator, onLogin func(ctx context.Context), locale func() i18n.Locale) *LoginScreen {
	s := &LoginScreen{auth: a, onLogin: onLogin, locale: locale}
	s.buildFields()
	return s
}

func (s *LoginScreen) buildFields() {
	l := s.locale()
	s.fields = []components.TextInput{
		components.NewTextInput(i18n.T(l, "auth.email"), "you@example.com", 254),
		components.NewPasswordInput(i18n.T(l, "auth.password"), "••••••••"),
		components.NewTextInput(i18n.T(l, "auth.name"), "", 80),
	}
	s.focus = fieldEmail
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) Title() string {
	if s.mode == ModeRegister {
		return i18n.T(s.locale(), "auth.register.title")
	}
	return i18n.T(s.locale(), "auth.login.title")
}

// CapturesInput keeps Esc and letters with the form.
func (s *LoginScreen) CapturesInput() bool { return true }

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	l := s.locale()
	toggle := i18n.T(l, "auth.sign_up")
	if s.mode == ModeRegister {
		toggle = i18n.T(l, "auth.sign_in")
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: i18n.T(l, "key.next_field")},
		{Key: "Enter", Description: i18n.T(l, "key.submit")},
		{Key: "Ctrl+R", Description: toggle},
		{Key: "Ctrl+G", Description: i18n.T(l, "auth.federated")},
		{Key: "Esc", Description: i18n.T(l, "key.back")},
	}
}

// Mode reports the current form mode.
func (s *LoginScreen) Mode() Mode { return s.mode }

func (s *LoginScreen) fieldCount() int {
	if s.mode == ModeRegister {
		return 3
	}
	return 2
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		return s.handleAuthDone(msg)

	case syncedMsg:
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "down":
		return s, s.moveFocus(1)
	case "shift+tab", "up":
		return s, s.moveFocus(-1)
	case "ctrl+r":
		if s.mode == ModeLogin {
			s.mode = ModeRegister
		} else {
			s.mode = ModeLogin
		}
		s.errKey = ""
		if s.focus >= s.fieldCount() {
			return s, s.moveFocus(-1)
		}
		return s, nil
	case "ctrl+g":
		return s, s.submitFederated()
	case "enter":
		if s.focus < s.fieldCount()-1 {
			return s, s.moveFocus(1)
		}
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) moveFocus(delta int) tea.Cmd {
	n := s.fieldCount()
	s.fields[s.focus].Blur()
	s.focus = (s.focus + delta + n) % n
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.fields[fieldEmail].Value())
	password := s.fields[fieldPassword].Value()
	if email == "" || password == "" {
		s.errKey = "auth.error.invalid_credentials"
		return nil
	}

	s.busy = true
	s.errKey = ""
	if s.mode == ModeRegister {
		name := s.fields[fieldName].Value()
		return s.run("register", func(ctx context.Context) (*auth.User, error) {
			return s.auth.RegisterWithCredentials(ctx, email, password, name)
		})
	}
	return s.run("login", func(ctx context.Context) (*auth.User, error) {
		return s.auth.LoginWithCredentials(ctx, email, password)
	})
}

func (s *LoginScreen) submitFederated() tea.Cmd {
	s.busy = true
	s.errKey = ""
	return s.run("federated", s.auth.LoginWithFederatedIdentity)
}

func (s *LoginScreen) run(op string, fn func(ctx context.Context) (*auth.User, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		u, err := fn(ctx)
		return authDoneMsg{User: u, Err: err, Op: op}
	}
}

func (s *LoginScreen) handleAuthDone(msg authDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.busy = false
		s.errKey = errorKey(msg.Op, msg.Err)
		s.fields[fieldPassword].Reset()
		return s, nil
	}
	onLogin := s.onLogin
	return s, func() tea.Msg {
		if onLogin != nil {
			onLogin(context.Background())
		}
		return syncedMsg{}
	}
}

func errorKey(op string, err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "auth.error.invalid_credentials"
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return "auth.error.email_exists"
	case op == "register":
		return "auth.error.registration_failed"
	case op == "federated":
		return "auth.error.federated_failed"
	default:
		return "auth.error.generic"
	}
}

func (s *LoginScreen) View(width, height int) string {
	l := s.locale()
	cw := components.ContentWidth(width, 56)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(s.Title()))

	var form []string
	for i := 0; i < s.fieldCount(); i++ {
		form = append(form, s.fields[i].View())
	}
	sections = append(sections, components.Panel(strings.Join(form, "\n\n"), cw))

	switch {
	case s.busy:
		key := "auth.logging_in"
		if s.mode == ModeRegister {
			key = "auth.registering"
		}
		sections = append(sections, theme.Hint.Render(i18n.T(l, key)))
	case s.errKey != "":
		sections = append(sections, theme.Incorrect.Render(i18n.T(l, s.errKey)))
	}

	action := i18n.T(l, "auth.login")
	prompt := i18n.T(l, "auth.no_account") + " Ctrl+R: " + i18n.T(l, "auth.sign_up")
	if s.mode == ModeRegister {
		action = i18n.T(l, "auth.register")
		prompt = i18n.T(l, "auth.have_account") + " Ctrl+R: " + i18n.T(l, "auth.sign_in")
	}
	sections = append(sections,
		components.ButtonRow(
			components.NewButton(action, "Enter", !s.busy),
			components.NewButton(i18n.T(l, "auth.federated"), "Ctrl+G", !s.busy),
		),
		theme.Hint.Render(prompt),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, joinWithGaps(sections)...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func joinWithGaps(sections []string) []string {
	out := make([]string, 0, len(sections)*2)
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s)
	}
	return out
}
