package home

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqlpad/internal/auth"
	"github.com/abhisek/sqlpad/internal/i18n"
	pr "github.com/abhisek/sqlpad/internal/practice"
	"github.com/abhisek/sqlpad/internal/progress"
	"github.com/abhisek/sqlpad/internal/router"
	"github.com/abhisek/sqlpad/internal/store"
)

type fakeAccounts struct {
	user *auth.User
}

func (f *fakeAccounts) CurrentUser() *auth.User { return f.user }
func (f *fakeAccounts) Logout(context.Context)  { f.user = nil }
func (f *fakeAccounts) LoginWithCredentials(_ context.Context, email, _ string) (*auth.User, error) {
	f.user = &auth.User{ID: "u1", Email: email}
	return f.user, nil
}
func (f *fakeAccounts) RegisterWithCredentials(_ context.Context, email, _, name string) (*auth.User, error) {
	f.user = &auth.User{ID: "u1", Email: email, Name: name}
	return f.user, nil
}
func (f *fakeAccounts) LoginWithFederatedIdentity(context.Context) (*auth.User, error) {
	f.user = &auth.User{ID: "g1", Email: auth.FederatedEmail}
	return f.user, nil
}

func newHome(t *testing.T, user *auth.User) (*HomeScreen, *fakeAccounts, *pr.Machine) {
	t.Helper()
	acc := &fakeAccounts{user: user}
	m := pr.New(pr.Deps{
		Identity: acc,
		Progress: progress.NewStore(store.NewMemoryKV(), nil),
	}, i18n.EN)
	db, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := New(m, acc, db.EventRepo())
	if cmd := h.Init(); cmd != nil {
		h.Update(cmd())
	}
	return h, acc, m
}

// choose selects item i and runs its action, feeding the result back.
func choose(h *HomeScreen, i int) tea.Msg {
	h.menu.Selected = i
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	msg := cmd()
	h.Update(msg)
	return msg
}

func TestAccountItemFollowsSignIn(t *testing.T) {
	h, _, _ := newHome(t, nil)
	assert.Equal(t, "Login", h.menu.Items[itemAccount].Label)
	assert.True(t, h.menu.Items[itemHistory].Disabled, "history needs a user")

	h2, _, _ := newHome(t, &auth.User{ID: "u1", Email: "a@x.com"})
	assert.Equal(t, "Logout", h2.menu.Items[itemAccount].Label)
	assert.False(t, h2.menu.Items[itemHistory].Disabled)
}

func TestLoginItemPushesLoginScreen(t *testing.T) {
	h, _, _ := newHome(t, nil)
	msg := choose(h, itemAccount)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "Login to SQL Practice Pad", push.Screen.Title())
}

func TestLogoutResetsMachine(t *testing.T) {
	h, acc, m := newHome(t, &auth.User{ID: "u1", Email: "a@x.com"})
	require.Equal(t, "u1", m.Snapshot().LoadedFor)

	choose(h, itemAccount)
	assert.Nil(t, acc.user)
	assert.Empty(t, m.Snapshot().LoadedFor)
	assert.Equal(t, "Login", h.menu.Items[itemAccount].Label)
}

func TestLanguageItemSwitchesLocale(t *testing.T) {
	h, _, m := newHome(t, nil)
	choose(h, itemLanguage)
	assert.Equal(t, i18n.PT, m.Snapshot().Locale)
	assert.Equal(t, "PRATICAR", h.menu.Items[itemPractice].Label)
	assert.Equal(t, itemLanguage, h.menu.Selected, "selection survives a rebuild")
}

func TestPracticeItemPushesPractice(t *testing.T) {
	h, _, _ := newHome(t, nil)
	msg := choose(h, itemPractice)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "SQL Practice Pad", push.Screen.Title())
}

func TestMascotVariant(t *testing.T) {
	h, _, m := newHome(t, nil)
	assert.Equal(t, MascotAlert, h.mascot(m.Snapshot(), m.Today()), "no AI configured")
}
