// Package auth manages the local account directory and the current session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/sqlpad/internal/logging"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the
	// password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyExists is returned when registering a taken email.
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
)

// The fixed identity the simulated federated sign-in resolves to.
const (
	FederatedEmail = "googleuser@example.com"
	FederatedName  = "Google User"
)

// Latency is the simulated round-trip per operation.
type Latency struct {
	Restore   time.Duration
	Login     time.Duration
	Register  time.Duration
	Federated time.Duration
	Logout    time.Duration
}

// DefaultLatency derives all latencies from base: restore and logout take
// base, login and register 2x, federated sign-in 3x.
func DefaultLatency(base time.Duration) Latency {
	return Latency{
		Restore:   base,
		Login:     2 * base,
		Register:  2 * base,
		Federated: 3 * base,
		Logout:    base,
	}
}

// Scale multiplies every latency by f.
func (l Latency) Scale(f float64) Latency {
	s := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	return Latency{
		Restore:   s(l.Restore),
		Login:     s(l.Login),
		Register:  s(l.Register),
		Federated: s(l.Federated),
		Logout:    s(l.Logout),
	}
}

// Options configures a Manager.
type Options struct {
	Secret     []byte
	Latency    Latency
	BcryptCost int
	Now        func() time.Time
	Logger     *slog.Logger
}

// Manager owns the current identity and session token.
type Manager struct {
	dir    Directory
	tokens TokenStore
	opts   Options
	logger *slog.Logger

	mu      sync.RWMutex
	current *User
}

// NewManager creates a Manager. Zero-valued options get defaults.
func NewManager(dir Directory, tokens TokenStore, opts Options) *Manager {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("sqlpad-local-session")
	}
	return &Manager{
		dir:    dir,
		tokens: tokens,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger),
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Authenticated reports whether a user is signed in.
func (m *Manager) Authenticated() bool {
	return m.CurrentUser() != nil
}

// RestoreSession resolves a stored token against the directory. Any failure
// leaves the manager signed out; invalid tokens are discarded.
func (m *Manager) RestoreSession(ctx context.Context) *User {
	if err := m.sleep(ctx, m.opts.Latency.Restore); err != nil {
		return nil
	}

	token, ok, err := m.tokens.Load(ctx)
	if err != nil {
		m.logger.Warn("load session token", "error", err)
		return nil
	}
	if !ok || token == "" {
		return nil
	}

	claims, err := ParseToken(token, m.opts.Secret)
	if err != nil {
		m.logger.Warn("discarding session token", "error", err)
		m.discardToken(ctx)
		return nil
	}

	acc, err := m.dir.Get(ctx, claims.UserID)
	if err != nil {
		m.logger.Warn("restore session lookup", "user_id", claims.UserID, "error", err)
		return nil
	}
	if acc == nil || normalizeEmail(acc.Email) != normalizeEmail(claims.Email) {
		m.logger.Info("session user no longer exists", "user_id", claims.UserID)
		m.discardToken(ctx)
		return nil
	}

	u := acc.User
	m.setCurrent(&u)
	return m.CurrentUser()
}

// LoginWithCredentials signs in an existing password account.
func (m *Manager) LoginWithCredentials(ctx context.Context, email, password string) (*User, error) {
	if err := m.sleep(ctx, m.opts.Latency.Login); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	acc, err := m.dir.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if acc == nil || acc.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return m.establish(ctx, acc.User)
}

// LoginWithFederatedIdentity simulates an external sign-in that always
// resolves to FederatedEmail, creating the account on first use.
func (m *Manager) LoginWithFederatedIdentity(ctx context.Context) (*User, error) {
	if err := m.sleep(ctx, m.opts.Latency.Federated); err != nil {
		return nil, err
	}

	acc, err := m.dir.FindByEmail(ctx, FederatedEmail)
	if err != nil {
		return nil, fmt.Errorf("federated login: %w", err)
	}
	if acc == nil {
		acc = &Account{
			User: User{
				ID:    "google_" + uuid.NewString(),
				Email: FederatedEmail,
				Name:  FederatedName,
			},
			Provider:  ProviderFederated,
			CreatedAt: m.opts.Now().UTC(),
		}
		if err := m.dir.Put(ctx, *acc); err != nil {
			return nil, fmt.Errorf("federated login: %w", err)
		}
		m.logger.Info("provisioned federated account", "user_id", acc.ID)
	}

	return m.establish(ctx, acc.User)
}

// RegisterWithCredentials creates a password account and signs it in. An
// empty name defaults to the email's local part.
func (m *Manager) RegisterWithCredentials(ctx context.Context, email, password, name string) (*User, error) {
	if err := m.sleep(ctx, m.opts.Latency.Register); err != nil {
		return nil, err
	}

	// The default name keeps the case the user typed.
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || local == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := m.dir.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = local
	}

	acc := Account{
		User:         User{ID: "user_" + uuid.NewString(), Email: email, Name: name},
		PasswordHash: string(hash),
		Provider:     ProviderPassword,
		CreatedAt:    m.opts.Now().UTC(),
	}
	if err := m.dir.Put(ctx, acc); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	m.logger.Info("registered account", "user_id", acc.ID)

	return m.establish(ctx, acc.User)
}

// Logout clears the session. It always succeeds; token store failures are
// logged.
func (m *Manager) Logout(ctx context.Context) {
	_ = m.sleep(ctx, m.opts.Latency.Logout)
	m.setCurrent(nil)
	m.discardToken(ctx)
}

func (m *Manager) establish(ctx context.Context, u User) (*User, error) {
	token, err := GenerateToken(u, m.opts.Secret, m.opts.Now())
	if err != nil {
		return nil, err
	}
	if err := m.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("save session token: %w", err)
	}
	m.setCurrent(&u)
	return m.CurrentUser(), nil
}

func (m *Manager) setCurrent(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = u
}

func (m *Manager) discardToken(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Warn("clear session token", "error", err)
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
