package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/store"
)

// DirectoryKey is the KV key holding the account list.
const DirectoryKey = "sqlPracticeApp_mockUsersDB"

// Account providers.
const (
	ProviderPassword  = "password"
	ProviderFederated = "federated"
)

// User is the identity exposed to the rest of the app.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Account is a directory entry.
type Account struct {
	User
	PasswordHash string    `json:"passwordHash,omitempty"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Directory stores accounts. Email is unique across entries.
type Directory interface {
	// Get returns the account with id, or nil.
	Get(ctx context.Context, id string) (*Account, error)

	// FindByEmail returns the account with email, or nil.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Put inserts or replaces the account with acc.ID. It fails with
	// ErrEmailAlreadyExists when another account already uses acc.Email.
	Put(ctx context.Context, acc Account) error

	// List returns all accounts in insertion order.
	List(ctx context.Context) ([]Account, error)
}

// KVDirectory keeps the ordered account list as one JSON array in a KV store.
type KVDirectory struct {
	mu     sync.Mutex
	kv     store.KV
	logger *slog.Logger
}

// NewKVDirectory creates a directory on kv.
func NewKVDirectory(kv store.KV, logger *slog.Logger) *KVDirectory {
	return &KVDirectory{kv: kv, logger: logging.OrDiscard(logger)}
}

// load reads the list. An unparsable list is logged and treated as empty.
func (d *KVDirectory) load(ctx context.Context) ([]Account, error) {
	raw, ok, err := d.kv.Get(ctx, DirectoryKey)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var accounts []Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		d.logger.Warn("user directory unreadable, treating as empty", "error", err)
		return nil, nil
	}
	return accounts, nil
}

func (d *KVDirectory) save(ctx context.Context, accounts []Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	if err := d.kv.Put(ctx, DirectoryKey, string(raw)); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	return nil
}

func (d *KVDirectory) Get(ctx context.Context, id string) (*Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

func (d *KVDirectory) FindByEmail(ctx context.Context, email string) (*Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	for i := range accounts {
		if normalizeEmail(accounts[i].Email) == email {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

func (d *KVDirectory) Put(ctx context.Context, acc Account) error {
	if acc.ID == "" {
		return fmt.Errorf("account id is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return err
	}

	email := normalizeEmail(acc.Email)
	replaced := false
	for i := range accounts {
		if accounts[i].ID == acc.ID {
			accounts[i] = acc
			replaced = true
			continue
		}
		if normalizeEmail(accounts[i].Email) == email {
			return ErrEmailAlreadyExists
		}
	}
	if !replaced {
		accounts = append(accounts, acc)
	}
	return d.save(ctx, accounts)
}

func (d *KVDirectory) List(ctx context.Context) ([]Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(ctx)
}
