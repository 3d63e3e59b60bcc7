package i18n

import (
	"context"

	"github.com/abhisek/sqlpad/internal/store"
)

// PreferenceKey is the KV key holding the chosen locale.
const PreferenceKey = "sqlPracticeApp_language"

// PreferenceStore persists the locale choice.
type PreferenceStore struct {
	kv store.KV
}

// NewPreferenceStore creates a PreferenceStore on kv.
func NewPreferenceStore(kv store.KV) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// Load returns the saved locale, or fallback when none is saved or the
// saved value is not supported.
func (p *PreferenceStore) Load(ctx context.Context, fallback Locale) (Locale, error) {
	raw, ok, err := p.kv.Get(ctx, PreferenceKey)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	l, ok := Parse(raw)
	if !ok {
		return fallback, nil
	}
	return l, nil
}

// Save stores l.
func (p *PreferenceStore) Save(ctx context.Context, l Locale) error {
	return p.kv.Put(ctx, PreferenceKey, string(l))
}
