package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/store"
)

const keyPrefix = "userProgress_"

// Key returns the KV key holding userID's record.
func Key(userID string) string {
	return keyPrefix + userID
}

// Store reads and writes progress records in a KV store.
type Store struct {
	kv     store.KV
	logger *slog.Logger
}

// NewStore creates a Store on kv.
func NewStore(kv store.KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logging.OrDiscard(logger)}
}

// Fetch returns userID's record, or nil when there is none. Malformed data
// is purged and reported as a miss. Only backend failures return an error.
func (s *Store) Fetch(ctx context.Context, userID string) (*Record, error) {
	if userID == "" {
		return nil, nil
	}
	key := Key(userID)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	if !ok {
		return nil, nil
	}

	rec, decodeErr := decode(raw)
	if decodeErr != nil {
		s.logger.Warn("purging malformed progress record", "user_id", userID, "error", decodeErr)
		if err := s.kv.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("purge progress: %w", err)
		}
		return nil, nil
	}
	return rec, nil
}

// Save writes rec for userID.
func (s *Store) Save(ctx context.Context, userID string, rec Record) error {
	if userID == "" {
		return fmt.Errorf("save progress: user id is required")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Put(ctx, Key(userID), string(raw)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// wireRecord uses pointers so missing fields are distinguishable from zero.
type wireRecord struct {
	Points        *int `json:"points"`
	DailyAttempts *struct {
		Date  *string `json:"date"`
		Count *int    `json:"count"`
	} `json:"dailyAttempts"`
}

func decode(raw string) (*Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if w.Points == nil || w.DailyAttempts == nil || w.DailyAttempts.Date == nil || w.DailyAttempts.Count == nil {
		return nil, fmt.Errorf("missing fields")
	}
	rec := Record{
		Points:        *w.Points,
		DailyAttempts: DailyAttempts{Date: *w.DailyAttempts.Date, Count: *w.DailyAttempts.Count},
	}
	if !rec.validate() {
		return nil, fmt.Errorf("out of range values")
	}
	return &rec, nil
}
