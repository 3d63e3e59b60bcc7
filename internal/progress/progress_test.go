package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqlpad/internal/store"
)

func TestRolloverIfStale(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		want Record
	}{
		{
			name: "same day untouched",
			in:   Record{Points: 40, DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 7}},
			want: Record{Points: 40, DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 7}},
		},
		{
			name: "stale day resets count",
			in:   Record{Points: 40, DailyAttempts: DailyAttempts{Date: "2026-10-17", Count: 10}},
			want: Record{Points: 40, DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 0}},
		},
		{
			name: "empty date resets",
			in:   Record{Points: 5},
			want: Record{Points: 5, DailyAttempts: DailyAttempts{Date: "2026-10-18"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RolloverIfStale(tt.in, "2026-10-18")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordAttemptAfterStaleDate(t *testing.T) {
	r := Record{DailyAttempts: DailyAttempts{Date: "2026-10-01", Count: 9}}
	r.RecordAttempt("2026-10-18")
	assert.Equal(t, 1, r.DailyAttempts.Count, "first attempt of the day must start from zero")
	assert.Equal(t, "2026-10-18", r.DailyAttempts.Date)

	r.RecordAttempt("2026-10-18")
	assert.Equal(t, 2, r.DailyAttempts.Count)
}

func TestAttemptsLeft(t *testing.T) {
	r := Record{DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 9}}
	assert.Equal(t, 1, r.AttemptsLeft("2026-10-18", 10))
	assert.Equal(t, 10, r.AttemptsLeft("2026-10-19", 10))

	r.DailyAttempts.Count = 12
	assert.Equal(t, 0, r.AttemptsLeft("2026-10-18", 10))
}

func TestToday(t *testing.T) {
	ts := time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-04", Today(ts))

	west := time.FixedZone("UTC-5", -5*60*60)
	assert.Equal(t, "2026-10-19", Today(time.Date(2026, 10, 18, 22, 30, 0, 0, west)))

	east := time.FixedZone("UTC+9", 9*60*60)
	assert.Equal(t, "2026-10-17", Today(time.Date(2026, 10, 18, 8, 0, 0, 0, east)))
}

func TestReservation(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		r := Record{Points: 4}
		res, err := r.Reserve(5)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, 4, r.Points, "failed reserve must not debit")
	})

	t.Run("commit keeps debit", func(t *testing.T) {
		r := Record{Points: 12}
		res, err := r.Reserve(5)
		require.NoError(t, err)
		assert.Equal(t, 7, r.Points)
		res.Commit()
		assert.False(t, res.Release(), "release after commit is a no-op")
		assert.Equal(t, 7, r.Points)
	})

	t.Run("release refunds once", func(t *testing.T) {
		r := Record{Points: 5}
		res, err := r.Reserve(5)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Points)
		assert.True(t, res.Release())
		assert.False(t, res.Release())
		assert.Equal(t, 5, r.Points)
		assert.Equal(t, 5, res.Amount())
	})
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryKV(), nil)

	rec := Record{Points: 35, DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 3}}
	require.NoError(t, s.Save(ctx, "user_1", rec))

	got, err := s.Fetch(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)
}

func TestStoreWireLayout(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := NewStore(kv, nil)

	require.NoError(t, s.Save(ctx, "user_1", Record{Points: 10, DailyAttempts: DailyAttempts{Date: "2026-10-18", Count: 1}}))

	raw, ok, err := kv.Get(ctx, "userProgress_user_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"points":10,"dailyAttempts":{"date":"2026-10-18","count":1}}`, raw)
}

func TestFetchMiss(t *testing.T) {
	s := NewStore(store.NewMemoryKV(), nil)
	got, err := s.Fetch(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFetchPurgesMalformed(t *testing.T) {
	bad := []string{
		`not json`,
		`{"points":"ten","dailyAttempts":{"date":"2026-10-18","count":1}}`,
		`{"points":10}`,
		`{"points":10,"dailyAttempts":{"date":"2026-10-18"}}`,
		`{"points":-1,"dailyAttempts":{"date":"2026-10-18","count":1}}`,
		`{"points":1,"dailyAttempts":{"date":"yesterday","count":1}}`,
	}

	for _, raw := range bad {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Put(ctx, Key("u"), raw))

			got, err := NewStore(kv, nil).Fetch(ctx, "u")
			require.NoError(t, err)
			assert.Nil(t, got)

			_, ok, _ := kv.Get(ctx, Key("u"))
			assert.False(t, ok, "malformed record should be purged")
		})
	}
}

type failingKV struct {
	store.KV
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Put(context.Context, string, string) error         { return f.err }

func TestStoreSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("disk full")
	s := NewStore(failingKV{err: boom}, nil)

	err := s.Save(context.Background(), "u", Default("2026-10-18"))
	assert.ErrorIs(t, err, boom)

	_, err = s.Fetch(context.Background(), "u")
	assert.ErrorIs(t, err, boom)

	assert.Error(t, s.Save(context.Background(), "", Default("2026-10-18")))
}
