package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreCorrupted is returned when a file-backed store cannot be parsed.
	ErrStoreCorrupted = errors.New("store file corrupted")

	// ErrStorePersist is returned when a file-backed store cannot be written.
	ErrStorePersist = errors.New("store persist failed")
)

// KV is the opaque string key-value store that accounts, session tokens,
// preferences and progress records live in.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Practice event kinds.
const (
	KindProblemGenerated  = "problem_generated"
	KindSolutionSubmitted = "solution_submitted"
	KindHintPurchased     = "hint_purchased"
	KindHintRefunded      = "hint_refunded"
)

// PracticeEventData captures one learner action.
type PracticeEventData struct {
	UserID      string
	Kind        string
	ProblemID   string
	Difficulty  string
	PointsDelta int
	Outcome     string
	Detail      string
}

// PracticeEvent is a stored learner action.
type PracticeEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	PracticeEventData
}

// EventRepo provides append and query access to the event logs.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendPracticeEvent records a learner action.
	AppendPracticeEvent(ctx context.Context, data PracticeEventData) error

	// QueryPracticeEvents returns a user's events, newest first.
	QueryPracticeEvents(ctx context.Context, userID string, opts QueryOpts) ([]PracticeEvent, error)
}
