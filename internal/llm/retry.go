package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/sqlpad/internal/logging"
)

// retryClass says how a failed call may be retried.
type retryClass int

const (
	retryNever retryClass = iota
	// retryOnce covers malformed output: one fresh sample is worth trying,
	// a second rarely helps.
	retryOnce
	retryTransient
)

// RetryProvider retries transient failures with exponential backoff and
// jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *slog.Logger
}

// WithRetry wraps p with retry logic. logger may be nil.
func WithRetry(p Provider, cfg RetryConfig, logger *slog.Logger) Provider {
	return &RetryProvider{inner: p, config: cfg, logger: logging.OrDiscard(logger)}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	schema := "text"
	if req.Schema != nil {
		schema = req.Schema.Name
	}

	retriedInvalid := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classifyRetry(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt >= r.config.MaxAttempts {
			r.logger.Warn("LLM call failed, retries exhausted",
				"schema", schema, "attempts", attempt, "error", err)
			return nil, err
		}

		wait := r.backoff(attempt-1, err)
		r.logger.Info("retrying LLM call",
			"schema", schema, "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// classifyRetry sorts errors by retry policy. Cancellation and token limits
// are final. Unknown errors (network and the like) count as transient.
func classifyRetry(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return retryNever
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return retryOnce
	}
	return retryTransient
}

// backoff is the wait before retry number n (0-based). A rate limit's
// RetryAfter wins over the computed delay.
func (r *RetryProvider) backoff(n int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(n))
	wait = math.Min(wait, float64(r.config.MaxWait))

	// ±20% jitter.
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}
