// Package hints produces short guidance for the current SQL problem.
package hints

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/llm"
	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/problemgen"
)

var (
	// ErrUpstreamUnavailable means no AI provider is configured.
	ErrUpstreamUnavailable = errors.New("hint generator unavailable: no AI provider configured")

	// ErrEmptyResponse means the model returned only whitespace.
	ErrEmptyResponse = errors.New("hint response was empty")

	// ErrSolutionLeak means the hint contained the expected solution.
	ErrSolutionLeak = errors.New("hint reveals the expected solution")
)

// Generator produces a hint for a problem.
type Generator interface {
	GenerateHint(ctx context.Context, c Context, locale i18n.Locale) (string, error)
}

// Service generates hints with an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a hint service. A nil provider yields a service whose
// every call fails with ErrUpstreamUnavailable.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	return &Service{provider: provider, cfg: cfg, logger: logging.OrDiscard(logger)}
}

// GenerateHint returns a trimmed, non-empty hint.
func (s *Service) GenerateHint(ctx context.Context, c Context, locale i18n.Locale) (string, error) {
	if s.provider == nil {
		return "", ErrUpstreamUnavailable
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)

	req := llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintUserMessage(c, locale)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
		TopK:        s.cfg.TopK,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		return "", fmt.Errorf("hint generation: %w", err)
	}

	hint := strings.TrimSpace(string(resp.Content))
	if hint == "" {
		return "", ErrEmptyResponse
	}
	if leaks(hint, c.ExpectedSolution) {
		s.logger.Warn("discarding hint that contains the solution", "table", c.TableName)
		return "", ErrSolutionLeak
	}
	return hint, nil
}

func leaks(hint, solution string) bool {
	sol := problemgen.NormalizeSQL(solution)
	if sol == "" {
		return false
	}
	return strings.Contains(problemgen.NormalizeSQL(hint), sol)
}
