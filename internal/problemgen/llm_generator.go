package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/abhisek/sqlpad/internal/i18n"
	"github.com/abhisek/sqlpad/internal/llm"
	"github.com/abhisek/sqlpad/internal/logging"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a new LLMGenerator. A nil provider yields a generator whose
// every call fails with ErrUpstreamUnavailable.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, logger: logging.OrDiscard(logger)}
}

// Available reports whether a provider is configured.
func (g *LLMGenerator) Available() bool {
	return g.provider != nil
}

// Generate produces a single problem for the given difficulty and locale.
func (g *LLMGenerator) Generate(ctx context.Context, difficulty Difficulty, locale i18n.Locale) (*Problem, error) {
	if g.provider == nil {
		return nil, ErrUpstreamUnavailable
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeProblem)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(difficulty, locale)},
		},
		Schema:      ProblemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		TopP:        g.config.TopP,
		TopK:        g.config.TopK,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	p, err := parseProblem(resp.Content)
	if err != nil {
		return nil, err
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(p, difficulty); verr != nil {
			g.logger.Warn("generated problem rejected", "validator", verr.Validator, "reason", verr.Message)
			return nil, verr
		}
	}

	if p.Difficulty != difficulty {
		g.logger.Warn("generated problem difficulty differs from request",
			"requested", difficulty, "returned", p.Difficulty)
	}

	p.ID = uuid.NewString()
	g.logger.Debug("problem generated", "problem_id", p.ID, "table", p.TableName, "difficulty", p.Difficulty)
	return p, nil
}

// parseProblem decodes raw output, tolerating a surrounding code fence.
func parseProblem(raw json.RawMessage) (*Problem, error) {
	var p Problem
	if err := json.Unmarshal([]byte(llm.StripCodeFence(string(raw))), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &p, nil
}
