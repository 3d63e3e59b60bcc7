package problemgen

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable means no AI provider is configured.
	ErrUpstreamUnavailable = errors.New("problem generator unavailable: no AI provider configured")

	// ErrMalformedResponse means the generator output could not be parsed
	// or failed validation.
	ErrMalformedResponse = errors.New("malformed problem response")
)

// Validator checks a generated problem.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if p passes. requested is the difficulty the
	// caller asked for.
	Validate(p *Problem, requested Difficulty) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Unwrap lets callers match any validation failure with ErrMalformedResponse.
func (e *ValidationError) Unwrap() error { return ErrMalformedResponse }
