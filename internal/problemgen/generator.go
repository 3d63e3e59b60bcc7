package problemgen

import (
	"context"

	"github.com/abhisek/sqlpad/internal/i18n"
)

// Generator produces SQL practice problems.
type Generator interface {
	// Generate produces a single problem at the requested difficulty with
	// all text in the given locale. All configured validators are run
	// before returning.
	Generate(ctx context.Context, difficulty Difficulty, locale i18n.Locale) (*Problem, error)
}
