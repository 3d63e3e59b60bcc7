package problemgen

import (
	"regexp"
	"strings"
)

var (
	trailingSemicolon = regexp.MustCompile(`;\s*$`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	commaSpacing      = regexp.MustCompile(`\s*,\s*`)
)

// NormalizeSQL canonicalizes a query for comparison: lowercase, trim,
// drop one trailing semicolon, collapse whitespace runs to a single space,
// and remove whitespace around commas.
func NormalizeSQL(query string) string {
	s := strings.TrimSpace(strings.ToLower(query))
	s = trailingSemicolon.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = commaSpacing.ReplaceAllString(s, ",")
	return s
}

// CheckSolution reports whether submitted matches the problem's expected
// solution after normalization. Only textual equivalence counts; two
// different queries with the same result set do not match.
func CheckSolution(submitted string, p *Problem) bool {
	if p == nil || strings.TrimSpace(submitted) == "" {
		return false
	}
	return NormalizeSQL(submitted) == NormalizeSQL(p.ExpectedSolution)
}
