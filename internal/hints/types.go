package hints

import "github.com/abhisek/sqlpad/internal/problemgen"

// Context is what a hint is generated from.
type Context struct {
	TableName  string
	Schema     []problemgen.Column
	Statement  string
	Difficulty problemgen.Difficulty

	// ExpectedSolution is never sent to the model. It is only used to
	// refuse hints that reveal the answer.
	ExpectedSolution string
}

// ContextFor builds a hint context from a problem.
func ContextFor(p *problemgen.Problem) Context {
	return Context{
		TableName:        p.TableName,
		Schema:           p.Schema,
		Statement:        p.Statement,
		Difficulty:       p.Difficulty,
		ExpectedSolution: p.ExpectedSolution,
	}
}
