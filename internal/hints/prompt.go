package hints

import (
	"fmt"
	"strings"

	"github.com/abhisek/sqlpad/internal/i18n"
)

const hintSystemPrompt = `You are an SQL teaching assistant helping a learner who is stuck on a problem.

Give one concise hint that guides the learner toward the solution without revealing it.
- Never write SQL code or the full answer.
- Suggest a general concept or clause that might help, or point at the key part of the problem statement.
- Prefer guiding questions and gentle suggestions ("It might help to think about...", "Have you considered...?") over instructions ("You should use...", "The query needs...").
- Match the hint to the problem difficulty.
- One or two short sentences.
- Reply with plain text, not JSON and not markdown.

Examples for other problems:
- Easy: "Remember to look at the condition for filtering product prices."
- Medium: "Think about which type of JOIN would show all customers, even those without orders."
- Advanced: "Consider how window functions could rank items within each category."`

// buildHintUserMessage renders the problem context. The expected solution
// is deliberately absent.
func buildHintUserMessage(c Context, locale i18n.Locale) string {
	lang := locale.LanguageName()

	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty: %s\n", c.Difficulty)
	fmt.Fprintf(&b, "Language: %s\n\n", lang)
	fmt.Fprintf(&b, "Table name: %s\n", c.TableName)
	fmt.Fprintf(&b, "Table schema (descriptions in %s):\n", lang)
	for _, col := range c.Schema {
		fmt.Fprintf(&b, "  - %s (%s)", col.ColumnName, col.DataType)
		if col.Description != "" {
			fmt.Fprintf(&b, ": %s", col.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Problem statement: %s\n\n", c.Statement)
	fmt.Fprintf(&b, "Write one hint in %s for this %s problem.", lang, c.Difficulty)
	return b.String()
}
