package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/sqlpad/internal/i18n"
)

const systemPrompt = `You are an expert SQL problem generator for a learning application.
Create diverse, educational, high-quality SQL challenges.

Respond with a single JSON object of this shape:
{
  "tableName": string,            // varied, realistic names such as "Products", "LibraryBooks", "FlightBookings"
  "tableSchema": [                // include a primary key; implicit foreign keys are welcome
    {"columnName": string, "dataType": string, "description": string}
  ],
  "sampleData": [ {column: value} ],  // 2-4 realistic rows, keys match columnName, values are string, number, boolean or null
  "problemStatement": string,     // unambiguous question that leads directly to the solution
  "expectedSolution": string,     // one executable SQLite-compatible query, single-quoted string literals, no comments
  "difficulty": string            // echo the requested difficulty exactly
}

Quality rules:
- Use diverse domains (e-commerce, library, social media, HR) and avoid trivial scenarios.
- Vary the number and types of columns.
- Sample rows should illustrate the edge cases that matter at the requested difficulty.
- Every column gets a clear description.

Difficulty constraints:
- Easy: SELECT (specific columns or *), WHERE with simple conditions (>, <, =, LIKE, IN, BETWEEN, IS NULL), ORDER BY, LIMIT. Single table.
  Example: "List the names and prices of products cheaper than $50, ordered by price descending."
- Medium: INNER or LEFT JOIN, aggregates (COUNT, SUM, AVG, MAX, MIN) with GROUP BY and HAVING, non-correlated subqueries. Up to two tables.
  Example: "Find the email addresses of customers who placed more than 3 orders."
- Advanced: multi-table JOINs, correlated subqueries, window functions (ROW_NUMBER, RANK), CTEs, complex aggregation, date or string functions.
  Example: "For each department, identify the employee with the highest salary."

Output rules:
1. The whole output is one valid JSON object.
2. Do not wrap the JSON in markdown fences.
3. Every string value is correctly JSON-escaped: \" for quotes, \\ for backslashes, \n for newlines, \t for tabs, and escapes for other control characters.`

// buildUserMessage names the requested difficulty and output language.
func buildUserMessage(difficulty Difficulty, locale i18n.Locale) string {
	lang := locale.LanguageName()

	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)
	fmt.Fprintf(&b, "Language: %s\n", lang)
	fmt.Fprintf(&b, "\nWrite tableSchema descriptions and problemStatement in %s. ", lang)
	b.WriteString("Keep tableName, columnName and expectedSolution in SQL identifiers as usual.\n")
	fmt.Fprintf(&b, "Generate the SQL problem now. Difficulty: %s. Language: %s.", difficulty, lang)
	return b.String()
}
