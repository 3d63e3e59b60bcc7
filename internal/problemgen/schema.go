package problemgen

import "github.com/abhisek/sqlpad/internal/llm"

// ProblemSchema defines the JSON schema for LLM problem generation responses.
// Sample rows are free-form objects, so the schema is not strict.
var ProblemSchema = &llm.Schema{
	Name:        "sql-problem",
	Description: "A single SQL practice problem with table schema, sample rows and reference solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tableName": map[string]any{
				"type":        "string",
				"description": "Name of the table the problem queries",
			},
			"tableSchema": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"columnName":  map[string]any{"type": "string"},
						"dataType":    map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required": []any{"columnName", "dataType"},
				},
				"description": "Columns of the table",
			},
			"sampleData": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
				},
				"description": "2-4 illustrative rows keyed by column name",
			},
			"problemStatement": map[string]any{
				"type":        "string",
				"description": "The question the learner answers with a query",
			},
			"expectedSolution": map[string]any{
				"type":        "string",
				"description": "A single executable SQLite-compatible query solving the problem",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"description": "Echo of the requested difficulty: Easy, Medium or Advanced",
			},
		},
		"required": []any{"tableName", "tableSchema", "problemStatement", "expectedSolution", "difficulty"},
	},
}
