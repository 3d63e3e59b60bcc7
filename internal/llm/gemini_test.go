package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash-preview-04-17"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tableName":  map[string]any{"type": "string"},
			"rowCount":   map[string]any{"type": "integer"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"Easy", "Medium", "Advanced"}},
			"counts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"tableName", "rowCount"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["tableName"].Type != "STRING" {
		t.Fatalf("expected STRING for tableName, got %s", schema.Properties["tableName"].Type)
	}
	if schema.Properties["rowCount"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for rowCount, got %s", schema.Properties["rowCount"].Type)
	}
	if len(schema.Properties["difficulty"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["difficulty"].Enum))
	}
	if schema.Properties["counts"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for counts, got %s", schema.Properties["counts"].Type)
	}
	if schema.Properties["counts"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for counts items, got %s", schema.Properties["counts"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiSchema_DropsFreeFormObjects(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tableName": map[string]any{"type": "string"},
			"sampleData": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
		"required": []string{"tableName", "sampleData"},
	}

	schema := buildGeminiSchema(def)
	if _, ok := schema.Properties["sampleData"]; ok {
		t.Fatal("free-form sampleData must be dropped")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "tableName" {
		t.Fatalf("required = %v, want [tableName]", schema.Required)
	}
}
