package problemgen

import (
	"fmt"
	"strings"
)

// Difficulty is the level a problem is generated for.
type Difficulty string

const (
	Easy     Difficulty = "Easy"
	Medium   Difficulty = "Medium"
	Advanced Difficulty = "Advanced"
)

// Difficulties lists every level in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Advanced}
}

// ParseDifficulty resolves s case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

func (d Difficulty) String() string { return string(d) }

// Column describes one column of the problem table.
type Column struct {
	ColumnName  string `json:"columnName"`
	DataType    string `json:"dataType"`
	Description string `json:"description,omitempty"`
}

// Problem is a generated SQL exercise ready for display.
type Problem struct {
	// ID correlates activity events for one problem. Not part of the
	// generated payload.
	ID string `json:"-"`

	// TableName is the table the learner queries, e.g. "LibraryBooks".
	TableName string `json:"tableName"`

	// Schema lists the table columns. Never empty.
	Schema []Column `json:"tableSchema"`

	// SampleRows holds illustrative rows keyed by column name. Optional.
	SampleRows []map[string]any `json:"sampleData,omitempty"`

	// Statement is the question in the requested language.
	Statement string `json:"problemStatement"`

	// ExpectedSolution is the reference query. Never shown before a
	// correct submission.
	ExpectedSolution string `json:"expectedSolution"`

	// Difficulty is the level the generator reports. It decides the reward
	// even when it differs from the requested level.
	Difficulty Difficulty `json:"difficulty"`
}

// ColumnNames returns the schema column names in order.
func (p *Problem) ColumnNames() []string {
	names := make([]string, len(p.Schema))
	for i, c := range p.Schema {
		names[i] = c.ColumnName
	}
	return names
}
