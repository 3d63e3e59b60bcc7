package problemgen

import (
	"fmt"
	"strings"
)

// StructuralValidator checks that every required field is present.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem, _ Difficulty) *ValidationError {
	missing := func(field string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: field + " is missing"}
	}
	switch {
	case strings.TrimSpace(p.TableName) == "":
		return missing("tableName")
	case p.Schema == nil:
		return missing("tableSchema")
	case strings.TrimSpace(p.Statement) == "":
		return missing("problemStatement")
	case strings.TrimSpace(p.ExpectedSolution) == "":
		return missing("expectedSolution")
	case p.Difficulty == "":
		return missing("difficulty")
	}
	return nil
}

// SchemaValidator checks that the column list is usable.
type SchemaValidator struct{}

func (v *SchemaValidator) Name() string { return "schema" }

func (v *SchemaValidator) Validate(p *Problem, _ Difficulty) *ValidationError {
	if len(p.Schema) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "tableSchema has no columns"}
	}
	for i, c := range p.Schema {
		if strings.TrimSpace(c.ColumnName) == "" || strings.TrimSpace(c.DataType) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("column %d needs both columnName and dataType", i),
			}
		}
	}
	return nil
}

// DifficultyValidator rejects unknown difficulty labels and normalizes
// known ones to their canonical casing. A known label that differs from the
// requested one passes; the generator logs it.
type DifficultyValidator struct{}

func (v *DifficultyValidator) Name() string { return "difficulty" }

func (v *DifficultyValidator) Validate(p *Problem, _ Difficulty) *ValidationError {
	d, err := ParseDifficulty(string(p.Difficulty))
	if err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	p.Difficulty = d
	return nil
}
