package problemgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated problem. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Sampling parameters.
	Temperature float64
	TopP        float64
	TopK        int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&SchemaValidator{},
			&DifficultyValidator{},
		},
		MaxTokens:   2048,
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	}
}
