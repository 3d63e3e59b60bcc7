package hints

// Config controls hint generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int
}

// DefaultConfig returns the recommended hint sampling.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.6,
		TopP:        0.9,
		TopK:        30,
	}
}
