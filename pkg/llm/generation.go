package llm

// GenerationConfig holds the sampling parameters sent upstream.
type GenerationConfig struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultGeneration returns the sampling parameters used for every call.
func DefaultGeneration() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 8192,
	}
}
