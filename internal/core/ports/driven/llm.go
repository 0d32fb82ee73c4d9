package driven

import "context"

// LLMService generates answer text from a composed prompt.
//
// Like EmbeddingService this is the raw provider contract: one call,
// one network request. The core's Generator client adds rate limiting
// and retries.
//
// Implementations may include:
//   - Mistral (mistral-large-latest)
//   - OpenAI (gpt-4o-mini)
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
