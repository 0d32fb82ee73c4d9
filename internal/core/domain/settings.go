package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderMistral is the Mistral cloud API.
	AIProviderMistral AIProvider = "mistral"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderMistral, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderMistral || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderMistral:
		return "Mistral (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// ClientSettings holds the rate-limit and retry discipline for one
// external API. Each client owns an independent copy.
type ClientSettings struct {
	// MinInterval is the minimum time between calls.
	MinInterval time.Duration

	// BaseDelay is the starting backoff delay after a failure.
	// Doubles with every consecutive failure.
	BaseDelay time.Duration

	// MaxRetries is the number of consecutive failures tolerated
	// before the client gives up.
	MaxRetries int
}

// Validate checks the client settings for consistency.
func (c ClientSettings) Validate() error {
	if c.MinInterval < 0 {
		return fmt.Errorf("%w: min interval must not be negative", ErrInvalidInput)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("%w: base delay must not be negative", ErrInvalidInput)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidInput)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for Mistral/OpenAI).
	APIKey string

	// Dimensions is the embedding vector size produced by the model.
	Dimensions int

	// BatchSize caps how many texts go into one API call.
	BatchSize int

	// Client is the rate-limit discipline for the embedding API.
	Client ClientSettings
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for compatible APIs).
	BaseURL string

	// APIKey is the API key (for Mistral/OpenAI).
	APIKey string

	// Client is the rate-limit discipline for the generation API.
	Client ClientSettings
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds text splitting configuration.
type ChunkingSettings struct {
	// Size is the chunk window length in characters.
	Size int

	// Overlap is how many trailing characters each chunk shares
	// with the next one. Must be smaller than Size.
	Overlap int
}

// Validate checks the chunking settings for consistency.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap must be in [0, chunk size)", ErrInvalidInput)
	}
	return nil
}

// RetrievalSettings holds query-time configuration.
type RetrievalSettings struct {
	// TopK is how many chunks to retrieve per query.
	TopK int

	// MaxContextLength caps the assembled context in characters.
	// Lowest-scored chunks are dropped first once the budget is hit.
	MaxContextLength int
}

// Validate checks the retrieval settings for consistency.
func (r RetrievalSettings) Validate() error {
	if r.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive", ErrInvalidInput)
	}
	if r.MaxContextLength <= 0 {
		return fmt.Errorf("%w: max context length must be positive", ErrInvalidInput)
	}
	return nil
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds generation provider settings.
	LLM LLMSettings

	// Chunking holds text splitting settings.
	Chunking ChunkingSettings

	// Retrieval holds query-time settings.
	Retrieval RetrievalSettings

	// IndexPath is the on-disk location of the vector index file.
	// Empty means the default under the data directory.
	IndexPath string
}

// Validate checks all settings for consistency.
func (s AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if err := s.Retrieval.Validate(); err != nil {
		return err
	}
	if err := s.Embedding.Client.Validate(); err != nil {
		return err
	}
	if err := s.LLM.Client.Validate(); err != nil {
		return err
	}
	if s.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidInput)
	}
	if s.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch size must be positive", ErrInvalidInput)
	}
	return nil
}

// DefaultSettings returns the settings used when nothing is configured.
// The defaults target Mistral: mistral-embed vectors are 1024-wide and
// the free tier tolerates roughly one embedding call per second.
func DefaultSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderMistral,
			Model:      "mistral-embed",
			Dimensions: 1024,
			BatchSize:  20,
			Client: ClientSettings{
				MinInterval: time.Second,
				BaseDelay:   2 * time.Second,
				MaxRetries:  2,
			},
		},
		LLM: LLMSettings{
			Provider: AIProviderMistral,
			Model:    "mistral-large-latest",
			Client: ClientSettings{
				MinInterval: 2 * time.Second,
				BaseDelay:   5 * time.Second,
				MaxRetries:  3,
			},
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK:             5,
			MaxContextLength: 8000,
		},
	}
}
