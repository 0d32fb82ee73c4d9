package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// This is the raw provider contract: one call maps to one network
// request and no rate limiting or retrying happens here. The core's
// Embedder client wraps an EmbeddingService with the interval/backoff
// discipline and sub-batch grouping.
//
// Implementations may include:
//   - Mistral (mistral-embed)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// EmbedBatch generates embeddings for the given texts in one API
	// call. The result is aligned by position with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1024, 1536).
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to ingestion.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
