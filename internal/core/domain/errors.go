package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimitExceeded indicates an external client exhausted its
	// retry budget. Retryable from the caller's point of view.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrExternalService indicates an external API call failed
	// irrecoverably, distinct from rate-limit exhaustion.
	ErrExternalService = errors.New("external service error")

	// ErrDimensionMismatch indicates a vector's size disagrees with the
	// index's configured dimension. The offending add is rejected whole.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be ingested or asked without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	// Retrieval still works; answer composition is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
