// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Generates vector embeddings (raw provider, no
//     rate limiting; the core's Embedder client adds the discipline)
//   - LLMService: Generates answer text (raw provider, same deal)
//   - VectorIndex: Durable (chunk, vector) storage + similarity search
//   - SourceStore: Ingested-source registry
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Fetcher: URL content extraction. Without it, only text and file
//     ingestion are available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
