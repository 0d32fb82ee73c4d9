// Package domain defines the core business entities for Quaero.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded span of ingested text with provenance metadata
//   - IndexEntry: A chunk paired with its embedding vector
//   - Retrieved: A transient similarity-search hit
//   - Answer / Citation: The result of a RAG query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
