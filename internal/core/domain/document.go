package domain

import "time"

// SourceKind identifies the origin category of ingested content.
type SourceKind string

// Available source kinds.
const (
	// SourceKindURL is content scraped from a web page.
	SourceKindURL SourceKind = "url"

	// SourceKindDocument is content handed over as a document or raw text.
	SourceKindDocument SourceKind = "document"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindURL, SourceKindDocument:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// SourceRef identifies where a chunk of text came from.
// It is carried through the whole pipeline and surfaces in citations.
type SourceRef struct {
	// ID is the origin identifier: a URL for scraped pages,
	// a file path or document name otherwise.
	ID string

	// Kind categorises the origin.
	Kind SourceKind

	// Title is an optional human-readable title for the origin.
	Title string
}

// Chunk represents a bounded span of ingested text.
// Chunks are immutable once created.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the chunk's content.
	Text string

	// Source identifies the origin of the text.
	Source SourceRef

	// Sequence is the ordinal position within the source,
	// starting at 0. It preserves the original text order.
	Sequence int

	// CreatedAt is when the chunk was produced.
	CreatedAt time.Time
}

// IndexEntry pairs a chunk with its embedding vector.
// The vector's length must match the index's configured dimension.
type IndexEntry struct {
	// Chunk is the embedded text span.
	Chunk Chunk

	// Vector is the fixed-dimension embedding. Computed once, never mutated.
	Vector []float32
}

// Source records an ingested origin for the stats surface.
type Source struct {
	// ID is the origin identifier (URL or document name).
	ID string

	// Kind categorises the origin.
	Kind SourceKind

	// Title is the human-readable title, if known.
	Title string

	// ChunkCount is how many chunks this source contributed.
	ChunkCount int

	// IngestedAt is when the source was last ingested.
	IngestedAt time.Time
}
