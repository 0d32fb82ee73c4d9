// Package chunker splits ingested text into overlapping, ordered windows.
package chunker

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// DefaultSize is the default number of characters per chunk.
const DefaultSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Chunker splits text into fixed-size windows with overlap.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below the chunk size or windows never advance.
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Split cuts text into ordered chunks carrying the source reference.
// Chunk i starts at i*(size-overlap); the final chunk may be shorter
// than size. Sequence numbers start at 0 and increase monotonically,
// so the original order can be reconstructed later. Empty input yields
// no chunks.
func (c *Chunker) Split(text string, ref domain.SourceRef) []domain.Chunk {
	if text == "" {
		return nil
	}

	step := c.size - c.overlap
	estimated := len(text)/step + 1
	chunks := make([]domain.Chunk, 0, estimated)

	now := time.Now()
	for start, seq := 0, 0; start < len(text); start, seq = start+step, seq+1 {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, domain.Chunk{
			ID:        uuid.New().String(),
			Text:      text[start:end],
			Source:    ref,
			Sequence:  seq,
			CreatedAt: now,
		})
	}

	return chunks
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}
