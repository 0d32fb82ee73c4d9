package driving

import (
	"context"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// IngestService feeds new content into the knowledge base.
type IngestService interface {
	// Ingest chunks the text, embeds the chunks and stores them in the
	// vector index. Returns the number of chunks added. Failures leave
	// the index untouched; an ingestion is all-or-nothing.
	Ingest(ctx context.Context, text string, ref domain.SourceRef) (int, error)

	// IngestURL fetches the URL, extracts its readable text and
	// ingests it with a url-kind source reference.
	IngestURL(ctx context.Context, url string) (int, error)
}
