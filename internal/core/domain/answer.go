package domain

import "time"

// Retrieved is a single similarity-search hit. It is produced
// transiently per query and never persisted.
type Retrieved struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity against the query vector.
	Score float64

	// Rank is the position in the result list, starting at 0.
	Rank int
}

// Citation is a deduplicated reference to the origin of retrieved
// content. One citation per source, carrying the best matching score.
type Citation struct {
	// Source identifies the cited origin.
	Source SourceRef

	// Score is the maximum similarity any of the source's chunks achieved.
	Score float64
}

// NoKnowledgeAnswer is returned when a question is asked before
// anything has been ingested. The generation model is not invoked.
const NoKnowledgeAnswer = "I don't have any ingested knowledge yet. " +
	"Ingest some documents or URLs first."

// Answer is the result of a RAG query.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Citations reference the retrieved sources, best score first.
	Citations []Citation

	// NoKnowledge is true when the knowledge base was empty and the
	// answer is the distinguished no-knowledge response.
	NoKnowledge bool
}

// IndexStats describes the state of the vector index.
type IndexStats struct {
	// Entries is the number of stored (chunk, vector) pairs.
	Entries int

	// Dimensions is the configured vector dimension.
	Dimensions int

	// LastPersisted is when the index was last written to disk.
	// Zero if the index has never been persisted by this process.
	LastPersisted time.Time

	// Path is the on-disk location of the index file.
	Path string
}

// ClientStats holds per-external-API call counters.
// Observability only; no behavioural contract.
type ClientStats struct {
	// Calls is the number of admitted API calls.
	Calls int64

	// Retries is the number of failure-triggered retries.
	Retries int64

	// ConsecutiveFailures is the current unbroken failure streak.
	ConsecutiveFailures int
}

// Stats aggregates the read-only observability surface.
type Stats struct {
	// Index describes the vector index.
	Index IndexStats

	// Sources is the number of distinct ingested sources.
	Sources int

	// Embedding holds the embedding client's call counters.
	Embedding ClientStats

	// Generation holds the generation client's call counters.
	Generation ClientStats
}
