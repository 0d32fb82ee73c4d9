// Package sqlite provides the SQLite-backed source registry.
//
// The registry records which origins have been ingested and how many
// chunks each contributed. It backs the stats surface only; the
// searchable content lives in the vector index.
package sqlite
