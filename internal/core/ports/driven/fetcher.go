package driven

import "context"

// Page is the extracted content of a fetched URL.
type Page struct {
	// URL is the fetched location.
	URL string

	// Title is the page title, if one could be determined.
	Title string

	// Text is the extracted main content as plain text.
	Text string
}

// Fetcher retrieves a URL and extracts its readable text content.
// Optional: without it, URL ingestion is disabled.
type Fetcher interface {
	// Fetch downloads the URL and extracts its main text.
	Fetch(ctx context.Context, url string) (*Page, error)
}
