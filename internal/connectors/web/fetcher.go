// Package web fetches URLs and extracts their readable text.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "quaero/1.0 (+https://github.com/ferrule-labs/quaero)"

	// maxBodySize bounds how much of a response is read.
	maxBodySize = 10 << 20
)

// Config holds configuration for the web fetcher.
type Config struct {
	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher downloads pages over HTTP and extracts the main article text
// with readability.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a web fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the URL and extracts its main text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*driven.Page, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrInvalidInput, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidInput, parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", domain.ErrExternalService, parsed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d",
			domain.ErrExternalService, parsed, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodySize)
	article, err := readability.FromReader(body, parsed)
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", parsed, err)
	}

	return &driven.Page{
		URL:   parsed.String(),
		Title: article.Title,
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}
