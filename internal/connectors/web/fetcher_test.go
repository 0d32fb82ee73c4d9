package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>The Capital of France</title></head>
<body>
<article>
<h1>The Capital of France</h1>
<p>Paris is the capital and largest city of France. It has been one of
Europe's major centres of finance, diplomacy, commerce, culture and
science since the seventeenth century.</p>
<p>The city proper has an estimated population of over two million
residents, with its metropolitan area being one of the most populous
in the European Union.</p>
</article>
</body>
</html>`

func TestFetch_ExtractsTitleAndText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, page.URL)
	assert.Contains(t, page.Title, "Capital of France")
	assert.Contains(t, page.Text, "Paris is the capital")
	// Markup is stripped from the extracted text.
	assert.NotContains(t, page.Text, "<p>")
}

func TestFetch_InvalidURL(t *testing.T) {
	fetcher := NewFetcher(Config{})

	_, err := fetcher.Fetch(context.Background(), "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fetcher.Fetch(context.Background(), "ftp://example.com/file")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, domain.ErrExternalService)
}
