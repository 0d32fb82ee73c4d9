// Package filesystem reads local text files into the knowledge base and
// watches directories for new content.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// maxFileSize bounds how large a file may be read.
const maxFileSize = 10 << 20

// textExtensions lists the file extensions treated as plain text.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	".rst":      true,
}

// IsTextFile reports whether the path has a recognised text extension.
func IsTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadFile reads a plain-text file and returns its content with a
// document source reference named after the file.
func ReadFile(path string) (string, domain.SourceRef, error) {
	var ref domain.SourceRef

	info, err := os.Stat(path)
	if err != nil {
		return "", ref, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", ref, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > maxFileSize {
		return "", ref, fmt.Errorf("%w: %s exceeds the %d byte limit",
			domain.ErrInvalidInput, path, maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ref, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", ref, fmt.Errorf("%w: %s is not valid UTF-8 text",
			domain.ErrInvalidInput, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	ref = domain.SourceRef{
		ID:    abs,
		Kind:  domain.SourceKindDocument,
		Title: filepath.Base(path),
	}
	return string(data), ref, nil
}
