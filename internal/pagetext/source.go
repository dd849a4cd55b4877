// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagetext supplies the plain text of individual PDF pages. Two
// backends exist: a pure Go reader and the poppler pdftotext tool.
package pagetext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/stoic-log/pkg/types"
)

// Source yields the text of each page of one document. Page indices are
// zero-based.
type Source interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageText returns the text of the page at index, one visual line per
	// text line, top to bottom.
	PageText(ctx context.Context, index int) (string, error)

	// Close releases the document.
	Close() error
}

// Open opens the PDF at path with the named backend. An empty backend
// selects the native reader.
func Open(backend types.TextBackend, path string) (Source, error) {
	switch backend {
	case "", types.BackendNative:
		return OpenPDF(path)
	case types.BackendPdftotext:
		return OpenPdftotext(path)
	default:
		return nil, fmt.Errorf("unknown text backend %q: use native or pdftotext", backend)
	}
}

// FindPDFs returns the PDF files in dir, sorted by name.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// ResolvePDF returns path itself when it is a file, or the first PDF in it
// when it is a directory.
func ResolvePDF(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("locating book: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	pdfs, err := FindPDFs(path)
	if err != nil {
		return "", err
	}
	if len(pdfs) == 0 {
		return "", fmt.Errorf("no PDF files in %s", path)
	}
	return pdfs[0], nil
}

func checkIndex(index, numPages int) error {
	if index < 0 || index >= numPages {
		return fmt.Errorf("page index %d out of range (document has %d pages)", index, numPages)
	}
	return nil
}
