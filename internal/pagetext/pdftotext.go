// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagetext

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	binPdftotext = "pdftotext"
	binPdfinfo   = "pdfinfo"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var defaultExec executor = &osExecutor{}

// PdftotextSource extracts page text by running poppler's pdftotext once
// per page. The page count comes from pdfinfo.
type PdftotextSource struct {
	path     string
	numPages int
	exec     executor
}

// OpenPdftotext checks that the poppler tools are installed and reads the
// page count of the document at path.
func OpenPdftotext(path string) (*PdftotextSource, error) {
	return openPdftotext(context.Background(), defaultExec, path)
}

func openPdftotext(ctx context.Context, exec executor, path string) (*PdftotextSource, error) {
	for _, bin := range []string{binPdftotext, binPdfinfo} {
		if _, err := exec.LookPath(bin); err != nil {
			return nil, fmt.Errorf("%s not found on PATH: %w", bin, err)
		}
	}

	out, err := exec.Output(ctx, binPdfinfo, path)
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", binPdfinfo, path, err)
	}
	n, err := parsePageCount(out)
	if err != nil {
		return nil, fmt.Errorf("reading page count of %s: %w", path, err)
	}

	return &PdftotextSource{path: path, numPages: n, exec: exec}, nil
}

func (s *PdftotextSource) NumPages() int {
	return s.numPages
}

func (s *PdftotextSource) PageText(ctx context.Context, index int) (string, error) {
	if err := checkIndex(index, s.numPages); err != nil {
		return "", err
	}

	page := strconv.Itoa(index + 1)
	out, err := s.exec.Output(ctx, binPdftotext, "-f", page, "-l", page, "-enc", "UTF-8", s.path, "-")
	if err != nil {
		return "", fmt.Errorf("running %s on page %d: %w", binPdftotext, index, err)
	}
	// pdftotext ends every page with a form feed.
	return strings.TrimSuffix(string(out), "\f"), nil
}

func (s *PdftotextSource) Close() error {
	return nil
}

// parsePageCount finds the "Pages:" line of pdfinfo output.
func parsePageCount(out []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Pages" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("parsing %q: %w", value, err)
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no Pages line in pdfinfo output")
}
