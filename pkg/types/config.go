// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Typographic glyphs used by the book. The extracted text carries them as
// individual runes.
const (
	DefaultOpenQuote  = "\u201c" // “
	DefaultCloseQuote = "\u201d" // ”
	DefaultSourceDash = "\u2014" // —

	// DefaultPrefixLength is the window used by the uppercase-run tests that
	// detect attribution lines.
	DefaultPrefixLength = 5

	// DefaultMinLines is the fewest lines a page can hold: letter, date,
	// title, quote start and one line of look-ahead.
	DefaultMinLines = 5
)

// BookConfig describes the pagination and typography of one edition of the
// book. Page indices are zero-based (PDF page number minus one).
type BookConfig struct {
	// FirstPage is the index of the first daily entry page.
	FirstPage int `json:"first_page" yaml:"first_page"`

	// LastPage is the index of the last daily entry page (inclusive).
	LastPage int `json:"last_page" yaml:"last_page"`

	// SkipPages lists indices inside the range that are not entries
	// (month and part dividers).
	SkipPages []int `json:"skip_pages" yaml:"skip_pages"`

	OpenQuote  string `json:"open_quote" yaml:"open_quote"`
	CloseQuote string `json:"close_quote" yaml:"close_quote"`
	SourceDash string `json:"source_dash" yaml:"source_dash"`

	// PrefixLength is the number of leading characters tested for
	// uppercase when looking for an attribution line.
	PrefixLength int `json:"prefix_length" yaml:"prefix_length"`

	// MinLines is the structural minimum for a page.
	MinLines int `json:"min_lines" yaml:"min_lines"`
}

// DefaultBookConfig returns the layout of the edition the parser was tuned
// against: 366 entries between pages 14 and 392.
func DefaultBookConfig() BookConfig {
	return BookConfig{
		FirstPage: 14,
		LastPage:  392,
		SkipPages: []int{45, 75, 107, 138, 139, 171, 202, 234, 266, 267, 298, 330, 361},

		OpenQuote:    DefaultOpenQuote,
		CloseQuote:   DefaultCloseQuote,
		SourceDash:   DefaultSourceDash,
		PrefixLength: DefaultPrefixLength,
		MinLines:     DefaultMinLines,
	}
}

// Validate reports configuration values the parser cannot work with.
func (c BookConfig) Validate() error {
	if c.FirstPage < 0 {
		return fmt.Errorf("first page %d must not be negative", c.FirstPage)
	}
	if c.LastPage < c.FirstPage {
		return fmt.Errorf("last page %d is before first page %d", c.LastPage, c.FirstPage)
	}
	if c.OpenQuote == "" || c.CloseQuote == "" || c.SourceDash == "" {
		return fmt.Errorf("quote and source glyphs must be set")
	}
	if c.PrefixLength <= 0 {
		return fmt.Errorf("prefix length %d must be positive", c.PrefixLength)
	}
	if c.MinLines < 2 {
		return fmt.Errorf("min lines %d must be at least 2", c.MinLines)
	}
	return nil
}

// IsContentPage reports whether index falls inside the entry range and is
// not listed in SkipPages.
func (c BookConfig) IsContentPage(index int) bool {
	if index < c.FirstPage || index > c.LastPage {
		return false
	}
	for _, p := range c.SkipPages {
		if p == index {
			return false
		}
	}
	return true
}

// FailurePolicy decides what happens to a run when one page is malformed.
type FailurePolicy string

const (
	// FailAbort stops the run at the first malformed page.
	FailAbort FailurePolicy = "abort"
	// FailSkip logs the malformed page and continues with the next one.
	FailSkip FailurePolicy = "skip"
)

// ParseFailurePolicy converts a flag or config value into a FailurePolicy.
// The empty string selects FailAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailAbort:
		return FailAbort, nil
	case FailSkip:
		return FailSkip, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q: use abort or skip", s)
	}
}

// TextBackend identifies the tool that extracts page text from the PDF.
type TextBackend string

const (
	BackendNative    TextBackend = "native"
	BackendPdftotext TextBackend = "pdftotext"
)

// OutputFormat selects the serialization of the parse result.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ParseConfig holds settings for the parse stage.
type ParseConfig struct {
	Book BookConfig `json:"book" yaml:"book"`

	// Backend selects the page text extractor: native or pdftotext.
	Backend TextBackend `json:"backend" yaml:"backend"`

	// OnMalformed is the failure policy for malformed pages.
	OnMalformed FailurePolicy `json:"on_malformed" yaml:"on_malformed"`

	// Output is the path of the result file.
	Output string `json:"output" yaml:"output"`

	// Format is the serialization of the result file.
	Format OutputFormat `json:"format" yaml:"format"`
}

// StoreConfig holds settings for the entry archive.
type StoreConfig struct {
	// Dir is the directory holding the SQLite database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
