// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits the text of one book page into the fields of a
// daily entry: date, title, quote, quote source and explanation.
//
// Segmentation runs in two stages. ParseHeader reads the lead letter, the
// date and the capitalised title from the top of the page. ParseBody walks
// the remaining lines and separates the quote, its attribution and the
// explanation, recovering from missing quotation marks and dashes with an
// uppercase-run heuristic.
package segment

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/stoic-log/pkg/types"
)

// ordinalSuffixLen is the length of "st", "nd", "rd" and "th".
const ordinalSuffixLen = 2

// Header is the top of a page: everything before the quote.
type Header struct {
	// LeadChar is the explanation's first letter, typeset apart from the
	// paragraph. It may carry a decorative quotation mark and is empty
	// when the page does not separate it.
	LeadChar string

	Date  string
	Title string

	// Remaining holds the lines following the title, untrimmed.
	Remaining []string
}

// Body is the quote, attribution and commentary of a page.
type Body struct {
	Quote       string
	QuoteSource string
	Explanation string
}

// Segmenter applies the page heuristics for one edition of the book. It
// holds only configuration and is safe for concurrent use.
type Segmenter struct {
	openQuote  string
	closeQuote string
	sourceDash string
	prefixLen  int
	minLines   int
}

// New returns a Segmenter for the glyphs and thresholds in cfg. Zero values
// fall back to the defaults in the types package.
func New(cfg types.BookConfig) *Segmenter {
	def := types.DefaultBookConfig()
	s := &Segmenter{
		openQuote:  cfg.OpenQuote,
		closeQuote: cfg.CloseQuote,
		sourceDash: cfg.SourceDash,
		prefixLen:  cfg.PrefixLength,
		minLines:   cfg.MinLines,
	}
	if s.openQuote == "" {
		s.openQuote = def.OpenQuote
	}
	if s.closeQuote == "" {
		s.closeQuote = def.CloseQuote
	}
	if s.sourceDash == "" {
		s.sourceDash = def.SourceDash
	}
	if s.prefixLen <= 0 {
		s.prefixLen = def.PrefixLength
	}
	if s.minLines <= 0 {
		s.minLines = def.MinLines
	}
	return s
}

// Default returns a Segmenter for the default edition.
func Default() *Segmenter {
	return New(types.DefaultBookConfig())
}

// SplitLines turns extracted page text into lines. Tabs become single
// spaces and both "\n" and "\r\n" end a line. Lines are not trimmed.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// SegmentPage segments the extracted text of the page at index page. A
// MalformedPageError carries the page index.
func (s *Segmenter) SegmentPage(page int, text string) (types.Entry, error) {
	e, err := s.Segment(SplitLines(text))
	if err != nil {
		var mpe *MalformedPageError
		if errors.As(err, &mpe) {
			mpe.Page = page
		}
		return types.Entry{}, err
	}
	return e, nil
}

// Segment splits the lines of one page into an Entry. It returns a
// *MalformedPageError, and no entry, when the page lacks the structure of a
// daily entry.
func (s *Segmenter) Segment(lines []string) (types.Entry, error) {
	h, err := s.ParseHeader(lines)
	if err != nil {
		return types.Entry{}, err
	}
	b, err := s.ParseBody(h.LeadChar, h.Remaining)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Date:        h.Date,
		Title:       h.Title,
		Quote:       b.Quote,
		QuoteSource: b.QuoteSource,
		Explanation: b.Explanation,
	}, nil
}

// ParseHeader extracts the lead letter, date and title from the top of a
// page.
func (s *Segmenter) ParseHeader(lines []string) (Header, error) {
	if len(lines) < s.minLines {
		return Header{}, malformed("%d lines, need at least %d", len(lines), s.minLines)
	}

	var h Header
	i := 0

	// A one or two character first line is the detached first letter of
	// the explanation, sometimes preceded by a quotation mark.
	if n := utf8.RuneCountInString(strings.TrimSpace(lines[i])); n == 1 || n == 2 {
		h.LeadChar = strings.TrimSpace(lines[i])
		i++
	}
	if i >= len(lines) {
		return Header{}, malformed("no date line")
	}

	date := []rune(strings.TrimSpace(lines[i]))
	if len(date) <= ordinalSuffixLen {
		return Header{}, malformed("date line %q too short", lines[i])
	}
	h.Date = string(date[:len(date)-ordinalSuffixLen])
	i++

	// Long titles wrap over several lines, split anywhere.
	var title strings.Builder
	for ; i < len(lines) && isUpper(lines[i]); i++ {
		title.WriteString(lines[i])
	}
	if i >= len(lines) {
		return Header{}, malformed("title runs to the end of the page")
	}
	h.Title = strings.TrimSpace(title.String())
	h.Remaining = lines[i:]

	return h, nil
}

// ParseBody separates the quote, quote source and explanation. leadChar is
// prepended to the explanation.
func (s *Segmenter) ParseBody(leadChar string, lines []string) (Body, error) {
	var (
		quoteLines       []string
		explanationLines []string
		quoteFound       bool
		sourceFound      bool
		b                Body
	)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if !quoteFound {
			if line == "" {
				return Body{}, malformed("blank line inside quote")
			}
			quoteLines = append(quoteLines, line)
			if i+1 >= len(lines) {
				return Body{}, malformed("quote has no following line")
			}
			next := strings.TrimSpace(lines[i+1])
			if next == "" && !strings.HasSuffix(line, s.closeQuote) {
				return Body{}, malformed("blank line after unfinished quote")
			}
			quoteFound = s.IsEndOfQuote(line, next)
			continue
		}

		// Blank lines are only tolerated once the attribution is found.
		if !sourceFound && line == "" {
			return Body{}, malformed("blank line before quote source")
		}
		if !sourceFound && s.isSourceLine(line) {
			// The dash is sometimes lost in extraction; put it back.
			b.QuoteSource = strings.TrimSpace(s.sourceDash + strings.TrimPrefix(line, s.sourceDash))
			sourceFound = true
			continue
		}

		explanationLines = append(explanationLines, line)
	}

	if !sourceFound {
		return Body{}, malformed("no quote source line")
	}

	b.Quote = s.ApplyQuotes(strings.TrimSpace(strings.Join(quoteLines, " ")))
	b.Explanation = strings.TrimSpace(leadChar + strings.Join(explanationLines, " "))
	return b, nil
}

// IsEndOfQuote reports whether line closes the quote. It does when line ends
// with the closing quotation mark, or when next looks like an attribution:
// a dash followed by capitals, or capitals alone.
func (s *Segmenter) IsEndOfQuote(line, next string) bool {
	if strings.HasSuffix(line, s.closeQuote) {
		return true
	}
	if rest, ok := strings.CutPrefix(next, s.sourceDash); ok && isUpper(prefix(rest, s.prefixLen)) {
		return true
	}
	return isUpper(prefix(next, s.prefixLen))
}

func (s *Segmenter) isSourceLine(line string) bool {
	return strings.HasPrefix(line, s.sourceDash) || isUpper(prefix(line, s.prefixLen))
}

// ApplyQuotes wraps quote in opening and closing quotation marks, adding
// only the ones that are missing.
func (s *Segmenter) ApplyQuotes(quote string) string {
	if !strings.HasPrefix(quote, s.openQuote) {
		quote = s.openQuote + quote
	}
	if !strings.HasSuffix(quote, s.closeQuote) {
		quote += s.closeQuote
	}
	return quote
}

// isUpper reports whether s has at least one cased letter and no lowercase
// or titlecase letters. Digits, spaces and punctuation are ignored.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
