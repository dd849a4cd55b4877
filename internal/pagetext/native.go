// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagetext

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// spaceGap is the horizontal gap, as a fraction of the font size, above
// which two text runs on the same row are separated by a space.
const spaceGap = 0.15

// baselineShift is the vertical move, as a fraction of the font size, that
// ends a line. Smaller moves are superscripts such as ordinal suffixes.
const baselineShift = 0.5

// PDFSource reads page text with the pure Go ledongthuc/pdf reader.
type PDFSource struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens the document at path.
func OpenPDF(path string) (*PDFSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &PDFSource{file: f, reader: r}, nil
}

func (s *PDFSource) NumPages() int {
	return s.reader.NumPage()
}

func (s *PDFSource) PageText(ctx context.Context, index int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkIndex(index, s.NumPages()); err != nil {
		return "", err
	}

	page := s.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return streamToText(page.Content().Text), nil
}

func (s *PDFSource) Close() error {
	return s.file.Close()
}

// streamToText renders text runs in content stream order, starting a new
// line whenever the baseline moves by more than half the font size. Stream
// order keeps a drop cap ahead of the lines it is drawn beside.
func streamToText(texts []pdf.Text) string {
	var (
		b       strings.Builder
		prev    pdf.Text
		end     float64
		started bool
	)
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if started && newLine(prev, t) {
			b.WriteByte('\n')
			started = false
		}
		if started && t.X-end > t.FontSize*spaceGap &&
			!strings.HasPrefix(t.S, " ") && !strings.HasSuffix(prev.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prev, end, started = t, t.X+t.W, true
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

func newLine(prev, t pdf.Text) bool {
	return math.Abs(t.Y-prev.Y) > math.Max(prev.FontSize, t.FontSize)*baselineShift
}
