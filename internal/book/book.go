// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package book walks the entry pages of the book and collects the segmented
// entries keyed by date.
package book

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/stoic-log/internal/segment"
	"github.com/pdiddy/stoic-log/pkg/types"
)

// Pages yields the text of a document's pages by zero-based index.
// pagetext.Source implements it.
type Pages interface {
	NumPages() int
	PageText(ctx context.Context, index int) (string, error)
}

// Result holds the entries and counters of one parse run.
type Result struct {
	// Entries maps date to entry in page order.
	Entries *types.Entries

	Parsed     int
	Skipped    int
	Failed     int
	Duplicates int

	// Failures holds the malformed page errors absorbed under FailSkip.
	Failures []error
}

// Total returns the number of pages visited in the configured range.
func (r Result) Total() int {
	return r.Parsed + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed segmentation.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// WriteSummary prints the run counters to w.
func (r Result) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Parse summary: %d entries, %d parsed, %d skipped, %d failed, %d duplicate dates (pages visited: %d)\n",
		r.Entries.Len(), r.Parsed, r.Skipped, r.Failed, r.Duplicates, r.Total())
}

// Parse segments every content page in cfg.Book's range. Pages in the skip
// list are not read. A malformed page aborts the run or is logged and
// counted, depending on cfg.OnMalformed. Errors from src always abort.
func Parse(ctx context.Context, src Pages, cfg types.ParseConfig, log zerolog.Logger) (Result, error) {
	res := Result{Entries: types.NewEntries()}

	if err := cfg.Book.Validate(); err != nil {
		return res, fmt.Errorf("invalid book config: %w", err)
	}
	policy, err := types.ParseFailurePolicy(string(cfg.OnMalformed))
	if err != nil {
		return res, err
	}

	seg := segment.New(cfg.Book)
	numPages := src.NumPages()

	for index := cfg.Book.FirstPage; index <= cfg.Book.LastPage; index++ {
		if index >= numPages {
			log.Warn().Int("page", index).Int("pages", numPages).
				Msg("document ends before the last configured page")
			break
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if !cfg.Book.IsContentPage(index) {
			log.Debug().Int("page", index).Msg("skipping non-content page")
			res.Skipped++
			continue
		}

		text, err := src.PageText(ctx, index)
		if err != nil {
			return res, fmt.Errorf("reading page %d: %w", index, err)
		}

		entry, err := seg.SegmentPage(index, text)
		if err != nil {
			if policy == types.FailSkip && errors.Is(err, segment.ErrMalformedPage) {
				log.Warn().Err(err).Int("page", index).Msg("skipping malformed page")
				res.Failed++
				res.Failures = append(res.Failures, err)
				continue
			}
			return res, err
		}

		if res.Entries.Add(entry) {
			log.Warn().Int("page", index).Str("date", entry.Date).
				Msg("date already parsed from an earlier page; check the page range")
			res.Duplicates++
		}
		res.Parsed++
		log.Debug().Int("page", index).Str("date", entry.Date).Str("title", entry.Title).Msg("parsed")
	}

	return res, nil
}
