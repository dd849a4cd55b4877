// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package book

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/stoic-log/internal/segment"
	"github.com/pdiddy/stoic-log/pkg/types"
)

// fakePages serves canned page text.
type fakePages struct {
	pages map[int]string
	n     int
	err   map[int]error
	reads []int
}

func (f *fakePages) NumPages() int { return f.n }

func (f *fakePages) PageText(ctx context.Context, index int) (string, error) {
	f.reads = append(f.reads, index)
	if err, ok := f.err[index]; ok {
		return "", err
	}
	return f.pages[index], nil
}

func ordinal(day int) string {
	switch {
	case day%100 >= 11 && day%100 <= 13:
		return "th"
	case day%10 == 1:
		return "st"
	case day%10 == 2:
		return "nd"
	case day%10 == 3:
		return "rd"
	}
	return "th"
}

func entryPage(day time.Time) string {
	return fmt.Sprintf("T\n%s %d%s\nTITLE OF %s %d\n“Quote for the day\nends here.”\n—MARCUS AURELIUS, MEDITATIONS, %d.%d\nhe explanation.\n",
		day.Format("January"), day.Day(), ordinal(day.Day()),
		strings.ToUpper(day.Format("January")), day.Day(), int(day.Month()), day.Day())
}

// stoicBook lays out a leap year over the default page range, with divider
// pages at every skip index.
func stoicBook(t *testing.T) *fakePages {
	t.Helper()
	cfg := types.DefaultBookConfig()
	book := &fakePages{pages: make(map[int]string), n: cfg.LastPage + 26}

	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < book.n; i++ {
		switch {
		case cfg.IsContentPage(i):
			book.pages[i] = entryPage(day)
			day = day.AddDate(0, 0, 1)
		default:
			book.pages[i] = "PART I\nTHE DISCIPLINE OF PERCEPTION\n"
		}
	}
	return book
}

func defaultConfig() types.ParseConfig {
	return types.ParseConfig{Book: types.DefaultBookConfig()}
}

func TestParse_FullYear(t *testing.T) {
	src := stoicBook(t)

	res, err := Parse(context.Background(), src, defaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, 366, res.Entries.Len())
	assert.Equal(t, 366, res.Parsed)
	assert.Equal(t, 13, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.False(t, res.HasFailures())
	assert.Equal(t, 379, res.Total())

	dates := res.Entries.Dates()
	assert.Equal(t, "January 1", dates[0])
	assert.Equal(t, "January 31", dates[30])
	assert.Equal(t, "February 29", dates[59])
	assert.Equal(t, "March 1", dates[60])
	assert.Equal(t, "July 29", dates[210])
	assert.Equal(t, "December 31", dates[365])

	jan1, ok := res.Entries.Get("January 1")
	require.True(t, ok)
	assert.Equal(t, "TITLE OF JANUARY 1", jan1.Title)
	assert.Equal(t, "“Quote for the day ends here.”", jan1.Quote)
	assert.Equal(t, "—MARCUS AURELIUS, MEDITATIONS, 1.1", jan1.QuoteSource)
	assert.Equal(t, "The explanation.", jan1.Explanation)

	for _, idx := range src.reads {
		assert.True(t, defaultConfig().Book.IsContentPage(idx), "read non-content page %d", idx)
	}
}

func TestParse_MalformedPolicy(t *testing.T) {
	tests := []struct {
		name       string
		policy     types.FailurePolicy
		wantErr    bool
		wantFailed int
		wantLen    int
	}{
		{name: "default aborts", policy: "", wantErr: true},
		{name: "abort", policy: types.FailAbort, wantErr: true},
		{name: "skip", policy: types.FailSkip, wantFailed: 1, wantLen: 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := stoicBook(t)
			src.pages[20] = "E\nJanuary 7th\n"

			cfg := defaultConfig()
			cfg.OnMalformed = tt.policy

			res, err := Parse(context.Background(), src, cfg, zerolog.Nop())
			if tt.wantErr {
				require.Error(t, err)
				var mpe *segment.MalformedPageError
				require.True(t, errors.As(err, &mpe))
				assert.Equal(t, 20, mpe.Page)
				_, ok := res.Entries.Get("January 7")
				assert.False(t, ok, "malformed page must not contribute an entry")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFailed, res.Failed)
			assert.Equal(t, tt.wantLen, res.Entries.Len())
			require.Len(t, res.Failures, 1)
			assert.ErrorIs(t, res.Failures[0], segment.ErrMalformedPage)
			_, ok := res.Entries.Get("January 7")
			assert.False(t, ok)
		})
	}
}

func TestParse_SourceErrorAlwaysAborts(t *testing.T) {
	src := stoicBook(t)
	src.err = map[int]error{16: errors.New("broken xref")}

	cfg := defaultConfig()
	cfg.OnMalformed = types.FailSkip

	_, err := Parse(context.Background(), src, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading page 16")
	assert.NotErrorIs(t, err, segment.ErrMalformedPage)
}

func TestParse_ShortDocument(t *testing.T) {
	src := stoicBook(t)
	src.n = 46

	var logBuf bytes.Buffer
	res, err := Parse(context.Background(), src, defaultConfig(), zerolog.New(&logBuf))
	require.NoError(t, err)
	assert.Equal(t, 31, res.Entries.Len())
	assert.Equal(t, 1, res.Skipped)
	assert.Contains(t, logBuf.String(), "document ends before the last configured page")
}

func TestParse_DuplicateDates(t *testing.T) {
	src := stoicBook(t)
	jan1 := src.pages[14]
	src.pages[15] = jan1

	var logBuf bytes.Buffer
	res, err := Parse(context.Background(), src, defaultConfig(), zerolog.New(&logBuf))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 365, res.Entries.Len())
	assert.Equal(t, "January 1", res.Entries.Dates()[0])
	assert.Equal(t, "January 3", res.Entries.Dates()[1])
	assert.Contains(t, logBuf.String(), "date already parsed")
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Parse(ctx, stoicBook(t), defaultConfig(), zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Entries.Len())
}

func TestParse_InvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Book.LastPage = 3

	_, err := Parse(context.Background(), stoicBook(t), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid book config")

	cfg = defaultConfig()
	cfg.OnMalformed = "retry"
	_, err = Parse(context.Background(), stoicBook(t), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown failure policy")
}

func TestResult_WriteSummary(t *testing.T) {
	res := Result{Entries: types.NewEntries(), Parsed: 2, Skipped: 1, Failed: 1}
	res.Entries.Add(types.Entry{Date: "January 1"})
	res.Entries.Add(types.Entry{Date: "January 2"})

	var buf bytes.Buffer
	res.WriteSummary(&buf)
	assert.Contains(t, buf.String(), "Parse summary: 2 entries, 2 parsed, 1 skipped, 1 failed")
	assert.Contains(t, buf.String(), "pages visited: 4")
}
