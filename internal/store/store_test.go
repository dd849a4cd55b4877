// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/stoic-log/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "data"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntries() *types.Entries {
	es := types.NewEntries()
	es.Add(types.Entry{
		Date:        "January 1",
		Title:       "CONTROL AND CHOICE",
		Quote:       "“The chief task in life is simply this.”",
		QuoteSource: "—EPICTETUS, DISCOURSES, 2.5.4–5",
		Explanation: "The single most important practice in Stoic philosophy.",
	})
	es.Add(types.Entry{
		Date:        "January 2",
		Title:       "EDUCATION IS FREEDOM",
		Quote:       "“What is the fruit of these teachings?”",
		QuoteSource: "—EPICTETUS, DISCOURSES, 4.4.43",
		Explanation: "Tranquility, fearlessness and freedom: 100% of it.",
	})
	es.Add(types.Entry{
		Date:        "January 8",
		Title:       "SEEING OUR ADDICTIONS",
		Quote:       "“We must give up many things.”",
		QuoteSource: "—SENECA, MORAL LETTERS, 74.12b–13",
		Explanation: "What we consider harmless indulgences become addictions.",
	})
	return es
}

func TestIngest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary, err := s.Ingest(ctx, sampleEntries())
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Inserted: 3}, summary)

	summary, err = s.Ingest(ctx, sampleEntries())
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Unchanged: 3}, summary)
	assert.Equal(t, 3, summary.Total())

	changed := sampleEntries()
	e, _ := changed.Get("January 2")
	e.Title = "EDUCATION IS FREEDOM!"
	changed.Add(e)

	summary, err = s.Ingest(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1, Unchanged: 2}, summary)

	got, err := s.Lookup(ctx, "January 2")
	require.NoError(t, err)
	assert.Equal(t, "EDUCATION IS FREEDOM!", got.Title)
}

func TestLookup(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, sampleEntries())
	require.NoError(t, err)

	got, err := s.Lookup(ctx, "  january 8 ")
	require.NoError(t, err)
	want, _ := sampleEntries().Get("January 8")
	assert.Equal(t, want, got)

	_, err = s.Lookup(ctx, "February 30")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "February 30")
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, sampleEntries())
	require.NoError(t, err)

	tests := []struct {
		name  string
		opts  QueryOptions
		dates []string
	}{
		{"matches source", QueryOptions{Query: "epictetus"}, []string{"January 1", "January 2"}},
		{"matches explanation", QueryOptions{Query: "addictions"}, []string{"January 8"}},
		{"limit", QueryOptions{Query: "epictetus", Limit: 1}, []string{"January 1"}},
		{"percent is literal", QueryOptions{Query: "100%"}, []string{"January 2"}},
		{"underscore is literal", QueryOptions{Query: "a_b"}, nil},
		{"no match", QueryOptions{Query: "marcus"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.opts)
			require.NoError(t, err)
			var dates []string
			for _, e := range got {
				dates = append(dates, e.Date)
			}
			assert.Equal(t, tt.dates, dates)
		})
	}
}

func TestAll_KeepsBookOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, sampleEntries())
	require.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries().Dates(), all.Dates())
	assert.Equal(t, sampleEntries().List(), all.List())
}
