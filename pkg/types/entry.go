// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Entry is one day of the book: the fields segmented from a single page.
type Entry struct {
	// Date is the calendar day as printed, without the ordinal suffix
	// (e.g. "January 1"). It keys the aggregate result.
	Date string `json:"date" yaml:"date"`

	// Title is the day's heading, printed in capitals.
	Title string `json:"title" yaml:"title"`

	// Quote is the quoted passage wrapped in typographic quotation marks.
	Quote string `json:"quote" yaml:"quote"`

	// QuoteSource is the attribution line, starting with the source dash.
	QuoteSource string `json:"quote_source" yaml:"quote_source"`

	// Explanation is the commentary paragraph following the quote.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Entries is a mapping from date to Entry that remembers insertion order.
// Parsing a contiguous page range inserts in calendar order.
type Entries struct {
	order  []string
	byDate map[string]Entry
}

// NewEntries returns an empty mapping.
func NewEntries() *Entries {
	return &Entries{byDate: make(map[string]Entry)}
}

// Add stores e under e.Date. An existing date keeps its position and has its
// value replaced; Add reports whether that happened.
func (es *Entries) Add(e Entry) bool {
	if es.byDate == nil {
		es.byDate = make(map[string]Entry)
	}
	_, exists := es.byDate[e.Date]
	if !exists {
		es.order = append(es.order, e.Date)
	}
	es.byDate[e.Date] = e
	return exists
}

// Get returns the entry for date.
func (es *Entries) Get(date string) (Entry, bool) {
	e, ok := es.byDate[date]
	return e, ok
}

// Len returns the number of distinct dates.
func (es *Entries) Len() int {
	return len(es.order)
}

// Dates returns the keys in insertion order.
func (es *Entries) Dates() []string {
	out := make([]string, len(es.order))
	copy(out, es.order)
	return out
}

// List returns the entries in insertion order.
func (es *Entries) List() []Entry {
	out := make([]Entry, 0, len(es.order))
	for _, d := range es.order {
		out = append(out, es.byDate[d])
	}
	return out
}
