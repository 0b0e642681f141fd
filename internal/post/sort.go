package post

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a front matter or manifest date. It reports false for empty
// or unrecognized values.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Compare orders summaries for listing: dated before undated, dated by date
// descending, then by source name ascending. It returns 0 only for equal
// source names with equal dates.
func Compare(a, b Summary) int {
	ta, oka := ParseDate(a.Date)
	tb, okb := ParseDate(b.Date)
	switch {
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	case oka && okb:
		if c := tb.Compare(ta); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.SourceName, b.SourceName)
}

// SortSummaries sorts in place with Compare.
func SortSummaries(s []Summary) {
	slices.SortStableFunc(s, Compare)
}

// SortEntries sorts in place by each entry's summary.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return Compare(a.Summary, b.Summary)
	})
}
