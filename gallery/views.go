// Package gallery holds the media listing and the pure views derived from it.
// Views never mutate records and never fetch.
package gallery

import (
	"slices"
	"time"

	"github.com/CrestNiraj12/iav/domain"
)

// Tab selects which media type is shown.
type Tab int

const (
	TabPosts Tab = iota
	TabStories
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabPosts, TabStories}

func (t Tab) String() string {
	if t == TabStories {
		return "Stories"
	}
	return "Posts"
}

// MediaType returns the record type the tab filters on.
func (t Tab) MediaType() domain.MediaType {
	if t == TabStories {
		return domain.MediaStory
	}
	return domain.MediaPost
}

// Bucket is one month of media, in sort order.
type Bucket struct {
	Label string // e.g. "January 2024", or "N/A" for undated items
	Items []domain.MediaRecord
}

// Dedupe keeps the first record seen for each ID, preserving order.
func Dedupe(records []domain.MediaRecord) []domain.MediaRecord {
	seen := make(map[int]struct{}, len(records))
	out := make([]domain.MediaRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// FilterByType returns the records tagged t.
func FilterByType(records []domain.MediaRecord, t domain.MediaType) []domain.MediaRecord {
	out := make([]domain.MediaRecord, 0, len(records))
	for _, r := range records {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst returns a copy sorted by capture time, newest first.
// Undated records sink to the end; ties keep their listing order.
func SortNewestFirst(records []domain.MediaRecord) []domain.MediaRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b domain.MediaRecord) int {
		switch {
		case a.TakenAt.IsZero() && b.TakenAt.IsZero():
			return 0
		case a.TakenAt.IsZero():
			return 1
		case b.TakenAt.IsZero():
			return -1
		}
		return b.TakenAt.Compare(a.TakenAt)
	})
	return out
}

// GroupByMonth buckets records by calendar month and year of capture. Buckets
// appear in the order their first record appears in the input.
func GroupByMonth(records []domain.MediaRecord) []Bucket {
	var buckets []Bucket
	index := make(map[string]int)
	for _, r := range records {
		label := MonthLabel(r.TakenAt)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, Bucket{Label: label})
		}
		buckets[i].Items = append(buckets[i].Items, r)
	}
	return buckets
}

// Select composes filter and sort for the active tab.
func Select(records []domain.MediaRecord, tab Tab) []domain.MediaRecord {
	return SortNewestFirst(FilterByType(records, tab.MediaType()))
}

// MonthLabel formats the bucket key of t, "N/A" for the zero time.
func MonthLabel(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format("January 2006")
}

// FormatDate renders a capture date for display, "N/A" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format("Jan 2, 2006")
}

const notAvailable = "N/A"
