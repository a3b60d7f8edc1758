package archive

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup, terminal escapes and control characters from
// server-provided strings before they reach the UI.
func sanitizeText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// foldTag normalizes enum-like wire values such as media_type and connection_type.
func foldTag(s string) string {
	// Casers carry state; one per call keeps this safe across goroutines.
	return cases.Fold().String(strings.TrimSpace(s))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts an RFC3339-ish string or unix seconds. It returns
// the zero time and the raw text when nothing parses.
func parseTimestamp(raw json.RawMessage) (time.Time, string) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return time.Time{}, ""
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n <= 0 {
			return time.Time{}, text
		}
		return time.Unix(n, 0).UTC(), text
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, text
	}
	return parseTimeString(s), s
}

func parseTimeString(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() <= 1 {
				return time.Time{}
			}
			return t
		}
	}
	return time.Time{}
}
