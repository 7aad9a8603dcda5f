package openlibrary

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// knownPrefixes are the key namespaces Open Library uses for the entities we
// track. "/authors/OL23919A" normalizes to "OL23919A".
var knownPrefixes = []string{"/authors/", "/works/", "/books/", "/languages/"}

// NormalizeKey strips the namespace from an external key. Keys with an
// unrecognized namespace lose exactly one leading slash; keys with no leading
// slash come back unchanged.
func NormalizeKey(key string) string {
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimPrefix(key, prefix)
		}
	}
	if strings.HasPrefix(key, "/") {
		return key[1:]
	}
	return key
}

// dateLayouts are tried in order by ParseDate. Open Library publish dates are
// free text; these cover the formats seen in practice.
var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01",
	"January 2006",
	"Jan 2006",
}

var yearOnly = regexp.MustCompile(`^\d{4}$`)

// ParseDate turns a free-text publish date into a concrete day. A bare
// 4-digit year is ambiguous and yields no date; callers fall back to
// ParseYear for those.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || yearOnly.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a parsed date as ISO YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// ParseYear extracts the first standalone year in 1000–2099 from a string,
// or nil when none occurs on a word boundary.
func ParseYear(s string) *int {
	match := yearPattern.FindString(s)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}
