// Package dates parses the date-like strings that appear in catalog and
// edit fields. Partial inputs are accepted: a bare year means January 1
// and a year-month means the first of that month.
package dates

import (
	"regexp"
	"strings"
	"time"
)

// Layout is the single output representation for normalized dates.
const Layout = "2006-01-02"

var fullLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
}

var (
	yearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	yearOnlyPattern  = regexp.MustCompile(`^\d{4}$`)
	strictPattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Parse interprets value as a calendar date, accepting full dates in
// several layouts plus partial YYYY-MM and YYYY forms. The boolean is
// false when value is blank or not date-like.
func Parse(value string) (time.Time, bool) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range fullLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}

	if m := yearMonthPattern.FindStringSubmatch(raw); m != nil {
		if parsed, err := time.Parse("2006-1", m[1]+"-"+m[2]); err == nil {
			return parsed, true
		}
		return time.Time{}, false
	}

	if yearOnlyPattern.MatchString(raw) {
		if parsed, err := time.Parse("2006", raw); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// ParseStrict accepts only a zero-padded YYYY-MM-DD date. Partial forms
// and alternate separators are rejected even though Parse allows them.
func ParseStrict(value string) (time.Time, bool) {
	raw := strings.TrimSpace(value)
	if !strictPattern.MatchString(raw) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(Layout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Format renders t in the normalized YYYY-MM-DD representation.
func Format(t time.Time) string {
	return t.Format(Layout)
}
