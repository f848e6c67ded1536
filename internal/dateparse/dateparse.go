// Package dateparse resolves human-entered date strings and coded policy
// lengths into absolute instants.
package dateparse

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Formats is the ordered list of accepted calendar layouts. The first
// layout that parses wins, so inputs like "03-04-2025" resolve under the
// day-month-year layout even though month-day-year would also parse. This
// precedence is long-standing observed behavior and must not be reordered.
var Formats = []string{
	"01/02/2006",
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
}

// ErrUnparseable is returned when no accepted layout matches the input.
var ErrUnparseable = errors.New("unparseable date")

// Parse resolves text into a UTC-midnight instant using the first matching
// layout from Formats.
func Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range Formats {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrUnparseable, "'%s'", text)
}

// Format renders an instant in the primary accepted layout.
func Format(t time.Time) string {
	return t.Format(Formats[0])
}

// codedLengths maps the coded suspension lengths to their duration in
// seconds. Unrecognized codes fall back to one day; a typo'd code therefore
// silently becomes a 1-day policy. Flagged for product review, preserved
// until then.
var codedLengths = map[string]int64{
	"1d": 86400,
	"3d": 86400 * 3,
	"7d": 86400 * 7,
}

const defaultCodedLength = 86400

// CodedDuration resolves a coded length ("1d", "3d", "7d") to a duration.
func CodedDuration(code string) time.Duration {
	secs, ok := codedLengths[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		secs = defaultCodedLength
	}
	return time.Duration(secs) * time.Second
}

// Expiry computes the expiry instant for a policy issued at the given time
// with a free-form day count.
func Expiry(issuedAt time.Time, days int) time.Time {
	return issuedAt.Add(time.Duration(days) * 24 * time.Hour)
}
