// Package dateutil resolves the date shown on a deck's title slide.
//
// A frontmatter value of "today" (or "auto") is replaced by the compile
// date, optionally with a format: "today:DD/MM/YYYY" or a preset name such
// as "today:long". Any other value is shown as written.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates a date format that cannot be applied.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength bounds a user-supplied format.
const MaxFormatLength = 50

// DefaultFormat applies when no format follows the keyword.
const DefaultFormat = "YYYY-MM-DD"

// keywords request the compile date.
var keywords = []string{"today", "auto"}

// Presets are named formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"short":    "MMM D, YYYY",
}

// tokens are matched longest first.
var tokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Resolve returns the text to display for a frontmatter date value.
// Keywords are formatted against now; other values pass through unchanged.
func Resolve(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	format, ok := keywordFormat(value)
	if !ok {
		return value, nil
	}

	if preset, found := Presets[strings.ToLower(format)]; found {
		format = preset
	}
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

// keywordFormat reports whether value starts with a keyword and returns
// the format that follows it, or DefaultFormat.
func keywordFormat(value string) (string, bool) {
	lower := strings.ToLower(value)
	for _, kw := range keywords {
		switch {
		case lower == kw:
			return DefaultFormat, true
		case strings.HasPrefix(lower, kw+":"):
			// keep the original case, tokens are case-sensitive
			return value[len(kw)+1:], true
		}
	}
	return "", false
}

// Layout converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd,
// ddd) to a Go time layout. Text in brackets is copied literally; other
// characters are kept as they are.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	case len(format) > MaxFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}

		n := 1
		chunk := rest[:1]
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				n, chunk = len(t.token), t.layout
				break
			}
		}
		b.WriteString(chunk)
		rest = rest[n:]
	}
	return b.String(), nil
}
