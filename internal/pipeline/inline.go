package pipeline

import "regexp"

// inlineMarkup matches **bold** or `code`; the earliest match wins.
var inlineMarkup = regexp.MustCompile("\\*\\*(.+?)\\*\\*|`([^`]+)`")

// Span is a run of text with inline styling.
type Span struct {
	Text string
	Bold bool
	Code bool
}

// FormatInline tokenizes a line into styled spans, left to right.
// Unterminated markers are kept as literal text.
func FormatInline(line string) []Span {
	if line == "" {
		return nil
	}

	matches := inlineMarkup.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return []Span{{Text: line}}
	}

	spans := make([]Span, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: line[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			spans = append(spans, Span{Text: line[m[2]:m[3]], Bold: true})
		case m[4] >= 0:
			spans = append(spans, Span{Text: line[m[4]:m[5]], Code: true})
		}
		last = m[1]
	}
	if last < len(line) {
		spans = append(spans, Span{Text: line[last:]})
	}

	return spans
}

// PlainText strips inline markers from line.
func PlainText(line string) string {
	var out []byte
	for _, s := range FormatInline(line) {
		out = append(out, s.Text...)
	}
	return string(out)
}
