package pipeline

import (
	"regexp"
	"strings"
)

// SlideType is the declared kind of a slide.
type SlideType string

// Slide types accepted in "## [type] Title" headers.
const (
	SlideTitle   SlideType = "title"
	SlideBullet  SlideType = "bullet"
	SlidePlan    SlideType = "plan"
	SlideDivider SlideType = "divider"
	SlideContent SlideType = "content"
	SlideImage   SlideType = "image"
	SlideCode    SlideType = "code"
	SlideQuote   SlideType = "quote"
	SlideChart   SlideType = "chart"

	// SlideClosing is never parsed from input; the compiler appends it.
	SlideClosing SlideType = "closing"
)

// slideHeaderMarker starts every slide header line.
const slideHeaderMarker = "## "

// headerTag captures "[type] Title" from a header line.
var headerTag = regexp.MustCompile(`^\[(\w+)\]\s*(.*)$`)

// ParseSlideType maps a header tag to a SlideType (case-insensitive).
// Unknown or empty tags fall back to SlideContent.
func ParseSlideType(tag string) SlideType {
	switch t := SlideType(strings.ToLower(strings.TrimSpace(tag))); t {
	case SlideTitle, SlideBullet, SlidePlan, SlideDivider, SlideContent,
		SlideImage, SlideCode, SlideQuote, SlideChart:
		return t
	}
	return SlideContent
}

// Slide is one "## " delimited section of the document body.
type Slide struct {
	Type  SlideType
	Title string
	Body  string
}

// SplitSlides splits a frontmatter-free document into slides in document order.
// Text before the first header is discarded. A document without headers
// yields an empty slice.
func SplitSlides(body string) []Slide {
	var (
		slides  []Slide
		current *Slide
		lines   []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(lines, "\n"))
		slides = append(slides, *current)
		current = nil
		lines = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, slideHeaderMarker) {
			flush()
			typ, title := parseHeader(strings.TrimPrefix(line, slideHeaderMarker))
			current = &Slide{Type: typ, Title: title}
			continue
		}
		if current != nil {
			lines = append(lines, line)
		}
	}
	flush()

	return slides
}

// parseHeader extracts type and title from the text after the marker.
func parseHeader(header string) (SlideType, string) {
	header = strings.TrimSpace(header)
	m := headerTag.FindStringSubmatch(header)
	if m == nil {
		return SlideContent, header
	}
	return ParseSlideType(m[1]), strings.TrimSpace(m[2])
}
