package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder sentinels use Unicode Private Use Area characters.
// They never appear in normal markdown, so a placeholder line cannot be
// confused with user text.
const (
	placeholderStart = "\uE010" // U+E010: Private Use Area
	placeholderEnd   = "\uE011" // U+E011: Private Use Area

	placeholderCode  = 'C'
	placeholderTable = 'T'
)

// placeholderLine matches a line that consists solely of a placeholder token.
var placeholderLine = regexp.MustCompile("^" + placeholderStart + `([CT])(\d+)` + placeholderEnd + "$")

// placeholder builds the token for the index-th extracted region of kind.
func placeholder(kind byte, index int) string {
	return placeholderStart + string(kind) + strconv.Itoa(index) + placeholderEnd
}

// ElementKind discriminates the Element variant.
type ElementKind int

// Element kinds.
const (
	KindText ElementKind = iota
	KindBullets
	KindCode
	KindTable
)

// String returns the lowercase kind name.
func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBullets:
		return "bullets"
	case KindCode:
		return "code"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// Element is one typed unit of slide body content.
// Exactly one payload field is meaningful, selected by Kind.
type Element struct {
	Kind    ElementKind
	Text    string
	Bullets []Bullet
	Code    CodeBlock
	Table   []TableRow
}

// ParseElements decomposes a slide body into ordered content elements.
//
// Code fences are extracted first, then pipe tables, so neither can be
// mis-read as bullets or text. The remaining lines are walked top to bottom:
// placeholders emit their region, bullet lines accumulate into a list,
// other non-blank lines accumulate into a text block, and blank lines
// close whichever accumulator is open.
func ParseElements(body string) []Element {
	body, codes := ExtractCodeBlocks(body)
	body, tables := ExtractTables(body)

	var (
		elements []Element
		text     []string
		bullets  []Bullet
	)

	flushText := func() {
		if len(text) > 0 {
			elements = append(elements, Element{Kind: KindText, Text: strings.Join(text, "\n")})
			text = nil
		}
	}
	flushBullets := func() {
		if len(bullets) > 0 {
			elements = append(elements, Element{Kind: KindBullets, Bullets: bullets})
			bullets = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := placeholderLine.FindStringSubmatch(trimmed); m != nil {
			flushText()
			flushBullets()
			idx, _ := strconv.Atoi(m[2])
			switch m[1][0] {
			case placeholderCode:
				if idx < len(codes) {
					elements = append(elements, Element{Kind: KindCode, Code: codes[idx]})
				}
			case placeholderTable:
				if idx < len(tables) {
					elements = append(elements, Element{Kind: KindTable, Table: tables[idx]})
				}
			}
			continue
		}

		if b, ok := parseBullet(line); ok {
			flushText()
			bullets = append(bullets, b)
			continue
		}

		if trimmed == "" {
			flushText()
			flushBullets()
			continue
		}

		flushBullets()
		text = append(text, trimmed)
	}

	flushText()
	flushBullets()

	return elements
}
