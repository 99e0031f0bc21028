package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// defaultCodeLanguage is used for fences without a language tag.
const defaultCodeLanguage = "text"

// Precompiled regex patterns for the extractors.
var (
	// Fenced code: ```lang\n ... ``` (dot matches newline, non-greedy body)
	fencedCode = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")

	// Table separator row: pipes with only dashes, colons and whitespace between
	tableSeparator = regexp.MustCompile(`^\|[\s\-:|]+\|$`)

	// Bullet line: indentation, marker, whitespace, text
	bulletLine = regexp.MustCompile(`^(\s*)[-*•]\s+(.*)$`)
)

// Bullet is one list item. Level is floor(indent/2).
type Bullet struct {
	Text  string
	Level int
}

// CodeBlock is a fenced code region with the fences stripped.
type CodeBlock struct {
	Language string
	Code     string
}

// TableRow is one data row of a pipe table.
type TableRow struct {
	Cells    []string
	IsHeader bool
}

// ExtractCodeBlocks replaces every fenced code region in body with a
// placeholder line and returns the rewritten body with the blocks in source order.
// Unterminated fences do not match and are left in place as plain text.
func ExtractCodeBlocks(body string) (string, []CodeBlock) {
	var blocks []CodeBlock

	out := fencedCode.ReplaceAllStringFunc(body, func(match string) string {
		m := fencedCode.FindStringSubmatch(match)
		lang := m[1]
		if lang == "" {
			lang = defaultCodeLanguage
		}
		blocks = append(blocks, CodeBlock{Language: lang, Code: trimCode(m[2])})
		return "\n" + placeholder(placeholderCode, len(blocks)-1) + "\n"
	})

	return out, blocks
}

// trimCode drops surrounding blank lines and trailing whitespace while
// keeping the indentation of the first code line.
func trimCode(code string) string {
	code = strings.TrimRightFunc(code, unicode.IsSpace)
	for {
		nl := strings.IndexByte(code, '\n')
		if nl < 0 || strings.TrimSpace(code[:nl]) != "" {
			break
		}
		code = code[nl+1:]
	}
	if strings.TrimSpace(code) == "" {
		return ""
	}
	return code
}

// ExtractTables replaces every run of two or more pipe-delimited lines with
// a placeholder line and returns the rewritten body with the parsed tables.
func ExtractTables(body string) (string, [][]TableRow) {
	var (
		tables [][]TableRow
		out    []string
		run    []string
	)

	flushRun := func() {
		if len(run) >= 2 {
			tables = append(tables, parseTable(run))
			out = append(out, placeholder(placeholderTable, len(tables)-1))
		} else {
			out = append(out, run...)
		}
		run = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if isPipeRow(line) {
			run = append(run, line)
			continue
		}
		flushRun()
		out = append(out, line)
	}
	flushRun()

	return strings.Join(out, "\n"), tables
}

// isPipeRow reports whether the trimmed line starts and ends with '|'.
func isPipeRow(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 2 && t[0] == '|' && t[len(t)-1] == '|'
}

// isSeparatorRow reports whether a pipe row is a header separator.
func isSeparatorRow(line string) bool {
	t := strings.TrimSpace(line)
	return tableSeparator.MatchString(t) && strings.Contains(t, "-")
}

// parseTable converts a qualifying run into rows. A separator row marks every
// row before it as header and is not emitted. Without a separator no row is
// a header.
func parseTable(lines []string) []TableRow {
	rows := make([]TableRow, 0, len(lines))
	for _, line := range lines {
		if isSeparatorRow(line) {
			for i := range rows {
				rows[i].IsHeader = true
			}
			continue
		}
		rows = append(rows, TableRow{Cells: splitCells(line)})
	}
	return rows
}

// splitCells trims the outer pipes and splits the row into trimmed cells.
func splitCells(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// ParseBullets extracts bullet lines from block in order.
// Non-bullet lines are ignored.
func ParseBullets(block string) []Bullet {
	var bullets []Bullet
	for _, line := range strings.Split(block, "\n") {
		if b, ok := parseBullet(line); ok {
			bullets = append(bullets, b)
		}
	}
	return bullets
}

// parseBullet classifies a single line as a bullet.
func parseBullet(line string) (Bullet, bool) {
	m := bulletLine.FindStringSubmatch(line)
	if m == nil {
		return Bullet{}, false
	}
	return Bullet{Text: strings.TrimSpace(m[2]), Level: len(m[1]) / 2}, true
}
