package pptx

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// defaultCodeBackground is used when the style defines no background.
const defaultCodeBackground = "F5F5F5"

// codeRun is one colored token of a code line.
type codeRun struct {
	Text   string
	Color  string // hex without '#', empty for default
	Bold   bool
	Italic bool
}

// codeBlock is highlighted source ready to render.
type codeBlock struct {
	Background string
	Foreground string
	Lines      [][]codeRun
}

// highlightCode tokenizes code with the lexer for language and colors it
// with the named chroma style. Unknown languages use the plain-text lexer;
// unknown styles fall back to chroma's default style.
func highlightCode(code, language, styleName string) codeBlock {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)

	block := codeBlock{Background: defaultCodeBackground}
	bg := style.Get(chroma.Background)
	if bg.Background.IsSet() {
		block.Background = NormalizeColor(bg.Background.String())
	}
	if bg.Colour.IsSet() {
		block.Foreground = NormalizeColor(bg.Colour.String())
	}

	code = strings.ReplaceAll(code, "\t", "    ")
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		block.Lines = plainLines(code)
		return block
	}

	for _, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		runs := make([]codeRun, 0, len(line))
		for _, tok := range line {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			entry := style.Get(tok.Type)
			run := codeRun{
				Text:   text,
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				run.Color = NormalizeColor(entry.Colour.String())
			}
			runs = append(runs, run)
		}
		block.Lines = append(block.Lines, runs)
	}

	// A trailing newline yields an empty final line.
	if n := len(block.Lines); n > 1 && len(block.Lines[n-1]) == 0 {
		block.Lines = block.Lines[:n-1]
	}
	return block
}

func plainLines(code string) [][]codeRun {
	var lines [][]codeRun
	for _, l := range strings.Split(code, "\n") {
		if l == "" {
			lines = append(lines, nil)
			continue
		}
		lines = append(lines, []codeRun{{Text: l}})
	}
	return lines
}
