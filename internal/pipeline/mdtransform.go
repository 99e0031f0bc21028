package pipeline

import (
	"context"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// DeckPreprocessor prepares deck markdown before frontmatter and slide parsing.
type DeckPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare markdown for compilation.
func (p *DeckPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = normalizeUnicode(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// normalizeUnicode composes characters to NFC so that visually identical
// bullets and accents compare equal in the line classifiers.
func normalizeUnicode(content string) string {
	return norm.NFC.String(content)
}
