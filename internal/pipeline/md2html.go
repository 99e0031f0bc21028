package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrPreviewConversion indicates HTML preview rendering failed.
var ErrPreviewConversion = errors.New("HTML preview conversion failed")

// previewTemplate wraps the rendered slides in a complete HTML5 document.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// PreviewDocument is the input of a preview render.
type PreviewDocument struct {
	Title   string
	Slides  []Slide
	CSS     string // injected as a <style> block; see PreviewCSS
	BaseDir string // relative image paths resolve against it
}

// PreviewRenderer abstracts deck-to-HTML preview rendering.
type PreviewRenderer interface {
	RenderPreview(ctx context.Context, doc PreviewDocument) (string, error)
}

// GoldmarkPreview renders slide bodies to HTML using goldmark (pure Go).
type GoldmarkPreview struct {
	md       goldmark.Markdown
	injector CSSInjector
}

// NewGoldmarkPreview creates a GoldmarkPreview with GFM tables and syntax highlighting.
func NewGoldmarkPreview() *GoldmarkPreview {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	return &GoldmarkPreview{md: md, injector: &CSSInjection{}}
}

// RenderPreview renders every slide as a <section> in a standalone document
// styled with doc.CSS. Image paths are rewritten against doc.BaseDir.
// Goldmark has no context support, so conversion runs in a goroutine and
// the call returns early on cancellation.
func (p *GoldmarkPreview) RenderPreview(ctx context.Context, doc PreviewDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var body strings.Builder
		for i, s := range doc.Slides {
			var buf bytes.Buffer
			if err := p.md.Convert([]byte(s.Body), &buf); err != nil {
				done <- result{err: fmt.Errorf("%w: slide %d: %v", ErrPreviewConversion, i+1, err)}
				return
			}
			fmt.Fprintf(&body, "<section class=\"slide slide-%s\">\n<h2>%s</h2>\n%s</section>\n",
				s.Type, html.EscapeString(s.Title), buf.String())
		}
		page := fmt.Sprintf(previewTemplate, html.EscapeString(doc.Title), body.String())
		page = p.injector.InjectCSS(ctx, page, doc.CSS)
		page, err := RewriteImagePaths(page, doc.BaseDir)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewConversion, err)}
			return
		}
		done <- result{html: page}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
