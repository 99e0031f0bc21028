package pipeline

import (
	"context"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at
// the start of the content, whichever is found first.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(htmlContent[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + block + htmlContent[pos:]
		}
	}
	return block + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// PreviewPalette is the subset of a theme the preview stylesheet uses.
// Colors are hex without or with a leading '#'.
type PreviewPalette struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Background string

	HeadingFont string
	BodyFont    string
	CodeFont    string

	CodeStyle string // chroma style name
}

// previewLayout frames every section as a 16:9 card.
const previewLayout = `body{margin:0;padding:24px;background:#e5e5e5}
section.slide{box-sizing:border-box;width:960px;min-height:540px;margin:0 auto 24px;padding:40px 48px;background:%[5]s;color:%[4]s;font-family:%[7]s;box-shadow:0 2px 8px rgba(0,0,0,.2)}
section.slide h2{margin-top:0;color:%[1]s;font-family:%[6]s;border-bottom:3px solid %[3]s;padding-bottom:8px}
section.slide-title,section.slide-divider{display:flex;flex-direction:column;justify-content:center;text-align:center}
section.slide-divider{background:%[1]s;color:%[5]s}
section.slide-divider h2{color:%[5]s;border:none}
section.slide code,section.slide pre{font-family:%[8]s}
section.slide pre{padding:12px;overflow-x:auto}
section.slide blockquote{border-left:4px solid %[2]s;margin-left:0;padding-left:16px;font-style:italic}
section.slide table{border-collapse:collapse}
section.slide th{background:%[1]s;color:%[5]s}
section.slide th,section.slide td{border:1px solid %[2]s;padding:4px 10px}
section.slide img{max-width:100%%;max-height:360px}
`

// PreviewCSS builds the preview stylesheet for p, including the chroma
// classes for highlighted code. Unknown code styles use chroma's fallback.
func PreviewCSS(p PreviewPalette) string {
	var b strings.Builder
	fmt.Fprintf(&b, previewLayout,
		cssColor(p.Primary), cssColor(p.Secondary), cssColor(firstNonEmpty(p.Accent, p.Secondary)),
		cssColor(p.Text), cssColor(p.Background),
		cssFont(p.HeadingFont), cssFont(p.BodyFont), cssFont(p.CodeFont),
	)

	// strings.Builder writes never fail
	_ = chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, styles.Get(p.CodeStyle))
	return b.String()
}

func cssColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if c == "" {
		return "inherit"
	}
	return "#" + c
}

func cssFont(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "sans-serif"
	}
	return fmt.Sprintf("%q,sans-serif", name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
