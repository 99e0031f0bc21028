package md2pptx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-md2pptx/internal/archive"
	"github.com/alnah/go-md2pptx/internal/dateutil"
	"github.com/alnah/go-md2pptx/internal/fileutil"
	"github.com/alnah/go-md2pptx/internal/pipeline"
	"github.com/alnah/go-md2pptx/internal/pptx"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.DeckPreprocessor)(nil)
	_ pipeline.PreviewRenderer      = (*pipeline.GoldmarkPreview)(nil)
)

// Frontmatter keys read by the compiler.
const (
	keyTitle       = "title"
	keySubtitle    = "subtitle"
	keyTopic       = "topic"
	keyAuthor      = "author"
	keyDate        = "date"
	keyInstitution = "institution"
	keyInstructor  = "instructor"
	keyLogo        = "logo"
	keyClosing     = "closing"
	keyPrimary     = "primary"
	keySecondary   = "secondary"
	keyAccent      = "accent"
)

// titleParts compose a title when the frontmatter has none.
var titleParts = []string{"discipline", "module", "lesson"}

// Converter orchestrates the markdown-to-PPTX pipeline.
// Create with NewConverter and call Compile. A Converter holds no per-call
// state and is safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	logger       *zap.Logger
	style        *Style
	metrics      pipeline.Metrics
	preprocessor pipeline.MarkdownPreprocessor
	preview      pipeline.PreviewRenderer
	now          func() time.Time
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTheme, WithAssetPath, WithLogger).
// Returns ErrMissingConfig if the theme cannot be resolved or is incomplete.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		logger:       zap.NewNop(),
		metrics:      pipeline.DefaultMetrics(),
		preprocessor: &pipeline.DeckPreprocessor{},
		preview:      pipeline.NewGoldmarkPreview(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.style == nil {
		style, err := LoadStyle(c.cfg.themeInput, c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("loading theme: %w", err)
		}
		c.style = style
	} else if err := c.style.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Style returns the resolved style.
func (c *Converter) Style() Style {
	return *c.style
}

// Compile runs the full pipeline and writes the package to input.Output.
//
// The package is first written to a temporary file next to the output,
// then post-processed into place. On any failure no file is left at
// input.Output. A missing logo or image is logged and skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Compile(ctx context.Context, input Input) (result *CompileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	log := c.logger.With(zap.String("compile", id.String()))

	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fm, body, err := pipeline.ParseFrontmatter(md)
	if err != nil {
		return nil, err
	}

	date, err := dateutil.Resolve(fm.Get(keyDate), c.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrontmatter, keyDate, err)
	}

	slides := pipeline.SplitSlides(body)
	log.Debug("document parsed", zap.Int("slides", len(slides)), zap.Strings("frontmatter", fm.Keys()))

	b := &deckBuilder{
		log:     log,
		baseDir: input.BaseDir,
		metrics: c.metrics,
		media:   make(map[string]*pptx.Media),
	}
	deck, omitted := b.build(fm, slides, c.style)
	deck.ID = id.String()
	deck.Date = date
	deck.Created = c.now().UTC()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &CompileResult{
		Path:    input.Output,
		Slides:  len(deck.Slides),
		Omitted: omitted,
	}

	if input.Preview {
		html, err := c.preview.RenderPreview(ctx, pipeline.PreviewDocument{
			Title:   deck.Title,
			Slides:  slides,
			CSS:     pipeline.PreviewCSS(previewPalette(deck.Theme)),
			BaseDir: input.BaseDir,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering preview: %w", err)
		}
		res.HTML = []byte(html)
	}

	entries, err := c.writePackage(deck, input.Output, log)
	if err != nil {
		return nil, err
	}
	res.Media = entries

	log.Info("deck compiled",
		zap.String("path", res.Path),
		zap.Int("slides", res.Slides),
		zap.Int("omitted", res.Omitted),
		zap.Int("media", len(res.Media)),
	)
	return res, nil
}

// writePackage writes deck to a temp file beside output and post-processes
// it into output. Temp files are always removed.
func (c *Converter) writePackage(deck *pptx.Deck, output string, log *zap.Logger) (entries []MediaEntry, err error) {
	raw, cleanupRaw, err := fileutil.CreateTempBeside(output, "pptx")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	defer func() {
		err = multierr.Append(err, cleanupRaw())
	}()

	if err := pptx.WriteFile(raw, deck); err != nil {
		return nil, fmt.Errorf("%w: writing package: %v", ErrPackaging, err)
	}

	target := output
	if c.cfg.fixZip {
		var cleanupNormalized func() error
		target, cleanupNormalized, err = fileutil.CreateTempBeside(output, "pptx")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
		}
		defer func() {
			err = multierr.Append(err, cleanupNormalized())
		}()
	}

	report, err := archive.NormalizeMedia(raw, target, archive.Options{Logger: log})
	if err != nil {
		return nil, err
	}

	if c.cfg.fixZip {
		if err := archive.StripDataDescriptors(target, output); err != nil {
			return nil, err
		}
	}

	return report.Entries, nil
}

// previewPalette maps the deck theme, frontmatter overrides included,
// onto the preview stylesheet.
func previewPalette(th pptx.Theme) pipeline.PreviewPalette {
	return pipeline.PreviewPalette{
		Primary:     th.Primary,
		Secondary:   th.Secondary,
		Accent:      th.Accent,
		Text:        th.Text,
		Background:  th.Background,
		HeadingFont: th.HeadingFont,
		BodyFont:    th.BodyFont,
		CodeFont:    th.CodeFont,
		CodeStyle:   th.CodeStyle,
	}
}

// validateInput checks that required fields are present.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if strings.TrimSpace(input.Output) == "" {
		return ErrEmptyOutput
	}
	return nil
}

// deckBuilder turns parsed slides into a pptx.Deck for one compile call.
type deckBuilder struct {
	log      *zap.Logger
	baseDir  string
	metrics  pipeline.Metrics
	subtitle string                 // frontmatter subtitle, which replaces title slide text
	media    map[string]*pptx.Media // by resolved path, so a file is embedded once
}

// build assembles the deck and returns the total omitted element count.
func (b *deckBuilder) build(fm pipeline.Frontmatter, slides []pipeline.Slide, style *Style) (*pptx.Deck, int) {
	theme := style.theme()
	overrideColor(&theme.Primary, fm.Get(keyPrimary))
	overrideColor(&theme.Secondary, fm.Get(keySecondary))
	overrideColor(&theme.Accent, fm.Get(keyAccent))

	deck := &pptx.Deck{
		Title:       deckTitle(fm, slides),
		Subtitle:    firstOf(fm.Get(keyTopic), fm.Get(keySubtitle)),
		Author:      fm.Get(keyAuthor),
		Institution: firstOf(fm.Get(keyInstitution), style.Institution),
		Instructor:  firstOf(fm.Get(keyInstructor), style.Instructor, fm.Get(keyAuthor)),
		ClosingText: firstOf(fm.Get(keyClosing), style.Closing, DefaultClosingText),
		Theme:       theme,
	}
	b.subtitle = deck.Subtitle

	if logo := firstOf(fm.Get(keyLogo), style.Logo); logo != "" {
		m, err := b.loadMedia(logo)
		if err != nil {
			b.log.Warn("logo skipped", zap.Error(err))
		} else {
			deck.Logo = m
		}
	}

	omitted := 0
	for i, s := range slides {
		slide := b.slide(s)
		if slide.Layout.Omitted > 0 {
			omitted += slide.Layout.Omitted
			b.log.Warn("slide content omitted",
				zap.Int("slide", i+1),
				zap.String("title", s.Title),
				zap.Int("elements", slide.Layout.Omitted),
			)
		}
		deck.Slides = append(deck.Slides, slide)
	}

	deck.Slides = append(deck.Slides, pptx.Slide{
		Type:  pipeline.SlideClosing,
		Title: deck.ClosingText,
	})
	return deck, omitted
}

// slide parses one slide and lays it out. Flowed types stack their
// elements; fixed types keep only what they draw. Every element left out
// is counted in the layout.
func (b *deckBuilder) slide(s pipeline.Slide) pptx.Slide {
	body := s.Body
	out := pptx.Slide{Type: s.Type, Title: s.Title}

	if s.Type == pipeline.SlideImage {
		for _, ref := range pipeline.ExtractImages(body) {
			m, err := b.loadMedia(ref.Path)
			if err != nil {
				b.log.Warn("image skipped", zap.String("slide", s.Title), zap.Error(err))
				continue
			}
			out.Pictures = append(out.Pictures, pptx.Picture{Media: m, Caption: ref.Alt})
		}
		body = pipeline.StripImages(body)
	}

	out.Elements = pipeline.ParseElements(body)

	metrics := b.metrics
	switch s.Type {
	case pipeline.SlideTitle:
		out.Layout = pipeline.SelectLayout(out.Elements, firstTextOnly(b.subtitle == ""))
		return out
	case pipeline.SlideDivider:
		out.Layout = pipeline.SelectLayout(out.Elements, firstTextOnly(true))
		return out
	case pipeline.SlideQuote:
		out.Layout = pipeline.SelectLayout(out.Elements, func(_ int, el pipeline.Element) bool {
			return el.Kind == pipeline.KindText || el.Kind == pipeline.KindBullets
		})
		return out
	case pipeline.SlideImage:
		if len(out.Pictures) > 0 {
			metrics.Top = pptx.PictureFlowTop
		}
	}
	out.Layout = pipeline.FlowLayout(out.Elements, metrics)
	return out
}

// firstTextOnly keeps the first text element when enabled, and nothing else.
func firstTextOnly(enabled bool) func(int, pipeline.Element) bool {
	first := -1
	return func(i int, el pipeline.Element) bool {
		if !enabled || el.Kind != pipeline.KindText {
			return false
		}
		if first < 0 {
			first = i
		}
		return i == first
	}
}

// loadMedia reads an image relative to the base directory.
// Missing, remote, and non-image files yield ErrAssetNotFound.
func (b *deckBuilder) loadMedia(ref string) (*pptx.Media, error) {
	if fileutil.IsURL(ref) {
		return nil, fmt.Errorf("%w: remote images are not fetched: %s", ErrAssetNotFound, ref)
	}

	path := ref
	if !filepath.IsAbs(path) && b.baseDir != "" {
		path = filepath.Join(b.baseDir, path)
	}
	path = filepath.Clean(path)

	if m, ok := b.media[path]; ok {
		return m, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- document-provided path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetNotFound, path, err)
	}

	kind, err := fileutil.DetectImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetNotFound, path, err)
	}

	name := filepath.Base(path)
	if filepath.Ext(name) == "" {
		name += "." + kind.Extension
	}

	m := &pptx.Media{Name: name, Data: data, MIME: kind.MIME}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		m.Width, m.Height = cfg.Width, cfg.Height
	}

	b.media[path] = m
	b.log.Debug("media loaded", zap.String("path", path), zap.String("mime", kind.MIME))
	return m, nil
}

// deckTitle prefers the frontmatter title, then discipline/module/lesson,
// then the first slide title.
func deckTitle(fm pipeline.Frontmatter, slides []pipeline.Slide) string {
	if t := fm.Get(keyTitle); t != "" {
		return t
	}
	var parts []string
	for _, k := range titleParts {
		if v := strings.TrimSpace(fm.Get(k)); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " - ")
	}
	if len(slides) > 0 {
		return slides[0].Title
	}
	return ""
}

func overrideColor(dst *string, value string) {
	if value != "" && hexColor.MatchString(value) {
		*dst = pptx.NormalizeColor(value)
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
