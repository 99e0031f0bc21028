package md2pptx

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/alnah/go-md2pptx/internal/archive"
	"github.com/alnah/go-md2pptx/internal/pptx"
	"github.com/alnah/go-md2pptx/internal/yamlutil"
)

// Default sizes in points and code style, used when a theme leaves them unset.
const (
	DefaultTitleSize   = 40
	DefaultHeadingSize = 28
	DefaultBodySize    = 18
	DefaultCodeSize    = 12
	DefaultCodeTheme   = "github"
	DefaultClosingText = "Thank you"
)

// Size bounds in points.
const (
	MinFontSize = 6
	MaxFontSize = 120
)

// hexColor accepts six hex digits with an optional leading '#'.
var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// Input contains compilation parameters.
type Input struct {
	Markdown string // Markdown content (required)
	Output   string // Destination .pptx path (required)
	BaseDir  string // Directory for relative image and logo paths (optional)
	Preview  bool   // Also render an HTML preview into CompileResult.HTML
}

// MediaEntry records how one embedded media file was renamed.
type MediaEntry = archive.MediaEntry

// CompileResult describes a finished compilation.
type CompileResult struct {
	Path    string       // Final package path
	Slides  int          // Slide count, closing slide included
	Omitted int          // Elements left out because a slide was full
	Media   []MediaEntry // Media renames applied by post-processing
	HTML    []byte       // HTML preview, set when Input.Preview is true
}

// Style is the visual configuration of a deck.
type Style struct {
	Name      string      `yaml:"name"`
	Colors    StyleColors `yaml:"colors"`
	Fonts     StyleFonts  `yaml:"fonts"`
	Sizes     StyleSizes  `yaml:"sizes"`
	CodeTheme string      `yaml:"codeTheme"` // chroma style name
	Closing   string      `yaml:"closing"`   // closing slide text

	Institution string `yaml:"institution"`
	Instructor  string `yaml:"instructor"`
	Logo        string `yaml:"logo"` // path, relative to Input.BaseDir
}

// StyleColors holds hex colors ("#RRGGBB").
type StyleColors struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"` // optional, defaults to secondary
	Text       string `yaml:"text"`
	Background string `yaml:"background"`
}

// StyleFonts holds font family names.
type StyleFonts struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Code    string `yaml:"code"`
}

// StyleSizes holds font sizes in points. Zero selects the default.
type StyleSizes struct {
	Title   int `yaml:"title"`
	Heading int `yaml:"heading"`
	Body    int `yaml:"body"`
	Code    int `yaml:"code"`
}

// ParseStyle decodes and validates a YAML theme.
// Unknown keys, missing required keys and malformed values yield ErrMissingConfig.
func ParseStyle(data []byte) (*Style, error) {
	var s Style
	if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that required keys are present and values are well formed.
func (s *Style) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: style is nil", ErrMissingConfig)
	}
	err := validation.ValidateStruct(s,
		validation.Field(&s.Colors),
		validation.Field(&s.Fonts),
		validation.Field(&s.Sizes),
		validation.Field(&s.Closing, validation.Length(0, 200)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (c StyleColors) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Primary, validation.Required, validation.Match(hexColor)),
		validation.Field(&c.Secondary, validation.Required, validation.Match(hexColor)),
		validation.Field(&c.Accent, validation.Match(hexColor)),
		validation.Field(&c.Text, validation.Required, validation.Match(hexColor)),
		validation.Field(&c.Background, validation.Required, validation.Match(hexColor)),
	)
}

// Validate implements validation.Validatable.
func (f StyleFonts) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Heading, validation.Required),
		validation.Field(&f.Body, validation.Required),
		validation.Field(&f.Code, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (z StyleSizes) Validate() error {
	bounds := validation.Min(MinFontSize)
	upper := validation.Max(MaxFontSize)
	return validation.ValidateStruct(&z,
		validation.Field(&z.Title, bounds, upper),
		validation.Field(&z.Heading, bounds, upper),
		validation.Field(&z.Body, bounds, upper),
		validation.Field(&z.Code, bounds, upper),
	)
}

// theme converts the style to the package writer's theme, filling defaults.
func (s *Style) theme() pptx.Theme {
	accent := s.Colors.Accent
	if accent == "" {
		accent = s.Colors.Secondary
	}
	return pptx.Theme{
		Primary:     pptx.NormalizeColor(s.Colors.Primary),
		Secondary:   pptx.NormalizeColor(s.Colors.Secondary),
		Accent:      pptx.NormalizeColor(accent),
		Text:        pptx.NormalizeColor(s.Colors.Text),
		Background:  pptx.NormalizeColor(s.Colors.Background),
		HeadingFont: s.Fonts.Heading,
		BodyFont:    s.Fonts.Body,
		CodeFont:    s.Fonts.Code,
		TitleSize:   orDefault(s.Sizes.Title, DefaultTitleSize),
		HeadingSize: orDefault(s.Sizes.Heading, DefaultHeadingSize),
		BodySize:    orDefault(s.Sizes.Body, DefaultBodySize),
		CodeSize:    orDefault(s.Sizes.Code, DefaultCodeSize),
		CodeStyle:   orDefault(s.CodeTheme, DefaultCodeTheme),
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	themeInput string // theme name or path, resolved in NewConverter
	assetPath  string
	fixZip     bool
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTheme selects a theme by name or file path.
func WithTheme(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.themeInput = nameOrPath
	}
}

// WithStyle sets the style directly, bypassing theme lookup.
// The style is validated by NewConverter.
func WithStyle(s *Style) Option {
	return func(c *Converter) {
		c.style = s
	}
}

// WithAssetPath sets a directory whose themes/ take precedence over the
// built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithFixZip rewrites the final package without streaming data
// descriptors, for readers that reject them.
func WithFixZip(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.fixZip = enabled
	}
}
