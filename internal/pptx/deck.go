// Package pptx writes PresentationML (.pptx) packages.
//
// A package is a zip archive of XML parts. Write builds the minimal set a
// presentation program needs: content types, package relationships, core
// and app properties, the presentation part, one slide master with one
// blank layout, one theme, and one part per slide. Media is stored under
// ppt/media/ with its original basename.
package pptx

import (
	"errors"
	"strings"
	"time"

	"github.com/alnah/go-md2pptx/internal/pipeline"
)

// Sentinel errors for package writing.
var (
	ErrNilDeck    = errors.New("deck cannot be nil")
	ErrNoSlides   = errors.New("deck has no slides")
	ErrEmptyMedia = errors.New("media has no data")
)

// EMUs per inch (English Metric Units).
const emuPerInch = 914400

// Slide dimensions, 16:9 widescreen.
const (
	SlideWidth  = 12192000
	SlideHeight = 6858000
)

// Slide geometry in inches.
const (
	marginX        = 0.5
	titleBarHeight = 1.2
	contentWidth   = 13.333 - 2*marginX
	logoHeight     = 0.8
	logoMaxWidth   = 1.6
	logoMargin     = 0.2
)

// PictureFlowTop is where body elements start on an image slide that also
// has pictures. The pictures shrink to fit above it.
const PictureFlowTop = 5.0

// emu converts inches to EMUs.
func emu(inches float64) int64 {
	return int64(inches * emuPerInch)
}

// Theme carries the resolved styling of a deck.
// Colors are six hex digits without a leading '#'. Sizes are in points.
type Theme struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Background string

	HeadingFont string
	BodyFont    string
	CodeFont    string

	TitleSize   int
	HeadingSize int
	BodySize    int
	CodeSize    int

	CodeStyle string // chroma style name
}

// NormalizeColor strips a leading '#' and upper-cases a hex color.
func NormalizeColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}

// Media is an image embedded in the package.
type Media struct {
	Name   string // basename stored under ppt/media/
	Data   []byte
	MIME   string
	Width  int // pixels, 0 if unknown
	Height int
}

// Ext returns the lower-cased extension of the media name without the dot.
func (m *Media) Ext() string {
	i := strings.LastIndexByte(m.Name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(m.Name[i+1:])
}

// Picture places a media item on a slide.
type Picture struct {
	Media   *Media
	Caption string
}

// Slide is one rendered slide. Only elements included by Layout are
// drawn; a slide without a layout draws every element its type can show.
// Pictures are used by image slides.
type Slide struct {
	Type     pipeline.SlideType
	Title    string
	Elements []pipeline.Element
	Layout   pipeline.Layout
	Pictures []Picture
}

// Deck is everything needed to write a package.
type Deck struct {
	ID          string // core properties identifier
	Title       string
	Subtitle    string
	Author      string
	Institution string
	Instructor  string
	Date        string // shown on the title slide as written
	ClosingText string
	Created     time.Time
	Theme       Theme
	Logo        *Media
	Slides      []Slide
}
