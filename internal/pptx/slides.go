package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2pptx/internal/pipeline"
)

// slideRels collects the relationships of one slide part.
// rId1 always targets the slide layout.
type slideRels struct {
	images  []relationship
	byMedia map[string]string
}

func newSlideRels() *slideRels {
	return &slideRels{byMedia: make(map[string]string)}
}

// image returns the relationship id for a media basename, adding it once.
func (r *slideRels) image(name string) string {
	if id, ok := r.byMedia[name]; ok {
		return id
	}
	id := "rId" + strconv.Itoa(len(r.images)+2)
	r.images = append(r.images, relationship{ID: id, Type: relImage, Target: "../media/" + name})
	r.byMedia[name] = id
	return id
}

func (r *slideRels) all() []relationship {
	out := make([]relationship, 0, len(r.images)+1)
	out = append(out, relationship{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"})
	return append(out, r.images...)
}

// slideRenderer turns Slides into slide parts.
type slideRenderer struct {
	deck  *Deck
	names map[*Media]string // media basename as stored in the package
}

// render builds the slide XML and its relationships.
func (sr *slideRenderer) render(s *Slide) (*etree.Document, *slideRels) {
	th := &sr.deck.Theme
	rels := newSlideRels()

	var (
		doc  *etree.Document
		tree *shapeTree
	)
	switch s.Type {
	case pipeline.SlideTitle:
		doc, tree = newSlideDocument("p:sld", th.Background)
		sr.titleSlide(tree, s)
	case pipeline.SlideDivider:
		doc, tree = newSlideDocument("p:sld", th.Primary)
		sr.dividerSlide(tree, s)
	case pipeline.SlideClosing:
		doc, tree = newSlideDocument("p:sld", th.Primary)
		sr.closingSlide(tree, s)
	case pipeline.SlideQuote:
		doc, tree = newSlideDocument("p:sld", th.Background)
		sr.titleBar(tree, s.Title)
		sr.quoteSlide(tree, s)
	case pipeline.SlideImage:
		doc, tree = newSlideDocument("p:sld", th.Background)
		sr.titleBar(tree, s.Title)
		if len(s.Pictures) > 0 {
			sr.imageSlide(tree, rels, s)
		}
		sr.flow(tree, s, bulletChar)
	case pipeline.SlidePlan:
		doc, tree = newSlideDocument("p:sld", th.Background)
		sr.titleBar(tree, s.Title)
		sr.flow(tree, s, bulletNumber)
	default:
		doc, tree = newSlideDocument("p:sld", th.Background)
		sr.titleBar(tree, s.Title)
		sr.flow(tree, s, bulletChar)
	}

	sr.logo(tree, rels, s.Type)

	clr := doc.Root().CreateElement("p:clrMapOvr")
	clr.CreateElement("a:masterClrMapping")
	return doc, rels
}

// titleBar draws the primary-colored band holding the slide title.
func (sr *slideRenderer) titleBar(tree *shapeTree, title string) {
	th := &sr.deck.Theme
	body := tree.addTextBox("Title", box{0, 0, 13.333, titleBarHeight}, th.Primary, "ctr")
	p := addParagraph(body, paraStyle{align: "l"})
	addSpans(p, pipeline.FormatInline(title), runStyle{
		size:  th.HeadingSize,
		bold:  true,
		color: th.Background,
		font:  th.HeadingFont,
	}, th.CodeFont)
}

func (sr *slideRenderer) titleSlide(tree *shapeTree, s *Slide) {
	th := &sr.deck.Theme
	d := sr.deck

	title := s.Title
	if title == "" {
		title = d.Title
	}
	body := tree.addTextBox("Title", box{marginX, 2.2, contentWidth, 1.5}, "", "b")
	addSpans(addParagraph(body, paraStyle{align: "ctr"}), pipeline.FormatInline(title), runStyle{
		size: th.TitleSize, bold: true, color: th.Primary, font: th.HeadingFont,
	}, th.CodeFont)

	subtitle := []string{d.Subtitle}
	if d.Subtitle == "" {
		subtitle = textLines(s)
	}
	if len(subtitle) > 0 {
		body := tree.addTextBox("Subtitle", box{marginX, 3.8, contentWidth, 0.8}, "", "t")
		for _, line := range subtitle {
			addSpans(addParagraph(body, paraStyle{align: "ctr"}), pipeline.FormatInline(line), runStyle{
				size: th.HeadingSize, color: th.Secondary, font: th.BodyFont,
			}, th.CodeFont)
		}
	}

	if byline := joinNonEmpty(" | ", d.Author, d.Institution, d.Date); byline != "" {
		body := tree.addTextBox("Byline", box{marginX, 4.8, contentWidth, 0.6}, "", "t")
		addRun(addParagraph(body, paraStyle{align: "ctr"}), byline, runStyle{
			size: th.BodySize, color: th.Text, font: th.BodyFont,
		})
	}
}

func (sr *slideRenderer) dividerSlide(tree *shapeTree, s *Slide) {
	th := &sr.deck.Theme
	body := tree.addTextBox("Title", box{marginX, 2.5, contentWidth, 1.5}, "", "ctr")
	addSpans(addParagraph(body, paraStyle{align: "ctr"}), pipeline.FormatInline(s.Title), runStyle{
		size: th.TitleSize, bold: true, color: th.Background, font: th.HeadingFont,
	}, th.CodeFont)

	if lines := textLines(s); len(lines) > 0 {
		body := tree.addTextBox("Subtitle", box{marginX, 4.1, contentWidth, 0.8}, "", "t")
		for _, line := range lines {
			addSpans(addParagraph(body, paraStyle{align: "ctr"}), pipeline.FormatInline(line), runStyle{
				size: th.BodySize, color: th.Background, font: th.BodyFont,
			}, th.CodeFont)
		}
	}
}

func (sr *slideRenderer) closingSlide(tree *shapeTree, s *Slide) {
	th := &sr.deck.Theme
	d := sr.deck

	text := s.Title
	if text == "" {
		text = d.ClosingText
	}
	body := tree.addTextBox("Closing", box{marginX, 2.5, contentWidth, 1.5}, "", "ctr")
	addRun(addParagraph(body, paraStyle{align: "ctr"}), text, runStyle{
		size: th.TitleSize, bold: true, color: th.Background, font: th.HeadingFont,
	})

	var lines []string
	for _, l := range []string{d.Instructor, d.Institution} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return
	}
	body = tree.addTextBox("Contact", box{marginX, 4.2, contentWidth, 1.0}, "", "t")
	for _, l := range lines {
		addRun(addParagraph(body, paraStyle{align: "ctr"}), l, runStyle{
			size: th.BodySize, color: th.Background, font: th.BodyFont,
		})
	}
}

// quoteSlide centers every text and bullet line in italics.
// Leading blockquote markers are dropped.
func (sr *slideRenderer) quoteSlide(tree *shapeTree, s *Slide) {
	th := &sr.deck.Theme

	var lines []string
	for i, el := range s.Elements {
		if !s.included(i) {
			continue
		}
		switch el.Kind {
		case pipeline.KindText:
			lines = append(lines, strings.Split(el.Text, "\n")...)
		case pipeline.KindBullets:
			for _, b := range el.Bullets {
				lines = append(lines, b.Text)
			}
		}
	}
	if len(lines) == 0 {
		return
	}

	body := tree.addTextBox("Quote", box{1.5, 2.0, 13.333 - 3.0, 3.5}, "", "ctr")
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(l), ">"))
		addSpans(addParagraph(body, paraStyle{align: "ctr"}), pipeline.FormatInline(l), runStyle{
			size: th.HeadingSize, italic: true, color: th.Text, font: th.BodyFont,
		}, th.CodeFont)
	}
}

// imageSlide lays pictures side by side below the title bar, each scaled
// to fit its slot with its caption underneath.
func (sr *slideRenderer) imageSlide(tree *shapeTree, rels *slideRels, s *Slide) {
	th := &sr.deck.Theme
	const (
		top      = titleBarHeight + 0.3
		captionH = 0.5
		gap      = 0.3
	)
	areaHeight := 7.5 - top - captionH - 0.3
	if s.hasIncluded() {
		areaHeight = PictureFlowTop - top - captionH - 0.1
	}

	n := float64(len(s.Pictures))
	slotW := (contentWidth - gap*(n-1)) / n
	for i, pic := range s.Pictures {
		name, ok := sr.names[pic.Media]
		if !ok {
			continue
		}
		w, h := fitInside(pic.Media.Width, pic.Media.Height, slotW, areaHeight)
		slotX := marginX + float64(i)*(slotW+gap)
		x := slotX + (slotW-w)/2
		y := top + (areaHeight-h)/2
		tree.addPicture("Picture", pic.Caption, rels.image(name), box{x, y, w, h})

		if pic.Caption != "" {
			body := tree.addTextBox("Caption", box{slotX, y + h + 0.05, slotW, captionH}, "", "t")
			addRun(addParagraph(body, paraStyle{align: "ctr"}), pic.Caption, runStyle{
				size: th.BodySize - 4, italic: true, color: th.Secondary, font: th.BodyFont,
			})
		}
	}
}

// flow draws the included elements at their layout positions.
func (sr *slideRenderer) flow(tree *shapeTree, s *Slide, bullets bulletKind) {
	th := &sr.deck.Theme
	base := runStyle{size: th.BodySize, color: th.Text, font: th.BodyFont}

	for _, p := range s.Layout.Placements {
		if !p.Included || p.Index >= len(s.Elements) || p.Height <= 0 {
			continue
		}
		el := s.Elements[p.Index]
		b := box{marginX, p.Y, contentWidth, p.Height}

		switch el.Kind {
		case pipeline.KindBullets:
			body := tree.addTextBox("Bullets", b, "", "t")
			for _, bl := range el.Bullets {
				para := addParagraph(body, paraStyle{level: bl.Level, bullet: bullets})
				addSpans(para, pipeline.FormatInline(bl.Text), base, th.CodeFont)
			}
		case pipeline.KindCode:
			sr.code(tree, el.Code, b)
		case pipeline.KindTable:
			tree.addTable(el.Table, b, th)
		default:
			body := tree.addTextBox("Text", b, "", "t")
			for _, line := range strings.Split(el.Text, "\n") {
				addSpans(addParagraph(body, paraStyle{}), pipeline.FormatInline(line), base, th.CodeFont)
			}
		}
	}
}

func (sr *slideRenderer) code(tree *shapeTree, cb pipeline.CodeBlock, b box) {
	th := &sr.deck.Theme
	hl := highlightCode(cb.Code, cb.Language, th.CodeStyle)
	fg := hl.Foreground
	if fg == "" {
		fg = th.Text
	}

	body := tree.addTextBox("Code", b, hl.Background, "t")
	for _, line := range hl.Lines {
		p := addParagraph(body, paraStyle{})
		if len(line) == 0 {
			addRun(p, " ", runStyle{size: th.CodeSize, font: th.CodeFont})
			continue
		}
		for _, run := range line {
			color := run.Color
			if color == "" {
				color = fg
			}
			addRun(p, run.Text, runStyle{
				size:   th.CodeSize,
				bold:   run.Bold,
				italic: run.Italic,
				color:  color,
				font:   th.CodeFont,
			})
		}
	}
}

// logo places the deck logo in the top-right corner, centered on the
// title bar when the slide has one.
func (sr *slideRenderer) logo(tree *shapeTree, rels *slideRels, t pipeline.SlideType) {
	logo := sr.deck.Logo
	if logo == nil {
		return
	}
	name, ok := sr.names[logo]
	if !ok {
		return
	}

	w, h := fitInside(logo.Width, logo.Height, logoMaxWidth, logoHeight)
	x := 13.333 - logoMargin - w
	y := logoMargin
	switch t {
	case pipeline.SlideTitle, pipeline.SlideDivider, pipeline.SlideClosing:
	default:
		y = (titleBarHeight - h) / 2
	}
	tree.addPicture("Logo", "", rels.image(name), box{x, y, w, h})
}

// fitInside scales a w x h pixel image into a maxW x maxH inch box
// preserving aspect ratio. Unknown dimensions yield a square.
func fitInside(w, h int, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		side := min(maxW, maxH)
		return side, side
	}
	ratio := float64(w) / float64(h)
	if maxW/maxH > ratio {
		return maxH * ratio, maxH
	}
	return maxW, maxW / ratio
}

// included reports whether element i is drawn. A slide without a layout
// draws every element.
func (s *Slide) included(i int) bool {
	if len(s.Layout.Placements) != len(s.Elements) {
		return true
	}
	return s.Layout.Placements[i].Included
}

// hasIncluded reports whether the layout places any element.
func (s *Slide) hasIncluded() bool {
	for _, p := range s.Layout.Placements {
		if p.Included {
			return true
		}
	}
	return false
}

// textLines returns the lines of the first drawn text element.
func textLines(s *Slide) []string {
	for i, el := range s.Elements {
		if el.Kind == pipeline.KindText && el.Text != "" && s.included(i) {
			return strings.Split(el.Text, "\n")
		}
	}
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
