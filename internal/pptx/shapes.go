package pptx

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2pptx/internal/pipeline"
)

// XML namespaces used by slide parts.
const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

// box is a rectangle in inches.
type box struct {
	x, y, w, h float64
}

type bulletKind int

const (
	bulletNone bulletKind = iota
	bulletChar
	bulletNumber
)

// paraStyle describes paragraph properties.
type paraStyle struct {
	align  string // l, ctr, r
	level  int
	bullet bulletKind
}

// runStyle describes character properties. Size is in points.
type runStyle struct {
	size   int
	bold   bool
	italic bool
	color  string
	font   string
}

// shapeTree wraps a slide's p:spTree and hands out shape ids.
type shapeTree struct {
	el     *etree.Element
	nextID int
}

// newSlideDocument creates a p:sld (or other root) with an empty shape tree.
// A non-empty background fills the slide with that color.
func newSlideDocument(root, background string) (*etree.Document, *shapeTree) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	sld := doc.CreateElement(root)
	sld.CreateAttr("xmlns:a", nsA)
	sld.CreateAttr("xmlns:r", nsR)
	sld.CreateAttr("xmlns:p", nsP)

	cSld := sld.CreateElement("p:cSld")
	if background != "" {
		bgPr := cSld.CreateElement("p:bg").CreateElement("p:bgPr")
		solidFill(bgPr, background)
		bgPr.CreateElement("a:effectLst")
	}

	tree := cSld.CreateElement("p:spTree")
	nv := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")

	xfrm := tree.CreateElement("p:grpSpPr").CreateElement("a:xfrm")
	for _, tag := range []string{"a:off", "a:ext", "a:chOff", "a:chExt"} {
		el := xfrm.CreateElement(tag)
		if tag == "a:off" || tag == "a:chOff" {
			el.CreateAttr("x", "0")
			el.CreateAttr("y", "0")
		} else {
			el.CreateAttr("cx", "0")
			el.CreateAttr("cy", "0")
		}
	}

	return doc, &shapeTree{el: tree, nextID: 2}
}

func (t *shapeTree) id() string {
	id := t.nextID
	t.nextID++
	return strconv.Itoa(id)
}

// nonVisual adds the cNvPr element shared by all shape kinds.
func (t *shapeTree) nonVisual(parent *etree.Element, tag, name string) *etree.Element {
	nv := parent.CreateElement(tag)
	cNvPr := nv.CreateElement("p:cNvPr")
	id := t.id()
	cNvPr.CreateAttr("id", id)
	cNvPr.CreateAttr("name", name+" "+id)
	return nv
}

// addTextBox adds a rectangle shape with a text body and returns the p:txBody.
// fill may be empty for a transparent box; anchor is t, ctr or b.
func (t *shapeTree) addTextBox(name string, b box, fill, anchor string) *etree.Element {
	sp := t.el.CreateElement("p:sp")
	nv := t.nonVisual(sp, "p:nvSpPr", name)
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	xfrm(spPr, "a:xfrm", b)
	prstGeom(spPr, "rect")
	if fill != "" {
		solidFill(spPr, fill)
	} else {
		spPr.CreateElement("a:noFill")
	}

	return textBody(sp, "p:txBody", anchor)
}

// addPicture adds an image shape referencing relationship rID.
func (t *shapeTree) addPicture(name, descr, rID string, b box) {
	pic := t.el.CreateElement("p:pic")
	nv := t.nonVisual(pic, "p:nvPicPr", name)
	if descr != "" {
		nv.SelectElement("p:cNvPr").CreateAttr("descr", descr)
	}
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	blipFill := pic.CreateElement("p:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", rID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("p:spPr")
	xfrm(spPr, "a:xfrm", b)
	prstGeom(spPr, "rect")
}

// addTable adds a table frame. Ragged rows are padded to the widest row.
func (t *shapeTree) addTable(rows []pipeline.TableRow, b box, theme *Theme) {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r.Cells))
	}
	if cols == 0 || len(rows) == 0 {
		return
	}

	frame := t.el.CreateElement("p:graphicFrame")
	nv := t.nonVisual(frame, "p:nvGraphicFramePr", "Table")
	nv.CreateElement("p:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noGrp", "1")
	nv.CreateElement("p:nvPr")
	xfrm(frame, "p:xfrm", b)

	data := frame.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", "http://schemas.openxmlformats.org/drawingml/2006/table")
	tbl := data.CreateElement("a:tbl")

	tblPr := tbl.CreateElement("a:tblPr")
	if rows[0].IsHeader {
		tblPr.CreateAttr("firstRow", "1")
	}
	tblPr.CreateAttr("bandRow", "1")

	grid := tbl.CreateElement("a:tblGrid")
	colWidth := strconv.FormatInt(emu(b.w)/int64(cols), 10)
	for range cols {
		grid.CreateElement("a:gridCol").CreateAttr("w", colWidth)
	}

	rowHeight := strconv.FormatInt(emu(b.h)/int64(len(rows)), 10)
	for i, row := range rows {
		tr := tbl.CreateElement("a:tr")
		tr.CreateAttr("h", rowHeight)

		fill := theme.Background
		rs := runStyle{size: theme.BodySize, color: theme.Text, font: theme.BodyFont}
		switch {
		case row.IsHeader:
			fill = theme.Primary
			rs.bold = true
			rs.color = theme.Background
		case i%2 == 1:
			fill = theme.Accent
		}

		for c := range cols {
			cell := ""
			if c < len(row.Cells) {
				cell = row.Cells[c]
			}
			tc := tr.CreateElement("a:tc")
			txBody := textBody(tc, "a:txBody", "")
			addSpans(addParagraph(txBody, paraStyle{}), pipeline.FormatInline(cell), rs, theme.CodeFont)
			tcPr := tc.CreateElement("a:tcPr")
			tcPr.CreateAttr("anchor", "ctr")
			solidFill(tcPr, fill)
		}
	}
}

// textBody creates a text body under parent. An empty anchor omits body properties.
func textBody(parent *etree.Element, tag, anchor string) *etree.Element {
	txBody := parent.CreateElement(tag)
	bodyPr := txBody.CreateElement("a:bodyPr")
	if anchor != "" {
		bodyPr.CreateAttr("wrap", "square")
		bodyPr.CreateAttr("lIns", strconv.FormatInt(emu(0.15), 10))
		bodyPr.CreateAttr("rIns", strconv.FormatInt(emu(0.15), 10))
		bodyPr.CreateAttr("anchor", anchor)
		bodyPr.CreateElement("a:normAutofit")
	}
	txBody.CreateElement("a:lstStyle")
	return txBody
}

// addParagraph appends an a:p with the given properties.
func addParagraph(txBody *etree.Element, ps paraStyle) *etree.Element {
	p := txBody.CreateElement("a:p")
	pPr := p.CreateElement("a:pPr")
	if ps.align != "" {
		pPr.CreateAttr("algn", ps.align)
	}

	switch ps.bullet {
	case bulletChar, bulletNumber:
		level := min(ps.level, 8)
		pPr.CreateAttr("lvl", strconv.Itoa(level))
		pPr.CreateAttr("marL", strconv.FormatInt(emu(0.35*float64(level+1)), 10))
		pPr.CreateAttr("indent", strconv.FormatInt(-emu(0.3), 10))
		if ps.bullet == bulletNumber {
			pPr.CreateElement("a:buAutoNum").CreateAttr("type", "arabicPeriod")
		} else {
			pPr.CreateElement("a:buFont").CreateAttr("typeface", "Arial")
			pPr.CreateElement("a:buChar").CreateAttr("char", "•")
		}
	default:
		pPr.CreateElement("a:buNone")
	}
	return p
}

// addRun appends a text run to paragraph p.
func addRun(p *etree.Element, text string, rs runStyle) {
	r := p.CreateElement("a:r")
	rPr := r.CreateElement("a:rPr")
	rPr.CreateAttr("lang", "en-US")
	if rs.size > 0 {
		rPr.CreateAttr("sz", strconv.Itoa(rs.size*100))
	}
	if rs.bold {
		rPr.CreateAttr("b", "1")
	}
	if rs.italic {
		rPr.CreateAttr("i", "1")
	}
	rPr.CreateAttr("dirty", "0")
	if rs.color != "" {
		solidFill(rPr, rs.color)
	}
	if rs.font != "" {
		rPr.CreateElement("a:latin").CreateAttr("typeface", rs.font)
	}
	r.CreateElement("a:t").SetText(text)
}

// addSpans appends one run per inline span. Code spans switch to codeFont.
func addSpans(p *etree.Element, spans []pipeline.Span, base runStyle, codeFont string) {
	for _, s := range spans {
		rs := base
		if s.Bold {
			rs.bold = true
		}
		if s.Code {
			rs.font = codeFont
		}
		addRun(p, s.Text, rs)
	}
}

func xfrm(parent *etree.Element, tag string, b box) {
	x := parent.CreateElement(tag)
	off := x.CreateElement("a:off")
	off.CreateAttr("x", strconv.FormatInt(emu(b.x), 10))
	off.CreateAttr("y", strconv.FormatInt(emu(b.y), 10))
	ext := x.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(emu(b.w), 10))
	ext.CreateAttr("cy", strconv.FormatInt(emu(b.h), 10))
}

func prstGeom(parent *etree.Element, preset string) {
	g := parent.CreateElement("a:prstGeom")
	g.CreateAttr("prst", preset)
	g.CreateElement("a:avLst")
}

func solidFill(parent *etree.Element, color string) {
	parent.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", color)
}
