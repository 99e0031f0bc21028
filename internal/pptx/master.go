package pptx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

const nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

// First ids PowerPoint expects for masters/layouts and slides.
const (
	firstMasterID = 2147483648
	firstSlideID  = 256
)

type relationship struct {
	ID     string
	Type   string
	Target string
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func relationshipsXML(rels []relationship) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r.ID)
		el.CreateAttr("Type", r.Type)
		el.CreateAttr("Target", r.Target)
	}
	return doc
}

// presentationXML lists the master and the slides in order.
// Slide relationships start at rId3.
func presentationXML(slideCount int) *etree.Document {
	doc := newXMLDocument()
	pres := doc.CreateElement("p:presentation")
	pres.CreateAttr("xmlns:a", nsA)
	pres.CreateAttr("xmlns:r", nsR)
	pres.CreateAttr("xmlns:p", nsP)
	pres.CreateAttr("saveSubsetFonts", "1")

	master := pres.CreateElement("p:sldMasterIdLst").CreateElement("p:sldMasterId")
	master.CreateAttr("id", strconv.Itoa(firstMasterID))
	master.CreateAttr("r:id", "rId1")

	list := pres.CreateElement("p:sldIdLst")
	for i := range slideCount {
		el := list.CreateElement("p:sldId")
		el.CreateAttr("id", strconv.Itoa(firstSlideID+i))
		el.CreateAttr("r:id", "rId"+strconv.Itoa(i+3))
	}

	sz := pres.CreateElement("p:sldSz")
	sz.CreateAttr("cx", strconv.Itoa(SlideWidth))
	sz.CreateAttr("cy", strconv.Itoa(SlideHeight))
	notes := pres.CreateElement("p:notesSz")
	notes.CreateAttr("cx", strconv.Itoa(SlideHeight))
	notes.CreateAttr("cy", strconv.Itoa(SlideWidth))
	return doc
}

func presentationRels(slideCount int) []relationship {
	rels := []relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"},
		{ID: "rId2", Type: relTheme, Target: "theme/theme1.xml"},
	}
	for i := range slideCount {
		rels = append(rels, relationship{
			ID:     "rId" + strconv.Itoa(i+3),
			Type:   relSlide,
			Target: "slides/slide" + strconv.Itoa(i+1) + ".xml",
		})
	}
	return rels
}

func slideMasterXML(th *Theme) *etree.Document {
	doc, _ := newSlideDocument("p:sldMaster", th.Background)
	root := doc.Root()

	clr := root.CreateElement("p:clrMap")
	for _, kv := range [][2]string{
		{"bg1", "lt1"}, {"tx1", "dk1"}, {"bg2", "lt2"}, {"tx2", "dk2"},
		{"accent1", "accent1"}, {"accent2", "accent2"}, {"accent3", "accent3"},
		{"accent4", "accent4"}, {"accent5", "accent5"}, {"accent6", "accent6"},
		{"hlink", "hlink"}, {"folHlink", "folHlink"},
	} {
		clr.CreateAttr(kv[0], kv[1])
	}

	layout := root.CreateElement("p:sldLayoutIdLst").CreateElement("p:sldLayoutId")
	layout.CreateAttr("id", strconv.Itoa(firstMasterID+1))
	layout.CreateAttr("r:id", "rId1")
	return doc
}

func slideLayoutXML() *etree.Document {
	doc, _ := newSlideDocument("p:sldLayout", "")
	root := doc.Root()
	root.CreateAttr("type", "blank")
	root.CreateAttr("preserve", "1")
	root.SelectElement("p:cSld").CreateAttr("name", "Blank")
	root.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return doc
}

// themeXML builds the theme part from the deck colors and fonts.
func themeXML(th *Theme) *etree.Document {
	doc := newXMLDocument()
	theme := doc.CreateElement("a:theme")
	theme.CreateAttr("xmlns:a", nsA)
	theme.CreateAttr("name", "md2pptx")

	elements := theme.CreateElement("a:themeElements")

	scheme := elements.CreateElement("a:clrScheme")
	scheme.CreateAttr("name", "md2pptx")
	sysColor(scheme, "a:dk1", th.Text)
	sysColor(scheme, "a:lt1", th.Background)
	sysColor(scheme, "a:dk2", th.Secondary)
	sysColor(scheme, "a:lt2", "E7E6E6")
	sysColor(scheme, "a:accent1", th.Primary)
	sysColor(scheme, "a:accent2", th.Secondary)
	sysColor(scheme, "a:accent3", th.Accent)
	sysColor(scheme, "a:accent4", "FFC000")
	sysColor(scheme, "a:accent5", "5B9BD5")
	sysColor(scheme, "a:accent6", "70AD47")
	sysColor(scheme, "a:hlink", th.Primary)
	sysColor(scheme, "a:folHlink", th.Secondary)

	fonts := elements.CreateElement("a:fontScheme")
	fonts.CreateAttr("name", "md2pptx")
	for _, f := range []struct{ tag, face string }{
		{"a:majorFont", th.HeadingFont},
		{"a:minorFont", th.BodyFont},
	} {
		el := fonts.CreateElement(f.tag)
		el.CreateElement("a:latin").CreateAttr("typeface", f.face)
		el.CreateElement("a:ea").CreateAttr("typeface", "")
		el.CreateElement("a:cs").CreateAttr("typeface", "")
	}

	fmtScheme := elements.CreateElement("a:fmtScheme")
	fmtScheme.CreateAttr("name", "md2pptx")
	fills := fmtScheme.CreateElement("a:fillStyleLst")
	lines := fmtScheme.CreateElement("a:lnStyleLst")
	effects := fmtScheme.CreateElement("a:effectStyleLst")
	bgFills := fmtScheme.CreateElement("a:bgFillStyleLst")
	for _, w := range []string{"6350", "12700", "19050"} {
		fills.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")
		bgFills.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")

		ln := lines.CreateElement("a:ln")
		ln.CreateAttr("w", w)
		ln.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")

		effects.CreateElement("a:effectStyle").CreateElement("a:effectLst")
	}

	theme.CreateElement("a:objectDefaults")
	theme.CreateElement("a:extraClrSchemeLst")
	return doc
}

func sysColor(parent *etree.Element, tag, hex string) {
	parent.CreateElement(tag).CreateElement("a:srgbClr").CreateAttr("val", hex)
}
