package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
)

const nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

// Content types of the fixed parts.
const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCore         = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp          = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// mimeByExt covers media whose MIME type was not detected.
var mimeByExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
}

// WriteFile writes deck to a new file at filename. On failure the
// partial file is removed.
func WriteFile(filename string, deck *Deck) (err error) {
	f, err := os.Create(filename) // #nosec G304 -- caller-controlled path
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			_ = os.Remove(filename)
		}
	}()
	return Write(f, deck)
}

// Write serializes deck as a PresentationML package.
func Write(w io.Writer, deck *Deck) error {
	if deck == nil {
		return ErrNilDeck
	}
	if len(deck.Slides) == 0 {
		return ErrNoSlides
	}

	created := deck.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	media, names, err := collectMedia(deck)
	if err != nil {
		return err
	}

	pw := &partWriter{zw: zip.NewWriter(w), modified: created}
	n := len(deck.Slides)

	pw.xml("[Content_Types].xml", contentTypesXML(n, media))
	pw.xml("_rels/.rels", relationshipsXML([]relationship{
		{ID: "rId1", Type: relOfficeDocument, Target: "ppt/presentation.xml"},
		{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relExtendedProps, Target: "docProps/app.xml"},
	}))
	pw.xml("docProps/core.xml", coreXML(deck, created))
	pw.xml("docProps/app.xml", appXML(deck))
	pw.xml("ppt/presentation.xml", presentationXML(n))
	pw.xml("ppt/_rels/presentation.xml.rels", relationshipsXML(presentationRels(n)))
	pw.xml("ppt/slideMasters/slideMaster1.xml", slideMasterXML(&deck.Theme))
	pw.xml("ppt/slideMasters/_rels/slideMaster1.xml.rels", relationshipsXML([]relationship{
		{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
	}))
	pw.xml("ppt/slideLayouts/slideLayout1.xml", slideLayoutXML())
	pw.xml("ppt/slideLayouts/_rels/slideLayout1.xml.rels", relationshipsXML([]relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	}))
	pw.xml("ppt/theme/theme1.xml", themeXML(&deck.Theme))

	sr := &slideRenderer{deck: deck, names: names}
	for i := range deck.Slides {
		doc, rels := sr.render(&deck.Slides[i])
		name := "slide" + strconv.Itoa(i+1) + ".xml"
		pw.xml("ppt/slides/"+name, doc)
		pw.xml("ppt/slides/_rels/"+name+".rels", relationshipsXML(rels.all()))
	}

	for _, m := range media {
		pw.raw("ppt/media/"+names[m], m.Data)
	}

	if pw.err != nil {
		return pw.err
	}
	return pw.zw.Close()
}

// partWriter writes zip entries and keeps the first error.
type partWriter struct {
	zw       *zip.Writer
	modified time.Time
	err      error
}

func (pw *partWriter) xml(name string, doc *etree.Document) {
	if pw.err != nil {
		return
	}
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		pw.err = fmt.Errorf("serializing %s: %w", name, err)
		return
	}
	pw.write(name, zip.Deflate, buf.Bytes())
}

// raw stores already-compressed media without deflating it again.
func (pw *partWriter) raw(name string, data []byte) {
	if pw.err != nil {
		return
	}
	pw.write(name, zip.Store, data)
}

func (pw *partWriter) write(name string, method uint16, data []byte) {
	fw, err := pw.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: pw.modified,
	})
	if err != nil {
		pw.err = fmt.Errorf("adding %s: %w", name, err)
		return
	}
	if _, err := fw.Write(data); err != nil {
		pw.err = fmt.Errorf("writing %s: %w", name, err)
	}
}

// collectMedia returns the distinct media of the deck in first-use order
// (logo first) and the basename each is stored under. The same *Media
// is stored once; different media sharing a basename get a -N suffix.
func collectMedia(deck *Deck) ([]*Media, map[*Media]string, error) {
	var (
		ordered []*Media
		names   = make(map[*Media]string)
		taken   = make(map[string]bool)
	)

	add := func(m *Media) error {
		if m == nil {
			return nil
		}
		if _, ok := names[m]; ok {
			return nil
		}
		if len(m.Data) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyMedia, m.Name)
		}
		name := uniqueName(path.Base(m.Name), taken)
		taken[name] = true
		names[m] = name
		ordered = append(ordered, m)
		return nil
	}

	if err := add(deck.Logo); err != nil {
		return nil, nil, err
	}
	for _, s := range deck.Slides {
		for _, p := range s.Pictures {
			if err := add(p.Media); err != nil {
				return nil, nil, err
			}
		}
	}
	return ordered, names, nil
}

func uniqueName(name string, taken map[string]bool) string {
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	if !taken[name] {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ext
		if !taken[candidate] {
			return candidate
		}
	}
}

func contentTypesXML(slideCount int, media []*Media) *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	def := func(ext, ct string) {
		el := types.CreateElement("Default")
		el.CreateAttr("Extension", ext)
		el.CreateAttr("ContentType", ct)
	}
	def("rels", ctRels)
	def("xml", "application/xml")

	seen := map[string]bool{"rels": true, "xml": true}
	for _, m := range media {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(m.Name), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		ct := m.MIME
		if ct == "" {
			ct = mimeByExt[ext]
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		def(ext, ct)
	}

	override := func(part, ct string) {
		el := types.CreateElement("Override")
		el.CreateAttr("PartName", part)
		el.CreateAttr("ContentType", ct)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	for i := range slideCount {
		override("/ppt/slides/slide"+strconv.Itoa(i+1)+".xml", ctSlide)
	}
	override("/ppt/theme/theme1.xml", ctTheme)
	override("/docProps/core.xml", ctCore)
	override("/docProps/app.xml", ctApp)
	return doc
}

func coreXML(deck *Deck, created time.Time) *etree.Document {
	doc := newXMLDocument()
	cp := doc.CreateElement("cp:coreProperties")
	cp.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	cp.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	cp.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	cp.CreateAttr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	cp.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	cp.CreateElement("dc:title").SetText(deck.Title)
	if deck.Subtitle != "" {
		cp.CreateElement("dc:subject").SetText(deck.Subtitle)
	}
	if deck.Author != "" {
		cp.CreateElement("dc:creator").SetText(deck.Author)
	}
	if deck.ID != "" {
		cp.CreateElement("dc:identifier").SetText("urn:uuid:" + deck.ID)
	}

	stamp := created.UTC().Format(time.RFC3339)
	for _, tag := range []string{"dcterms:created", "dcterms:modified"} {
		el := cp.CreateElement(tag)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}
	return doc
}

func appXML(deck *Deck) *etree.Document {
	doc := newXMLDocument()
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	props.CreateElement("Application").SetText("go-md2pptx")
	props.CreateElement("Slides").SetText(strconv.Itoa(len(deck.Slides)))
	if deck.Institution != "" {
		props.CreateElement("Company").SetText(deck.Institution)
	}
	return doc
}
