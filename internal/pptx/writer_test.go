package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2pptx/internal/pipeline"
)

func testTheme() Theme {
	return Theme{
		Primary:     "1F4E79",
		Secondary:   "2E75B6",
		Accent:      "DEEBF7",
		Text:        "222222",
		Background:  "FFFFFF",
		HeadingFont: "Calibri",
		BodyFont:    "Calibri",
		CodeFont:    "Consolas",
		TitleSize:   40,
		HeadingSize: 28,
		BodySize:    18,
		CodeSize:    12,
		CodeStyle:   "github",
	}
}

func pngMedia(t *testing.T, name string, w, h int) *Media {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return &Media{Name: name, Data: buf.Bytes(), MIME: "image/png", Width: w, Height: h}
}

func flowed(typ pipeline.SlideType, title string, elements []pipeline.Element) Slide {
	return Slide{
		Type:     typ,
		Title:    title,
		Elements: elements,
		Layout:   pipeline.FlowLayout(elements, pipeline.DefaultMetrics()),
	}
}

// openPackage writes deck and returns the package entries by name, plus
// the entry names in archive order.
func openPackage(t *testing.T, deck *Deck) (map[string][]byte, []string) {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(&buf, deck); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}

	parts := make(map[string][]byte)
	var order []string
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		parts[f.Name] = data
		order = append(order, f.Name)
	}
	return parts, order
}

func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("invalid XML: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestWrite - Package structure
// ---------------------------------------------------------------------------

func TestWrite_PackageParts(t *testing.T) {
	t.Parallel()

	deck := &Deck{
		ID:      "0190c3f0-0000-7000-8000-000000000000",
		Title:   "Go Basics",
		Author:  "A. Lovelace",
		Created: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
		Theme:   testTheme(),
		Slides: []Slide{
			{Type: pipeline.SlideTitle, Title: "Go Basics"},
			flowed(pipeline.SlideContent, "Intro", []pipeline.Element{
				{Kind: pipeline.KindBullets, Bullets: []pipeline.Bullet{{Text: "one"}, {Text: "two"}}},
			}),
			{Type: pipeline.SlideClosing, Title: "Thank you"},
		},
	}

	parts, order := openPackage(t, deck)

	if order[0] != "[Content_Types].xml" {
		t.Errorf("first entry = %q, want [Content_Types].xml", order[0])
	}

	for _, name := range []string{
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideMasters/_rels/slideMaster1.xml.rels",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide3.xml",
		"ppt/slides/_rels/slide3.xml.rels",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if _, ok := parts["ppt/slides/slide4.xml"]; ok {
		t.Error("unexpected slide4.xml")
	}

	pres := parseXML(t, parts["ppt/presentation.xml"])
	ids := pres.FindElements("//p:sldIdLst/p:sldId")
	if len(ids) != 3 {
		t.Fatalf("sldId count = %d, want 3", len(ids))
	}
	if ids[0].SelectAttrValue("id", "") != "256" || ids[2].SelectAttrValue("r:id", "") != "rId5" {
		t.Errorf("slide ids = %s/%s", ids[0].SelectAttrValue("id", ""), ids[2].SelectAttrValue("r:id", ""))
	}

	ct := parseXML(t, parts["[Content_Types].xml"])
	overrides := 0
	for _, el := range ct.FindElements("//Override") {
		if el.SelectAttrValue("ContentType", "") == ctSlide {
			overrides++
		}
	}
	if overrides != 3 {
		t.Errorf("slide overrides = %d, want 3", overrides)
	}

	core := parseXML(t, parts["docProps/core.xml"])
	if got := core.FindElement("//dc:title").Text(); got != "Go Basics" {
		t.Errorf("dc:title = %q", got)
	}
	if got := core.FindElement("//dc:identifier").Text(); got != "urn:uuid:"+deck.ID {
		t.Errorf("dc:identifier = %q", got)
	}
	if got := core.FindElement("//dcterms:created").Text(); got != "2024-09-01T08:00:00Z" {
		t.Errorf("dcterms:created = %q", got)
	}

	app := parseXML(t, parts["docProps/app.xml"])
	if got := app.FindElement("//Slides").Text(); got != "3" {
		t.Errorf("app Slides = %q, want 3", got)
	}
}

func TestWrite_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		deck    *Deck
		wantErr error
	}{
		{"nil deck", nil, ErrNilDeck},
		{"no slides", &Deck{Theme: testTheme()}, ErrNoSlides},
		{
			"empty media",
			&Deck{
				Theme:  testTheme(),
				Logo:   &Media{Name: "logo.png"},
				Slides: []Slide{{Type: pipeline.SlideTitle}},
			},
			ErrEmptyMedia,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Write(io.Discard, tt.deck)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Write() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWrite media - Dedupe and naming
// ---------------------------------------------------------------------------

func TestWrite_Media(t *testing.T) {
	t.Parallel()

	logo := pngMedia(t, "logo.png", 4, 2)
	photoA := pngMedia(t, "photo.png", 8, 4)
	photoB := pngMedia(t, "img/photo.png", 2, 8)

	deck := &Deck{
		Title: "Pictures",
		Theme: testTheme(),
		Logo:  logo,
		Slides: []Slide{
			{Type: pipeline.SlideImage, Title: "Two", Pictures: []Picture{
				{Media: photoA, Caption: "first"},
				{Media: photoB},
			}},
			{Type: pipeline.SlideImage, Title: "Again", Pictures: []Picture{{Media: photoA}}},
		},
	}

	parts, order := openPackage(t, deck)

	var media []string
	for _, name := range order {
		if strings.HasPrefix(name, "ppt/media/") {
			media = append(media, name)
		}
	}
	want := []string{"ppt/media/logo.png", "ppt/media/photo.png", "ppt/media/photo-2.png"}
	if len(media) != len(want) {
		t.Fatalf("media = %v, want %v", media, want)
	}
	for i := range want {
		if media[i] != want[i] {
			t.Errorf("media[%d] = %q, want %q", i, media[i], want[i])
		}
	}

	rels := parseXML(t, parts["ppt/slides/_rels/slide1.xml.rels"])
	targets := map[string]bool{}
	for _, el := range rels.FindElements("//Relationship") {
		targets[el.SelectAttrValue("Target", "")] = true
	}
	for _, tgt := range []string{"../slideLayouts/slideLayout1.xml", "../media/photo.png", "../media/photo-2.png", "../media/logo.png"} {
		if !targets[tgt] {
			t.Errorf("slide1 rels missing %s", tgt)
		}
	}

	slide := parseXML(t, parts["ppt/slides/slide1.xml"])
	if n := len(slide.FindElements("//p:pic")); n != 3 {
		t.Errorf("slide1 pictures = %d, want 3 (two photos and logo)", n)
	}
	if !strings.Contains(string(parts["ppt/slides/slide1.xml"]), ">first<") {
		t.Error("caption not rendered")
	}

	ct := parseXML(t, parts["[Content_Types].xml"])
	found := false
	for _, el := range ct.FindElements("//Default") {
		if el.SelectAttrValue("Extension", "") == "png" {
			found = el.SelectAttrValue("ContentType", "") == "image/png"
		}
	}
	if !found {
		t.Error("missing png default content type")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "deck.pptx")
	deck := &Deck{Title: "t", Theme: testTheme(), Slides: []Slide{{Type: pipeline.SlideTitle, Title: "t"}}}

	if err := WriteFile(out, deck); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := zip.OpenReader(out); err != nil {
		t.Errorf("written file is not a zip: %v", err)
	}

	bad := filepath.Join(dir, "empty.pptx")
	if err := WriteFile(bad, &Deck{}); !errors.Is(err, ErrNoSlides) {
		t.Errorf("WriteFile() error = %v, want ErrNoSlides", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed write left a file behind")
	}
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{"a.png": true, "a-2.png": true}
	tests := []struct {
		in, want string
	}{
		{"b.png", "b.png"},
		{"a.png", "a-3.png"},
		{"", "image"},
	}
	for _, tt := range tests {
		if got := uniqueName(tt.in, taken); got != tt.want {
			t.Errorf("uniqueName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
