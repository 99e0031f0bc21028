package pipeline

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFormatInline - Bold and code spans
// ---------------------------------------------------------------------------

func TestFormatInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{name: "empty", input: "", want: nil},
		{name: "plain", input: "hello", want: []Span{{Text: "hello"}}},
		{
			name:  "bold in the middle",
			input: "a **b** c",
			want:  []Span{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}},
		},
		{
			name:  "code span",
			input: "run `go test` now",
			want:  []Span{{Text: "run "}, {Text: "go test", Code: true}, {Text: " now"}},
		},
		{
			name:  "bold then code",
			input: "**x**`y`",
			want:  []Span{{Text: "x", Bold: true}, {Text: "y", Code: true}},
		},
		{
			name:  "earliest match wins",
			input: "`**not bold**` and **bold**",
			want:  []Span{{Text: "**not bold**", Code: true}, {Text: " and "}, {Text: "bold", Bold: true}},
		},
		{
			name:  "non-greedy bold",
			input: "**a** and **b**",
			want:  []Span{{Text: "a", Bold: true}, {Text: " and "}, {Text: "b", Bold: true}},
		},
		{name: "unterminated bold is literal", input: "**open", want: []Span{{Text: "**open"}}},
		{name: "unterminated code is literal", input: "`open", want: []Span{{Text: "`open"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FormatInline(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatInline(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	if got := PlainText("use **bold** and `code`"); got != "use bold and code" {
		t.Errorf("PlainText() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestFlowLayout - Greedy placement and truncation
// ---------------------------------------------------------------------------

func textElement(s string) Element { return Element{Kind: KindText, Text: s} }

func bulletsElement(n int) Element {
	bullets := make([]Bullet, n)
	for i := range bullets {
		bullets[i] = Bullet{Text: "b"}
	}
	return Element{Kind: KindBullets, Bullets: bullets}
}

func codeElement(lines int) Element {
	return Element{Kind: KindCode, Code: CodeBlock{Language: "text", Code: strings.Repeat("x\n", lines-1) + "x"}}
}

func tableElement(rows int) Element {
	table := make([]TableRow, rows)
	for i := range table {
		table[i] = TableRow{Cells: []string{"c"}}
	}
	return Element{Kind: KindTable, Table: table}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFlowLayout(t *testing.T) {
	t.Parallel()

	m := DefaultMetrics()

	t.Run("empty slide", func(t *testing.T) {
		t.Parallel()

		got := FlowLayout(nil, m)
		if len(got.Placements) != 0 || got.Omitted != 0 {
			t.Errorf("got %+v, want empty layout", got)
		}
	})

	t.Run("heights per kind", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			el   Element
			want float64
		}{
			{name: "text fixed", el: textElement("hi"), want: m.TextHeight},
			{name: "bullets proportional", el: bulletsElement(3), want: 3 * m.BulletLine},
			{name: "short code floored", el: codeElement(2), want: m.CodeMin},
			{name: "long code proportional", el: codeElement(10), want: 10 * m.CodeLine},
			{name: "table rows", el: tableElement(4), want: 4 * m.TableRow},
		}
		for _, tt := range tests {
			got := FlowLayout([]Element{tt.el}, m)
			p := got.Placements[0]
			if !p.Included || !approx(p.Y, m.Top) || !approx(p.Height, tt.want) {
				t.Errorf("%s: placement = %+v, want y=%.2f h=%.2f", tt.name, p, m.Top, tt.want)
			}
		}
	})

	t.Run("capped by remaining space", func(t *testing.T) {
		t.Parallel()

		got := FlowLayout([]Element{bulletsElement(100)}, m)
		if !approx(got.Placements[0].Height, m.Capacity-m.Top) {
			t.Errorf("bullet height = %.2f, want %.2f", got.Placements[0].Height, m.Capacity-m.Top)
		}

		got = FlowLayout([]Element{codeElement(100)}, m)
		if !approx(got.Placements[0].Height, m.Capacity-m.Top-m.CodeMargin) {
			t.Errorf("code height = %.2f, want %.2f", got.Placements[0].Height, m.Capacity-m.Top-m.CodeMargin)
		}
	})

	t.Run("code without room for its margin is omitted", func(t *testing.T) {
		t.Parallel()

		// 1.5 -> 4 texts -> 5.5 -> 1 bullet 0.45+0.3 -> 6.25 -> 1 row 0.4+0.3 -> 6.95
		elements := []Element{
			textElement("a"),
			textElement("b"),
			textElement("c"),
			textElement("d"),
			bulletsElement(1),
			tableElement(1),
			codeElement(1),
		}
		got := FlowLayout(elements, m)

		code := got.Placements[6]
		if code.Included || code.Height != 0 {
			t.Errorf("code placement = %+v, want omitted", code)
		}
		if !approx(code.Y, 6.95) {
			t.Errorf("code y = %.2f, want 6.95", code.Y)
		}
		if got.Omitted != 1 {
			t.Errorf("Omitted = %d, want 1", got.Omitted)
		}
	})

	t.Run("every included placement has a height", func(t *testing.T) {
		t.Parallel()

		elements := []Element{tableElement(12), codeElement(2), textElement("x"), codeElement(1)}
		got := FlowLayout(elements, m)
		included := 0
		for _, p := range got.Placements {
			if p.Included {
				included++
				if p.Height <= 0 {
					t.Errorf("placement %+v included with no height", p)
				}
			}
		}
		if included+got.Omitted != len(elements) {
			t.Errorf("included %d + omitted %d != %d", included, got.Omitted, len(elements))
		}
	})

	t.Run("fourth element overflows and is omitted with the rest", func(t *testing.T) {
		t.Parallel()

		// 1.5 -> text 0.8+0.2 -> 2.5 -> 5 bullets 2.25+0.3 -> 5.05 -> table 5 rows 1.95 (capped) +0.3 -> 7.3
		elements := []Element{
			textElement("intro"),
			bulletsElement(5),
			tableElement(5),
			textElement("lost"),
			codeElement(3),
		}
		got := FlowLayout(elements, m)

		if got.Omitted != 2 {
			t.Fatalf("Omitted = %d, want 2", got.Omitted)
		}
		for i := 0; i < 3; i++ {
			if !got.Placements[i].Included {
				t.Errorf("element %d not included", i)
			}
			if i > 0 && got.Placements[i].Y <= got.Placements[i-1].Y {
				t.Errorf("y not increasing at %d: %.2f <= %.2f", i, got.Placements[i].Y, got.Placements[i-1].Y)
			}
		}
		for i := 3; i < len(elements); i++ {
			if got.Placements[i].Included {
				t.Errorf("element %d included, want omitted", i)
			}
		}
		if !approx(got.Placements[2].Height, m.Capacity-5.05) {
			t.Errorf("table height = %.2f, want capped %.2f", got.Placements[2].Height, m.Capacity-5.05)
		}
	})

	t.Run("gaps vary by kind", func(t *testing.T) {
		t.Parallel()

		got := FlowLayout([]Element{textElement("a"), textElement("b")}, m)
		if !approx(got.Placements[1].Y, m.Top+m.TextHeight+m.TextGap) {
			t.Errorf("second text y = %.2f", got.Placements[1].Y)
		}

		got = FlowLayout([]Element{bulletsElement(1), textElement("b")}, m)
		if !approx(got.Placements[1].Y, m.Top+m.BulletLine+m.BulletGap) {
			t.Errorf("text after bullets y = %.2f", got.Placements[1].Y)
		}
	})

	t.Run("indices follow element order", func(t *testing.T) {
		t.Parallel()

		got := FlowLayout([]Element{textElement("a"), codeElement(1), tableElement(2)}, m)
		for i, p := range got.Placements {
			if p.Index != i {
				t.Errorf("placement %d has index %d", i, p.Index)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestSelectLayout - Fixed-position slides
// ---------------------------------------------------------------------------

func TestSelectLayout(t *testing.T) {
	t.Parallel()

	elements := []Element{textElement("a"), codeElement(2), bulletsElement(1), tableElement(1)}

	tests := []struct {
		name         string
		keep         func(int, Element) bool
		wantIncluded []bool
		wantOmitted  int
	}{
		{
			name:         "keep all",
			keep:         func(int, Element) bool { return true },
			wantIncluded: []bool{true, true, true, true},
		},
		{
			name:         "text and bullets",
			keep:         func(_ int, el Element) bool { return el.Kind == KindText || el.Kind == KindBullets },
			wantIncluded: []bool{true, false, true, false},
			wantOmitted:  2,
		},
		{
			name:         "keep none",
			keep:         func(int, Element) bool { return false },
			wantIncluded: []bool{false, false, false, false},
			wantOmitted:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SelectLayout(elements, tt.keep)
			if got.Omitted != tt.wantOmitted {
				t.Errorf("Omitted = %d, want %d", got.Omitted, tt.wantOmitted)
			}
			for i, p := range got.Placements {
				if p.Index != i || p.Included != tt.wantIncluded[i] {
					t.Errorf("placement %d = %+v, want included %v", i, p, tt.wantIncluded[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderPreview - Goldmark HTML preview
// ---------------------------------------------------------------------------

func TestRenderPreview(t *testing.T) {
	t.Parallel()

	p := NewGoldmarkPreview()
	slides := []Slide{
		{Type: SlideContent, Title: "Facts & <figures>", Body: "- one\n- two"},
		{Type: SlideCode, Title: "Code", Body: "```go\nfunc main() {}\n```"},
	}

	got, err := p.RenderPreview(context.Background(), PreviewDocument{
		Title:  "Deck",
		Slides: slides,
		CSS:    "section{color:red}",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<title>Deck</title>",
		`<section class="slide slide-content">`,
		"<h2>Facts &amp; &lt;figures&gt;</h2>",
		"<li>one</li>",
		`<section class="slide slide-code">`,
		"<style>section{color:red}</style></head>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestRenderPreview_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkPreview().RenderPreview(ctx, PreviewDocument{Title: "Deck"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
