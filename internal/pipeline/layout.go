package pipeline

import "strings"

// Metrics holds the vertical flow constants, in inches.
type Metrics struct {
	Top      float64 // cursor start below the slide title
	Capacity float64 // bottom bound of the flow region

	BulletLine float64 // height per bullet
	TextHeight float64 // fixed height of a text block
	CodeLine   float64 // height per code line
	CodeMin    float64 // minimum code block height
	CodeMargin float64 // reserved below a code block
	TableRow   float64 // height per table row

	TextGap   float64
	BulletGap float64
	CodeGap   float64
	TableGap  float64
}

// DefaultMetrics returns flow constants for a 13.333x7.5in (16:9) slide.
func DefaultMetrics() Metrics {
	return Metrics{
		Top:        1.5,
		Capacity:   7.0,
		BulletLine: 0.45,
		TextHeight: 0.8,
		CodeLine:   0.22,
		CodeMin:    1.0,
		CodeMargin: 0.2,
		TableRow:   0.4,
		TextGap:    0.2,
		BulletGap:  0.3,
		CodeGap:    0.3,
		TableGap:   0.3,
	}
}

// Placement positions one element in the flow region.
type Placement struct {
	Index    int // position in the element slice
	Y        float64
	Height   float64
	Included bool
}

// Layout is the result of flowing one slide's elements.
// Placements has one entry per element; Omitted counts those left out.
type Layout struct {
	Placements []Placement
	Omitted    int
}

// FlowLayout places elements top to bottom in a single greedy pass.
// Once the cursor reaches the capacity every remaining element is omitted;
// nothing is reflowed to another slide and earlier elements never shrink.
// An element whose clamped height is not positive is omitted too.
func FlowLayout(elements []Element, m Metrics) Layout {
	layout := Layout{Placements: make([]Placement, len(elements))}
	y := m.Top

	for i, el := range elements {
		if y >= m.Capacity {
			layout.Placements[i] = Placement{Index: i, Y: y}
			layout.Omitted++
			continue
		}

		h, gap := m.estimate(el, m.Capacity-y)
		if h <= 0 {
			layout.Placements[i] = Placement{Index: i, Y: y}
			layout.Omitted++
			continue
		}
		layout.Placements[i] = Placement{Index: i, Y: y, Height: h, Included: true}
		y += h + gap
	}

	return layout
}

// estimate returns the height for el given the remaining space, and the gap
// that follows it.
func (m Metrics) estimate(el Element, remaining float64) (height, gap float64) {
	switch el.Kind {
	case KindBullets:
		return min(float64(len(el.Bullets))*m.BulletLine, remaining), m.BulletGap
	case KindCode:
		lines := strings.Count(el.Code.Code, "\n") + 1
		h := max(float64(lines)*m.CodeLine, m.CodeMin)
		return max(min(h, remaining-m.CodeMargin), 0), m.CodeGap
	case KindTable:
		return min(float64(len(el.Table))*m.TableRow, remaining), m.TableGap
	default:
		return min(m.TextHeight, remaining), m.TextGap
	}
}

// SelectLayout is the layout of a slide drawn at fixed positions: elements
// accepted by keep are included and every other element is omitted.
// Y and Height are left to the renderer.
func SelectLayout(elements []Element, keep func(i int, el Element) bool) Layout {
	layout := Layout{Placements: make([]Placement, len(elements))}
	for i, el := range elements {
		included := keep(i, el)
		layout.Placements[i] = Placement{Index: i, Included: included}
		if !included {
			layout.Omitted++
		}
	}
	return layout
}
