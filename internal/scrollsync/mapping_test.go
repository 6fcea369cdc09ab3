package scrollsync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeEditor models a source pane with uniform line height. Terminal hosts
// use a line height of 1; pixel hosts use the font line height.
type fakeEditor struct {
	top          float64
	lineHeight   float64
	lineCount    int
	visibleLines int
}

func (f *fakeEditor) ScrollTop() float64          { return f.top }
func (f *fakeEditor) SetScrollTop(offset float64) { f.top = offset }

func (f *fakeEditor) MaxScrollTop() float64 {
	return float64(f.lineCount-f.visibleLines) * f.lineHeight
}

func (f *fakeEditor) VisibleLineRange() (int, int) {
	first := int(f.top/f.lineHeight) + 1
	return first, first + f.visibleLines - 1
}

func (f *fakeEditor) LineOffset(line int) float64 {
	return float64(line-1) * f.lineHeight
}

func (f *fakeEditor) LineHeight() float64 { return f.lineHeight }

type fakePreview struct {
	top           float64
	contentHeight float64
	visibleHeight float64
	elems         []RenderedElement
}

func (f *fakePreview) ScrollTop() float64          { return f.top }
func (f *fakePreview) SetScrollTop(offset float64) { f.top = offset }
func (f *fakePreview) ContentHeight() float64      { return f.contentHeight }
func (f *fakePreview) VisibleHeight() float64      { return f.visibleHeight }

func (f *fakePreview) Elements() []RenderedElement {
	out := make([]RenderedElement, len(f.elems))
	copy(out, f.elems)
	return out
}

// docWithHeadings builds an n-line document with "# ..." headings placed at
// the given 1-indexed lines.
func docWithHeadings(n int, headings map[int]string) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "text"
	}
	for line, h := range headings {
		lines[line-1] = h
	}
	return strings.Join(lines, "\n")
}

func TestMappingInterpolatesBetweenAnchors(t *testing.T) {
	parsed := Parse(docWithHeadings(100, map[int]string{
		1:  "# Alpha",
		41: "## Beta",
		81: "## Gamma",
	}))
	editor := &fakeEditor{lineHeight: 20, lineCount: 100, visibleLines: 20}
	preview := &fakePreview{
		contentHeight: 3000,
		visibleHeight: 500,
		elems: []RenderedElement{
			{ID: "h1-alpha", Top: 0, Height: 40},
			{ID: "h2-beta", Top: 1200, Height: 40},
			{ID: "h2-gamma", Top: 2400, Height: 40},
		},
	}

	m := BuildMapping(parsed, editor, preview, Options{})
	assert.Equal(t, 3, m.PairCount())

	// Anchor positions map exactly, midpoints linearly.
	assert.InDelta(t, 1200, m.EditorToPreview(800), 0.001)
	assert.InDelta(t, 600, m.EditorToPreview(400), 0.001)
	assert.InDelta(t, 1800, m.EditorToPreview(1200), 0.001)

	assert.InDelta(t, 400, m.PreviewToEditor(600), 0.001)
	assert.InDelta(t, 1200, m.PreviewToEditor(1800), 0.001)
}

func TestMappingEdgeSnap(t *testing.T) {
	parsed := Parse(docWithHeadings(100, map[int]string{
		1:  "# Alpha",
		41: "## Beta",
		81: "## Gamma",
	}))
	editor := &fakeEditor{lineHeight: 20, lineCount: 100, visibleLines: 20}
	preview := &fakePreview{
		contentHeight: 3000,
		visibleHeight: 500,
		elems: []RenderedElement{
			{ID: "h1-alpha", Top: 0, Height: 40},
			{ID: "h2-beta", Top: 1200, Height: 40},
			{ID: "h2-gamma", Top: 2400, Height: 40},
		},
	}
	m := BuildMapping(parsed, editor, preview, Options{})

	// Within TopSnap of the top the target is exactly zero.
	assert.Zero(t, m.EditorToPreview(0))
	assert.Zero(t, m.EditorToPreview(1))
	assert.Zero(t, m.PreviewToEditor(1))

	// At the driver's bottom the residual distance is inside the snap
	// threshold, so the receiver lands exactly on its own maximum.
	assert.InDelta(t, 2500, m.EditorToPreview(1600), 0.001)
	assert.InDelta(t, 1600, m.PreviewToEditor(2500), 0.001)

	// Away from the bottom the interpolated value is used untouched.
	assert.InDelta(t, 2385, m.EditorToPreview(1590), 0.001)
}

func TestMappingFallbackWithoutAnchors(t *testing.T) {
	parsed := Parse(docWithHeadings(50, nil))
	editor := &fakeEditor{lineHeight: 1, lineCount: 50, visibleLines: 10}
	preview := &fakePreview{contentHeight: 40, visibleHeight: 10}

	m := BuildMapping(parsed, editor, preview, Options{})
	assert.Zero(t, m.PairCount())

	// 50% down the editor lands 50% down the preview, both directions.
	assert.InDelta(t, 15, m.EditorToPreview(20), 0.001)
	assert.InDelta(t, 20, m.PreviewToEditor(15), 0.001)
}

func TestMappingFallbackSkipsHiddenPrefix(t *testing.T) {
	lines := []string{"---"}
	for i := 0; i < 9; i++ {
		lines = append(lines, "key: value")
	}
	lines = append(lines, "---")
	for i := 0; i < 40; i++ {
		lines = append(lines, "text")
	}
	parsed := Parse(strings.Join(lines, "\n"))

	editor := &fakeEditor{lineHeight: 1, lineCount: 51, visibleLines: 10}
	preview := &fakePreview{contentHeight: 40, visibleHeight: 10}
	m := BuildMapping(parsed, editor, preview, Options{})

	// Scrolling through the frontmatter consumes no preview distance.
	assert.Zero(t, m.EditorToPreview(5))
	assert.Zero(t, m.EditorToPreview(11))

	// Past the hidden block the fraction is over rendered lines only.
	assert.InDelta(t, 15, m.EditorToPreview(26), 0.001)
}

func TestMappingMonotonicityFilter(t *testing.T) {
	parsed := Parse(docWithHeadings(30, map[int]string{
		1:  "# A",
		11: "# B",
		21: "# C",
	}))
	editor := &fakeEditor{lineHeight: 1, lineCount: 30, visibleLines: 10}
	preview := &fakePreview{
		contentHeight: 60,
		visibleHeight: 10,
		elems: []RenderedElement{
			{ID: "h1-a", Top: 0, Height: 1},
			{ID: "h1-b", Top: 40, Height: 1},
			// Out of order on the preview axis; must be dropped.
			{ID: "h1-c", Top: 15, Height: 1},
		},
	}

	m := BuildMapping(parsed, editor, preview, Options{})
	assert.Equal(t, 2, m.PairCount())
}

func TestMappingExcludesCodeBlocks(t *testing.T) {
	content := "# A\n```\ncode\n```\n# B"
	parsed := Parse(content)

	editor := &fakeEditor{lineHeight: 1, lineCount: 10, visibleLines: 3}
	preview := &fakePreview{
		contentHeight: 20,
		visibleHeight: 3,
		elems: []RenderedElement{
			{ID: "h1-a", Top: 0, Height: 1},
			{ID: "code", Top: 2, Height: 4},
			{ID: "h1-b", Top: 8, Height: 1},
		},
	}

	m := BuildMapping(parsed, editor, preview, Options{})
	assert.Equal(t, 2, m.PairCount())
}

func TestMappingImageStretching(t *testing.T) {
	parsed := Parse(docWithHeadings(20, map[int]string{
		1:  "# A",
		5:  "![Pic](x.png)",
		15: "# B",
	}))
	editor := &fakeEditor{lineHeight: 1, lineCount: 20, visibleLines: 5}
	preview := &fakePreview{
		contentHeight: 30,
		visibleHeight: 5,
		elems: []RenderedElement{
			{ID: "h1-a", Top: 0, Height: 1},
			{ID: "img-pic", Top: 8, Height: 6},
			{ID: "h1-b", Top: 20, Height: 1},
		},
	}
	m := BuildMapping(parsed, editor, preview, Options{})

	// The image's source line lands on the image's top edge, and the lines
	// just past it stay inside the image's rendered bounds instead of
	// leaping over its height.
	assert.InDelta(t, 8, m.EditorToPreview(4), 0.001)
	got := m.EditorToPreview(6)
	assert.GreaterOrEqual(t, got, 8.0)
	assert.Less(t, got, 14.0)
}

func TestMappingImageSlowScrollZone(t *testing.T) {
	parsed := Parse(docWithHeadings(20, map[int]string{
		1:  "# A",
		5:  "![Pic](x.png)",
		15: "# B",
	}))
	editor := &fakeEditor{lineHeight: 1, lineCount: 20, visibleLines: 5}
	preview := &fakePreview{
		contentHeight: 30,
		visibleHeight: 5,
		elems: []RenderedElement{
			{ID: "h1-a", Top: 0, Height: 1},
			{ID: "img-pic", Top: 8, Height: 6},
			{ID: "h1-b", Top: 20, Height: 1},
		},
	}
	m := BuildMapping(parsed, editor, preview, Options{ImageZoneLines: 3})

	// Halfway through the image's rendered height the editor has crawled
	// half the zone past the image's source line.
	assert.InDelta(t, 4, m.PreviewToEditor(8), 0.001)
	assert.InDelta(t, 5.5, m.PreviewToEditor(11), 0.001)
}

func TestMappingEmptyPreview(t *testing.T) {
	parsed := Parse(docWithHeadings(10, map[int]string{1: "# A"}))
	editor := &fakeEditor{lineHeight: 1, lineCount: 10, visibleLines: 10}
	preview := &fakePreview{contentHeight: 5, visibleHeight: 10}

	m := BuildMapping(parsed, editor, preview, Options{})

	// Nothing to scroll on either side.
	assert.Zero(t, m.EditorToPreview(3))
	assert.Zero(t, m.PreviewToEditor(3))
}
