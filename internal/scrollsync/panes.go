package scrollsync

// RenderedElement is a point-in-time snapshot of one structural element in
// the rendered preview. Top is relative to the preview's content origin and
// stable across the preview's own scroll position.
type RenderedElement struct {
	ID     string
	Top    float64
	Height float64
}

// EditorPane is the contract the engine requires from the source text view.
// Offsets are in the pane's own scroll units (pixels, or rows in a terminal
// host with a line height of 1).
type EditorPane interface {
	ScrollTop() float64
	SetScrollTop(offset float64)
	MaxScrollTop() float64
	// VisibleLineRange returns the first and last 1-indexed source lines
	// currently in view.
	VisibleLineRange() (first, last int)
	// LineOffset converts a 1-indexed source line to a scroll offset.
	LineOffset(line int) float64
	LineHeight() float64
}

// PreviewPane is the contract the engine requires from the rendered view.
// Elements must be re-enumerated on every call; rendered layout can shift
// between calls, so snapshots are never cached.
type PreviewPane interface {
	ScrollTop() float64
	SetScrollTop(offset float64)
	ContentHeight() float64
	VisibleHeight() float64
	Elements() []RenderedElement
}
