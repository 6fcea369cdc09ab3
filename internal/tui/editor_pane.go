package tui

import (
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/viewport"

	"github.com/duetview/duet/internal/core/styles"
)

// EditorPane displays the raw document source with line numbers. It is the
// line-indexed side of the scroll synchronization: one source line occupies
// exactly one row, so the pane's line height is 1.
type EditorPane struct {
	viewport viewport.Model
	lines    []string
	width    int
	height   int
}

// NewEditorPane creates an empty source pane.
func NewEditorPane() *EditorPane {
	return &EditorPane{viewport: viewport.New()}
}

// SetContent replaces the document source.
func (p *EditorPane) SetContent(content string) {
	p.lines = strings.Split(content, "\n")
	p.viewport.SetContent(p.formatWithLineNumbers())
}

// SetSize updates the pane dimensions and re-renders the gutter.
func (p *EditorPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	offset := p.viewport.YOffset()
	p.viewport = viewport.New(viewport.WithWidth(width), viewport.WithHeight(height))
	p.viewport.SetContent(p.formatWithLineNumbers())
	p.viewport.SetYOffset(offset)
}

// View renders the pane content.
func (p *EditorPane) View() string {
	return p.viewport.View()
}

// formatWithLineNumbers prefixes each source line with a styled number and
// gutter separator, truncating lines that overflow the pane width.
func (p *EditorPane) formatWithLineNumbers() string {
	if len(p.lines) == 0 {
		return ""
	}

	lineNumWidth := len(fmt.Sprintf("%d", len(p.lines)))
	contentWidth := p.width - lineNumWidth - 3

	var result strings.Builder
	for i, line := range p.lines {
		lineNum := fmt.Sprintf("%*d", lineNumWidth, i+1)
		styledNum := styles.LineNumberStyle.Render(lineNum)
		separator := styles.GutterSepStyle.Render(" │ ")

		if contentWidth > 0 && len(line) > contentWidth {
			line = line[:contentWidth]
		}
		result.WriteString(styledNum + separator + line + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// Scrolling controls used by the key handlers.

func (p *EditorPane) ScrollDown(n int) { p.viewport.ScrollDown(n) }
func (p *EditorPane) ScrollUp(n int)   { p.viewport.ScrollUp(n) }
func (p *EditorPane) HalfPageDown()    { p.viewport.HalfPageDown() }
func (p *EditorPane) HalfPageUp()      { p.viewport.HalfPageUp() }
func (p *EditorPane) GotoTop()         { p.viewport.GotoTop() }
func (p *EditorPane) GotoBottom()      { p.viewport.GotoBottom() }

// ScrollPercent returns the viewport scroll progress in [0, 1].
func (p *EditorPane) ScrollPercent() float64 { return p.viewport.ScrollPercent() }

// scrollsync.EditorPane contract. Offsets are terminal rows.

func (p *EditorPane) ScrollTop() float64 {
	return float64(p.viewport.YOffset())
}

func (p *EditorPane) SetScrollTop(offset float64) {
	p.viewport.SetYOffset(int(math.Round(offset)))
}

func (p *EditorPane) MaxScrollTop() float64 {
	maxTop := p.viewport.TotalLineCount() - p.viewport.VisibleLineCount()
	if maxTop < 0 {
		maxTop = 0
	}
	return float64(maxTop)
}

func (p *EditorPane) VisibleLineRange() (first, last int) {
	first = p.viewport.YOffset() + 1
	last = p.viewport.YOffset() + p.viewport.VisibleLineCount()
	if last > len(p.lines) {
		last = len(p.lines)
	}
	if last < first {
		last = first
	}
	return first, last
}

func (p *EditorPane) LineOffset(line int) float64 {
	return float64(line - 1)
}

func (p *EditorPane) LineHeight() float64 {
	return 1
}
