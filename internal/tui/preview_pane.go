package tui

import (
	"math"
	"strings"

	"charm.land/bubbles/v2/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/duetview/duet/internal/core/logging"
	"github.com/duetview/duet/internal/core/styles"
	"github.com/duetview/duet/internal/scrollsync"
)

// PreviewPane renders the document with Glamour. The document is rendered as
// a stack of segments split at structural anchor lines, so the rendered top
// and height of every anchored element is known exactly and can be reported
// to the sync engine.
type PreviewPane struct {
	viewport viewport.Model
	content  string
	wordWrap int
	width    int
	height   int

	elements []scrollsync.RenderedElement
}

// segment is a contiguous run of source lines rendered as one unit. Anchored
// segments carry the identifier of the anchor that opens them.
type segment struct {
	id        string
	startLine int // 1-indexed, inclusive
	endLine   int // inclusive
}

// NewPreviewPane creates an empty preview pane. wordWrap of 0 wraps to the
// pane width.
func NewPreviewPane(wordWrap int) *PreviewPane {
	return &PreviewPane{viewport: viewport.New(), wordWrap: wordWrap}
}

// SetContent replaces the document and re-renders.
func (p *PreviewPane) SetContent(content string) {
	p.content = content
	p.render()
}

// SetSize updates the pane dimensions and re-renders at the new width.
func (p *PreviewPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	offset := p.viewport.YOffset()
	p.viewport = viewport.New(viewport.WithWidth(width), viewport.WithHeight(height))
	p.render()
	p.viewport.SetYOffset(offset)
}

// View renders the pane content.
func (p *PreviewPane) View() string {
	return p.viewport.View()
}

// render re-renders all segments and rebuilds the element position table.
func (p *PreviewPane) render() {
	if p.width <= 0 {
		return
	}

	wrapWidth := p.wordWrap
	if wrapWidth <= 0 || wrapWidth > p.width {
		wrapWidth = p.width
	}
	wrapWidth = max(wrapWidth-2, 20)

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		logging.Component("preview").Error().Err(err).Msg("create renderer")
		p.viewport.SetContent(p.content)
		return
	}

	parsed := scrollsync.Parse(p.content)
	lines := strings.Split(p.content, "\n")

	var (
		out      strings.Builder
		elements []scrollsync.RenderedElement
		top      int
	)

	for _, seg := range splitSegments(parsed, len(lines)) {
		rendered := p.renderSegment(r, parsed, lines, seg)
		if len(rendered) == 0 {
			continue
		}

		if seg.id != "" {
			elements = append(elements, scrollsync.RenderedElement{
				ID:     seg.id,
				Top:    float64(top),
				Height: float64(len(rendered)),
			})
		}

		out.WriteString(strings.Join(rendered, "\n"))
		out.WriteString("\n")
		top += len(rendered)
	}

	p.elements = elements
	p.viewport.SetContent(strings.TrimRight(out.String(), "\n"))
}

// renderSegment renders one segment's visible lines, trimming the blank
// margins Glamour puts around each render so stacked segments read as one
// document.
func (p *PreviewPane) renderSegment(r *glamour.TermRenderer, parsed *scrollsync.ParsedSource, lines []string, seg segment) []string {
	var visible []string
	for n := seg.startLine; n <= seg.endLine && n <= len(lines); n++ {
		if parsed.IsHidden(n) {
			continue
		}
		visible = append(visible, lines[n-1])
	}
	if len(visible) == 0 {
		return nil
	}
	source := strings.Join(visible, "\n")
	if strings.TrimSpace(source) == "" {
		// Preserve paragraph spacing without invoking the renderer.
		return []string{""}
	}

	rendered, err := r.Render(source)
	if err != nil {
		// Degraded, not fatal: fall back to the raw source lines.
		return visible
	}

	split := strings.Split(rendered, "\n")
	start, end := 0, len(split)
	for start < end && strings.TrimSpace(split[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(split[end-1]) == "" {
		end--
	}
	if start == end {
		return nil
	}
	// Keep one blank separator line after each block.
	out := append([]string{}, split[start:end]...)
	return append(out, "")
}

// splitSegments cuts the document at anchor lines. Image and rule anchors
// get a segment of exactly their own line so their rendered height reflects
// the element alone; other anchors extend to the next anchor.
func splitSegments(parsed *scrollsync.ParsedSource, lineCount int) []segment {
	if lineCount == 0 {
		return nil
	}

	var segs []segment
	cursor := 1

	for i, a := range parsed.Anchors {
		if a.SourceLine > cursor {
			segs = append(segs, segment{startLine: cursor, endLine: a.SourceLine - 1})
		}

		end := lineCount
		if i+1 < len(parsed.Anchors) {
			end = parsed.Anchors[i+1].SourceLine - 1
		}
		if a.Type == scrollsync.AnchorImage || a.Type == scrollsync.AnchorRule {
			end = a.SourceLine
		}
		if end < a.SourceLine {
			end = a.SourceLine
		}

		segs = append(segs, segment{id: a.ID, startLine: a.SourceLine, endLine: end})
		cursor = end + 1
	}

	if cursor <= lineCount {
		segs = append(segs, segment{startLine: cursor, endLine: lineCount})
	}

	return segs
}

// Scrolling controls used by the key handlers.

func (p *PreviewPane) ScrollDown(n int) { p.viewport.ScrollDown(n) }
func (p *PreviewPane) ScrollUp(n int)   { p.viewport.ScrollUp(n) }
func (p *PreviewPane) HalfPageDown()    { p.viewport.HalfPageDown() }
func (p *PreviewPane) HalfPageUp()      { p.viewport.HalfPageUp() }
func (p *PreviewPane) GotoTop()         { p.viewport.GotoTop() }
func (p *PreviewPane) GotoBottom()      { p.viewport.GotoBottom() }

// ScrollPercent returns the viewport scroll progress in [0, 1].
func (p *PreviewPane) ScrollPercent() float64 { return p.viewport.ScrollPercent() }

// scrollsync.PreviewPane contract. Offsets are terminal rows.

func (p *PreviewPane) ScrollTop() float64 {
	return float64(p.viewport.YOffset())
}

func (p *PreviewPane) SetScrollTop(offset float64) {
	p.viewport.SetYOffset(int(math.Round(offset)))
}

func (p *PreviewPane) ContentHeight() float64 {
	return float64(p.viewport.TotalLineCount())
}

func (p *PreviewPane) VisibleHeight() float64 {
	return float64(p.viewport.VisibleLineCount())
}

// Elements returns a fresh snapshot of the rendered element positions.
func (p *PreviewPane) Elements() []scrollsync.RenderedElement {
	out := make([]scrollsync.RenderedElement, len(p.elements))
	copy(out, p.elements)
	return out
}
