package scrollsync

import (
	"math"
	"sort"
)

// matchedPair ties an offset on the editor axis to an offset on the preview
// axis. Pairs are derived fresh on every sync and discarded afterwards.
type matchedPair struct {
	editorTop  float64
	previewTop float64
}

// imageSpan records an image's rendered vertical bounds so the preview→editor
// direction can crawl through the corresponding single source line instead of
// jumping across it.
type imageSpan struct {
	sourceLine int
	top        float64
	height     float64
}

// Mapping is a point-in-time join of parsed anchors with live rendered
// positions. Build one per sync invocation; preview layout can shift between
// calls, so a Mapping must never be reused.
type Mapping struct {
	pairs  []matchedPair
	images []imageSpan

	parsed     *ParsedSource
	lineOffset func(line int) float64
	lineHeight float64

	editorMax     float64
	previewMax    float64
	editorVisible float64
	previewVis    float64

	opts Options
}

// BuildMapping joins parsed anchors with the preview's current element
// snapshot. Code block anchors are excluded: irregular fence rendering makes
// them unreliable alignment references. Image anchors stretch the editor axis
// of all subsequent pairs so interpolation allocates proportional scroll
// distance to their rendered height.
func BuildMapping(parsed *ParsedSource, editor EditorPane, preview PreviewPane, opts Options) *Mapping {
	opts = opts.withDefaults()

	lineHeight := editor.LineHeight()
	if lineHeight <= 0 {
		lineHeight = 1
	}

	first, last := editor.VisibleLineRange()
	visible := float64(last-first+1) * lineHeight

	m := &Mapping{
		parsed:        parsed,
		lineOffset:    editor.LineOffset,
		lineHeight:    lineHeight,
		editorMax:     math.Max(0, editor.MaxScrollTop()),
		previewMax:    math.Max(0, preview.ContentHeight()-preview.VisibleHeight()),
		editorVisible: visible,
		previewVis:    preview.VisibleHeight(),
		opts:          opts,
	}

	byID := make(map[string]RenderedElement)
	for _, el := range preview.Elements() {
		if _, dup := byID[el.ID]; !dup {
			byID[el.ID] = el
		}
	}

	extra := 0.0
	for _, a := range parsed.Anchors {
		if a.Type == AnchorCodeBlock {
			continue
		}
		el, ok := byID[a.ID]
		if !ok {
			// No resolvable rendered position: skipped, not an error.
			continue
		}

		m.pairs = append(m.pairs, matchedPair{
			editorTop:  editor.LineOffset(a.SourceLine) + extra,
			previewTop: el.Top,
		})

		if a.Type == AnchorImage {
			m.images = append(m.images, imageSpan{
				sourceLine: a.SourceLine,
				top:        el.Top,
				height:     el.Height,
			})
			if el.Height > lineHeight {
				extra += el.Height - lineHeight
			}
		}
	}

	sort.SliceStable(m.pairs, func(i, j int) bool {
		return m.pairs[i].editorTop < m.pairs[j].editorTop
	})

	// Monotonicity filter: duplicate or out-of-order identifiers must not
	// produce a mapping that runs backwards on the preview axis.
	kept := m.pairs[:0]
	runningMax := math.Inf(-1)
	for _, p := range m.pairs {
		if p.previewTop < runningMax {
			continue
		}
		runningMax = p.previewTop
		kept = append(kept, p)
	}
	m.pairs = kept

	return m
}

// PairCount returns the number of usable matched pairs.
func (m *Mapping) PairCount() int {
	return len(m.pairs)
}

// EditorToPreview maps an editor scroll offset to a preview scroll offset.
func (m *Mapping) EditorToPreview(query float64) float64 {
	if m.previewMax <= 0 {
		return 0
	}
	if query <= m.opts.TopSnap {
		return 0
	}

	var target float64
	if len(m.pairs) < 2 {
		target = m.fallbackEditorToPreview(query)
	} else {
		target = interpolate(m.pairs, query, m.editorMax, m.previewMax, editorAxis, previewAxis)
	}

	if m.editorMax > 0 && query >= m.editorMax-m.opts.TopSnap {
		if m.previewMax-target <= m.bottomSnapThreshold(m.previewVis) {
			target = m.previewMax
		}
	}

	return clampf(target, 0, m.previewMax)
}

// PreviewToEditor maps a preview scroll offset to an editor scroll offset.
// Inside an image's rendered bounds the target advances through a small
// fixed zone after the image's source line, proportional to progress through
// the image's height.
func (m *Mapping) PreviewToEditor(query float64) float64 {
	if m.editorMax <= 0 {
		return 0
	}
	if query <= m.opts.TopSnap {
		return 0
	}

	if span, ok := m.imageAt(query); ok {
		progress := (query - span.top) / span.height
		zone := m.opts.ImageZoneLines * m.lineHeight
		return clampf(m.lineOffset(span.sourceLine)+progress*zone, 0, m.editorMax)
	}

	var target float64
	if len(m.pairs) < 2 {
		target = m.fallbackPreviewToEditor(query)
	} else {
		target = interpolate(m.pairs, query, m.previewMax, m.editorMax, previewAxis, editorAxis)
	}

	if m.previewMax > 0 && query >= m.previewMax-m.opts.TopSnap {
		if m.editorMax-target <= m.bottomSnapThreshold(m.editorVisible) {
			target = m.editorMax
		}
	}

	return clampf(target, 0, m.editorMax)
}

func (m *Mapping) bottomSnapThreshold(receivingVisible float64) float64 {
	return clampf(m.opts.BottomSnapFraction*receivingVisible, m.opts.BottomSnapMin, m.opts.BottomSnapMax)
}

func (m *Mapping) imageAt(query float64) (imageSpan, bool) {
	for _, span := range m.images {
		if span.height > 0 && query >= span.top && query < span.top+span.height {
			return span, true
		}
	}
	return imageSpan{}, false
}

// fallbackEditorToPreview is the global percentage mapping used with fewer
// than two usable pairs. The editor-side fraction is computed over rendered
// lines so frontmatter and comment blocks do not consume preview scroll
// distance.
func (m *Mapping) fallbackEditorToPreview(query float64) float64 {
	rmax := m.renderedMax()
	if rmax <= 0 {
		if m.editorMax <= 0 {
			return 0
		}
		return query / m.editorMax * m.previewMax
	}
	return clampf(m.renderedOffset(query)/rmax, 0, 1) * m.previewMax
}

func (m *Mapping) fallbackPreviewToEditor(query float64) float64 {
	if m.previewMax <= 0 {
		return 0
	}
	frac := clampf(query/m.previewMax, 0, 1)
	rmax := m.renderedMax()
	if rmax <= 0 {
		return frac * m.editorMax
	}

	idx := frac * rmax / m.lineHeight
	whole := math.Floor(idx)
	line := m.parsed.LineForRenderedIndex(int(whole))
	return m.lineOffset(line) + (idx-whole)*m.lineHeight
}

// renderedOffset converts an editor offset to its position on the axis of
// rendered (non-hidden) lines.
func (m *Mapping) renderedOffset(query float64) float64 {
	lineFloat := query / m.lineHeight
	whole := math.Floor(lineFloat)
	line := int(whole) + 1
	hidden := m.parsed.HiddenThrough(line - 1)
	return (float64(line-1-hidden) + (lineFloat - whole)) * m.lineHeight
}

func (m *Mapping) renderedMax() float64 {
	return float64(m.parsed.RenderedLineCount())*m.lineHeight - m.editorVisible
}

func editorAxis(p matchedPair) float64  { return p.editorTop }
func previewAxis(p matchedPair) float64 { return p.previewTop }

// interpolate performs piecewise-linear interpolation across pairs sorted by
// axisA. With a straddling pair on each side it interpolates between them;
// with only a pair above it interpolates from the origin, and with only a
// pair below it interpolates toward the axis-B maximum.
func interpolate(pairs []matchedPair, query, maxA, maxB float64, axisA, axisB func(matchedPair) float64) float64 {
	prevIdx := -1
	for i := range pairs {
		if axisA(pairs[i]) <= query {
			prevIdx = i
		} else {
			break
		}
	}
	nextIdx := prevIdx + 1

	switch {
	case prevIdx >= 0 && nextIdx < len(pairs):
		prev, next := pairs[prevIdx], pairs[nextIdx]
		denom := axisA(next) - axisA(prev)
		if denom <= 0 {
			return axisB(prev)
		}
		t := (query - axisA(prev)) / denom
		return axisB(prev) + t*(axisB(next)-axisB(prev))

	case nextIdx < len(pairs):
		next := pairs[nextIdx]
		if axisA(next) <= 0 {
			return axisB(next)
		}
		return query / axisA(next) * axisB(next)

	case prevIdx >= 0:
		prev := pairs[prevIdx]
		span := maxA - axisA(prev)
		if span <= 0 {
			return maxB
		}
		return axisB(prev) + (query-axisA(prev))/span*(maxB-axisB(prev))

	default:
		if maxA <= 0 {
			return 0
		}
		return query / maxA * maxB
	}
}

func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
