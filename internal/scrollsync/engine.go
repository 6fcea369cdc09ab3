package scrollsync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/duetview/duet/internal/core/logging"
)

// PaneID identifies one of the two synchronized panes.
type PaneID int

const (
	PaneEditor PaneID = iota
	PanePreview
)

// String returns the string representation of the pane ID.
func (p PaneID) String() string {
	if p == PaneEditor {
		return "editor"
	}
	return "preview"
}

func (p PaneID) other() PaneID {
	if p == PaneEditor {
		return PanePreview
	}
	return PaneEditor
}

// paneState is the per-pane scroll lifecycle: Idle → UserScrolling →
// SettlePending → Idle. The orthogonal programmatic flag is entered only when
// the other pane's driver writes to this pane.
type paneState int

const (
	paneIdle paneState = iota
	paneUserScrolling
	paneSettlePending
)

// TimerKind distinguishes the engine's host-armed timers.
type TimerKind int

const (
	// TimerSettle fires the debounced settle correction for a pane.
	TimerSettle TimerKind = iota
	// TimerClearProgrammatic ends the window in which a driven pane's own
	// scroll events are not reinterpreted as user input.
	TimerClearProgrammatic
	// TimerClearSuppress ends the longer window blocking the settle
	// correction on a pane that was just programmatically driven.
	TimerClearSuppress
)

// Timer is a request for the host to call TimerFired after Delay. Arming a
// new timer of the same kind for the same pane bumps Gen, which implicitly
// cancels any pending one: stale generations are ignored when they fire.
type Timer struct {
	Kind  TimerKind
	Pane  PaneID
	Gen   uint64
	Delay time.Duration
}

// paneRuntime holds the mutable per-pane flags, generations, and last scroll
// position. Kept as engine fields so the suppression windows are explicit
// and testable rather than ambient state.
type paneRuntime struct {
	state paneState

	programmatic bool
	progGen      uint64

	settleSuppressed bool
	suppressGen      uint64

	settleGen uint64

	lastPos   float64
	lastDelta float64
}

// Engine owns the bidirectional scroll synchronization between an editor
// pane and a preview pane. It is single-threaded: every method is a bounded
// synchronous call made from the host's event loop or timer callbacks, and
// correctness depends on the flag/timer suppression scheme rather than locks.
type Engine struct {
	editor  EditorPane
	preview PreviewPane
	parsed  *ParsedSource
	opts    Options

	panes [2]paneRuntime

	log zerolog.Logger
}

// New creates an engine for the given pane pair. Either pane may be nil
// until mounted; sync calls are no-ops while anything is missing.
func New(editor EditorPane, preview PreviewPane, opts Options) *Engine {
	return &Engine{
		editor:  editor,
		preview: preview,
		opts:    opts.withDefaults(),
		log:     logging.Component("scrollsync"),
	}
}

// RebuildAnchors re-parses the document. Call on every content change; there
// is no incremental diffing.
func (e *Engine) RebuildAnchors(content string) {
	e.parsed = Parse(content)
	e.log.Debug().
		Int("anchors", len(e.parsed.Anchors)).
		Int("hidden_lines", e.parsed.HiddenThrough(e.parsed.LineCount())).
		Msg("anchors rebuilt")
}

// TriggerInitialSync aligns the preview to the editor once after the initial
// render. It is a precise sync: direction affinity does not apply.
func (e *Engine) TriggerInitialSync() []Timer {
	if !e.ready() {
		return nil
	}
	e.panes[PaneEditor].lastPos = e.editor.ScrollTop()
	e.panes[PanePreview].lastPos = e.preview.ScrollTop()
	return e.applySync(PaneEditor, true)
}

// EditorScrolled handles a scroll event on the source pane. It returns any
// timers the host must arm.
func (e *Engine) EditorScrolled() []Timer {
	return e.scrolled(PaneEditor)
}

// PreviewScrolled handles a scroll event on the preview pane.
func (e *Engine) PreviewScrolled() []Timer {
	return e.scrolled(PanePreview)
}

// TimerFired delivers an armed timer back to the engine. Timers carrying a
// stale generation are ignored.
func (e *Engine) TimerFired(t Timer) []Timer {
	rt := &e.panes[t.Pane]

	switch t.Kind {
	case TimerClearProgrammatic:
		if t.Gen == rt.progGen {
			rt.programmatic = false
		}
		return nil

	case TimerClearSuppress:
		if t.Gen == rt.suppressGen {
			rt.settleSuppressed = false
		}
		return nil

	case TimerSettle:
		if t.Gen != rt.settleGen || rt.state != paneSettlePending {
			return nil
		}
		rt.state = paneIdle
		if rt.settleSuppressed {
			// This pane was just driven programmatically; a settle
			// correction here would nudge the original driver backward.
			return nil
		}
		if !e.ready() {
			return nil
		}
		e.log.Debug().Stringer("pane", t.Pane).Msg("settle correction")
		return e.applySync(t.Pane, true)
	}

	return nil
}

func (e *Engine) ready() bool {
	return e.editor != nil && e.preview != nil && e.parsed != nil
}

func (e *Engine) scrolled(id PaneID) []Timer {
	if !e.ready() {
		return nil
	}

	rt := &e.panes[id]
	pos := e.pane(id).ScrollTop()
	delta := pos - rt.lastPos
	rt.lastPos = pos
	if delta != 0 {
		rt.lastDelta = delta
	}

	// The physical scroll of a programmatically driven pane still happens;
	// it is just not reinterpreted as user input.
	if rt.programmatic {
		return nil
	}

	rt.state = paneUserScrolling
	timers := e.applySync(id, false)

	// Re-arm the debounce; last scroll position wins, no backlog.
	rt.settleGen++
	rt.state = paneSettlePending
	timers = append(timers, Timer{
		Kind:  TimerSettle,
		Pane:  id,
		Gen:   rt.settleGen,
		Delay: e.opts.DebounceDelay,
	})

	return timers
}

// applySync computes and applies the target offset for the pane opposite the
// driver. Live (non-precise) syncs honor direction affinity: the receiving
// pane never moves opposite to the driver's most recent scroll delta.
func (e *Engine) applySync(driver PaneID, precise bool) []Timer {
	receiver := driver.other()
	m := BuildMapping(e.parsed, e.editor, e.preview, e.opts)

	query := e.pane(driver).ScrollTop()
	var target float64
	if driver == PaneEditor {
		target = m.EditorToPreview(query)
	} else {
		target = m.PreviewToEditor(query)
	}

	current := e.pane(receiver).ScrollTop()
	move := target - current
	if move == 0 {
		return nil
	}
	if !precise {
		if delta := e.panes[driver].lastDelta; delta != 0 && move*delta < 0 {
			return nil
		}
	}

	rt := &e.panes[receiver]
	rt.programmatic = true
	rt.progGen++
	rt.settleSuppressed = true
	rt.suppressGen++

	e.pane(receiver).SetScrollTop(target)
	rt.lastPos = target

	return []Timer{
		{Kind: TimerClearProgrammatic, Pane: receiver, Gen: rt.progGen, Delay: e.opts.SettleDelay},
		{Kind: TimerClearSuppress, Pane: receiver, Gen: rt.suppressGen, Delay: e.opts.SettleSuppressDelay},
	}
}

// pane returns the scroll surface shared by both pane contracts.
func (e *Engine) pane(id PaneID) scrollSurface {
	if id == PaneEditor {
		return e.editor
	}
	return e.preview
}

// scrollSurface is the subset of both pane contracts the drivers need.
type scrollSurface interface {
	ScrollTop() float64
	SetScrollTop(offset float64)
}
