package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/duetview/duet/internal/core/config"
	"github.com/duetview/duet/internal/core/docs"
	"github.com/duetview/duet/internal/core/logging"
	"github.com/duetview/duet/internal/core/styles"
	"github.com/duetview/duet/internal/scrollsync"
)

// syncTimerMsg delivers an engine timer back to the engine when it fires.
type syncTimerMsg struct {
	timer scrollsync.Timer
}

// watchTickMsg triggers a document mtime check.
type watchTickMsg struct{}

// Model is the root TUI model: two panes, the sync engine between them, and
// a status bar.
type Model struct {
	cfg *config.Config
	doc *docs.Document

	editor  *EditorPane
	preview *PreviewPane
	engine  *scrollsync.Engine

	focus       scrollsync.PaneID
	syncEnabled bool
	showHelp    bool
	width       int
	height      int
	sized       bool

	log zerolog.Logger
}

// NewModel creates the root model for the given document.
func NewModel(cfg *config.Config, doc *docs.Document) Model {
	editor := NewEditorPane()
	preview := NewPreviewPane(cfg.Preview.WordWrap)
	editor.SetContent(doc.Content)
	preview.SetContent(doc.Content)

	engine := scrollsync.New(editor, preview, cfg.SyncOptions())
	engine.RebuildAnchors(doc.Content)

	return Model{
		cfg:         cfg,
		doc:         doc,
		editor:      editor,
		preview:     preview,
		engine:      engine,
		focus:       scrollsync.PaneEditor,
		syncEnabled: true,
		log:         logging.Component("tui"),
	}
}

// Init starts the document watcher.
func (m Model) Init() tea.Cmd {
	return m.scheduleWatchTick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case syncTimerMsg:
		return m.handleSyncTimer(msg)
	case watchTickMsg:
		return m.handleWatchTick()
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	paneHeight := max(m.height-4, 1) // borders + status bar + help line
	editorWidth := m.width / 2
	previewWidth := m.width - editorWidth

	m.editor.SetSize(max(editorWidth-2, 1), paneHeight)
	m.preview.SetSize(max(previewWidth-2, 1), paneHeight)

	var cmd tea.Cmd
	if m.syncEnabled {
		cmd = m.scheduleTimers(m.engine.TriggerInitialSync())
	}
	m.sized = true
	return m, cmd
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.focus = other(m.focus)
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "s":
		m.syncEnabled = !m.syncEnabled
		var cmd tea.Cmd
		if m.syncEnabled {
			cmd = m.scheduleTimers(m.engine.TriggerInitialSync())
		}
		return m, cmd

	case "r":
		return m.reloadDocument()

	case "j", "down":
		m.focusedScroll(func(p paneControls) { p.ScrollDown(1) })
		return m, m.notifyScroll()
	case "k", "up":
		m.focusedScroll(func(p paneControls) { p.ScrollUp(1) })
		return m, m.notifyScroll()
	case "ctrl+d":
		m.focusedScroll(func(p paneControls) { p.HalfPageDown() })
		return m, m.notifyScroll()
	case "ctrl+u":
		m.focusedScroll(func(p paneControls) { p.HalfPageUp() })
		return m, m.notifyScroll()
	case "g", "home":
		m.focusedScroll(func(p paneControls) { p.GotoTop() })
		return m, m.notifyScroll()
	case "G", "end":
		m.focusedScroll(func(p paneControls) { p.GotoBottom() })
		return m, m.notifyScroll()
	}

	return m, nil
}

// paneControls is the scroll surface shared by both pane components.
type paneControls interface {
	ScrollDown(n int)
	ScrollUp(n int)
	HalfPageDown()
	HalfPageUp()
	GotoTop()
	GotoBottom()
}

func (m Model) focusedScroll(fn func(paneControls)) {
	if m.focus == scrollsync.PaneEditor {
		fn(m.editor)
	} else {
		fn(m.preview)
	}
}

// notifyScroll reports the focused pane's scroll to the engine and arms any
// timers it requests.
func (m Model) notifyScroll() tea.Cmd {
	if !m.syncEnabled {
		return nil
	}
	var timers []scrollsync.Timer
	if m.focus == scrollsync.PaneEditor {
		timers = m.engine.EditorScrolled()
	} else {
		timers = m.engine.PreviewScrolled()
	}
	return m.scheduleTimers(timers)
}

func (m Model) handleSyncTimer(msg syncTimerMsg) (tea.Model, tea.Cmd) {
	if !m.syncEnabled {
		return m, nil
	}
	return m, m.scheduleTimers(m.engine.TimerFired(msg.timer))
}

// scheduleTimers arms engine timer requests with tea.Tick. Stale generations
// are discarded by the engine when they fire.
func (m Model) scheduleTimers(timers []scrollsync.Timer) tea.Cmd {
	if len(timers) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(timers))
	for _, t := range timers {
		cmds = append(cmds, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return syncTimerMsg{timer: t}
		}))
	}
	return tea.Batch(cmds...)
}

func (m Model) scheduleWatchTick() tea.Cmd {
	interval := m.cfg.WatchInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m Model) handleWatchTick() (tea.Model, tea.Cmd) {
	if !m.doc.Changed() {
		return m, m.scheduleWatchTick()
	}
	model, cmd := m.reloadDocument()
	return model, tea.Batch(cmd, m.scheduleWatchTick())
}

// reloadDocument re-reads the file, re-renders both panes, and rebuilds the
// anchor state before realigning.
func (m Model) reloadDocument() (tea.Model, tea.Cmd) {
	if err := m.doc.Load(); err != nil {
		m.log.Error().Err(err).Str("path", m.doc.Path).Msg("reload failed")
		return m, nil
	}

	m.editor.SetContent(m.doc.Content)
	m.preview.SetContent(m.doc.Content)
	m.engine.RebuildAnchors(m.doc.Content)

	var cmd tea.Cmd
	if m.syncEnabled && m.sized {
		cmd = m.scheduleTimers(m.engine.TriggerInitialSync())
	}
	return m, cmd
}

func other(p scrollsync.PaneID) scrollsync.PaneID {
	if p == scrollsync.PaneEditor {
		return scrollsync.PanePreview
	}
	return scrollsync.PaneEditor
}

// View renders the split view with a status bar and help footer.
func (m Model) View() string {
	if !m.sized {
		return "loading..."
	}

	editorBorder := styles.PaneBorderStyle
	previewBorder := styles.PaneBorderStyle
	if m.focus == scrollsync.PaneEditor {
		editorBorder = styles.PaneBorderFocusedStyle
	} else {
		previewBorder = styles.PaneBorderFocusedStyle
	}

	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		editorBorder.Render(m.editor.View()),
		previewBorder.Render(m.preview.View()),
	)

	return panes + "\n" + m.statusBar() + "\n" + m.helpLine()
}

func (m Model) statusBar() string {
	sync := styles.StatusMutedStyle.Render(" sync off ")
	if m.syncEnabled {
		sync = styles.StatusSyncedStyle.Render(" sync on ")
	}

	left := styles.StatusFileStyle.Render(" "+m.doc.RelPath+" ") +
		styles.StatusPercentStyle.Render(fmt.Sprintf(" src %3.0f%% ", m.editor.ScrollPercent()*100)) +
		styles.StatusPercentStyle.Render(fmt.Sprintf(" prev %3.0f%% ", m.preview.ScrollPercent()*100)) +
		styles.StatusMutedStyle.Render(" focus: "+m.focus.String()+" ") +
		sync

	pad := m.width - lipgloss.Width(left)
	if pad < 0 {
		pad = 0
	}
	return left + styles.StatusBarStyle.Render(strings.Repeat(" ", pad))
}

func (m Model) helpLine() string {
	if !m.showHelp {
		return styles.HelpDescStyle.Render(" ? help")
	}

	entries := []struct{ key, desc string }{
		{"tab", "focus"},
		{"j/k", "scroll"},
		{"ctrl+d/u", "half page"},
		{"g/G", "top/bottom"},
		{"s", "toggle sync"},
		{"r", "reload"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, styles.HelpKeyStyle.Render(e.key)+" "+styles.HelpDescStyle.Render(e.desc))
	}
	return " " + strings.Join(parts, styles.HelpDescStyle.Render(" • "))
}
