package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duetview/duet/internal/core/config"
	"github.com/duetview/duet/internal/core/docs"
	"github.com/duetview/duet/internal/scrollsync"
	"github.com/duetview/duet/pkg/tuitest"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()

	var b strings.Builder
	b.WriteString("# Alpha\n\n")
	for i := 0; i < 20; i++ {
		b.WriteString("some text\n")
	}
	b.WriteString("\n## Beta\n\n")
	for i := 0; i < 20; i++ {
		b.WriteString("more text\n")
	}

	doc := &docs.Document{RelPath: "notes.md", Content: b.String()}
	return NewModel(&cfg, doc)
}

func TestModelQuitKey(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tuitest.KeyPress('q'))
	assert.NotNil(t, cmd)
}

func TestModelWindowSize(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, "loading...", m.View())

	model, _ := m.Update(tuitest.WindowSize(100, 30))
	sized := model.(Model)

	view := tuitest.StripANSI(sized.View())
	assert.Contains(t, view, "notes.md")
	assert.Contains(t, view, "sync on")
	assert.Contains(t, view, "Alpha")
}

func TestModelFocusToggle(t *testing.T) {
	m := testModel(t)
	require.Equal(t, scrollsync.PaneEditor, m.focus)

	model, _ := m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyTab}))
	assert.Equal(t, scrollsync.PanePreview, model.(Model).focus)

	model, _ = model.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyTab}))
	assert.Equal(t, scrollsync.PaneEditor, model.(Model).focus)
}

func TestModelSyncToggle(t *testing.T) {
	m := testModel(t)
	model, _ := m.Update(tuitest.WindowSize(100, 30))

	model, _ = model.Update(tuitest.KeyPress('s'))
	assert.False(t, model.(Model).syncEnabled)
	view := tuitest.StripANSI(model.(Model).View())
	assert.Contains(t, view, "sync off")

	model, _ = model.Update(tuitest.KeyPress('s'))
	assert.True(t, model.(Model).syncEnabled)
}

func TestModelHelpToggle(t *testing.T) {
	m := testModel(t)
	model, _ := m.Update(tuitest.WindowSize(100, 30))

	view := tuitest.StripANSI(model.(Model).View())
	assert.NotContains(t, view, "toggle sync")

	model, _ = model.Update(tuitest.KeyPress('?'))
	view = tuitest.StripANSI(model.(Model).View())
	assert.Contains(t, view, "toggle sync")
}

func TestModelScrollDrivesSync(t *testing.T) {
	m := testModel(t)
	model, _ := m.Update(tuitest.WindowSize(100, 12))
	sized := model.(Model)

	before := sized.editor.ScrollTop()
	model, cmd := sized.Update(tuitest.KeyPress('j'))
	after := model.(Model)

	assert.Equal(t, before+1, after.editor.ScrollTop())
	// The engine always arms at least the settle debounce.
	assert.NotNil(t, cmd)
}

func TestModelSyncTimerRoundTrip(t *testing.T) {
	m := testModel(t)
	model, _ := m.Update(tuitest.WindowSize(100, 12))
	sized := model.(Model)

	model, _ = sized.Update(tuitest.KeyPress('j'))
	after := model.(Model)

	// Delivering a stale timer is harmless.
	_, cmd := after.Update(syncTimerMsg{timer: scrollsync.Timer{
		Kind: scrollsync.TimerSettle,
		Pane: scrollsync.PaneEditor,
		Gen:  0,
	}})
	assert.Nil(t, cmd)
}
