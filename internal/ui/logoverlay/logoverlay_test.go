package logoverlay

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/pubsub"
)

func visible(t *testing.T) Model {
	t.Helper()
	m := New()
	m.SetSize(100, 30)
	m.Toggle()
	require.True(t, m.Visible())
	return m
}

func TestAppend_BoundsBuffer(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+10; i++ {
		m.Append("2026-01-01T00:00:00 [INFO] [ui] entry\n")
	}
	require.Len(t, m.Entries(), maxEntries)
	require.False(t, strings.HasSuffix(m.Entries()[0], "\n"))
}

func TestLevelFilter(t *testing.T) {
	m := visible(t)
	m.Append("[DEBUG] [ui] a")
	m.Append("[INFO] [ui] b")
	m.Append("[WARN] [ui] c")
	m.Append("[ERROR] [ui] d")
	m.Append("panic: untagged")

	require.Len(t, m.Entries(), 5)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.Equal(t, []string{"[WARN] [ui] c", "[ERROR] [ui] d", "panic: untagged"}, m.Entries())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Empty(t, m.Entries())
	require.Contains(t, ansi.Strip(m.View()), "No logs to display")
}

func TestKeysIgnoredWhenHidden(t *testing.T) {
	m := New()
	m.Append("[DEBUG] [ui] a")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.Len(t, m.Entries(), 1)
}

func TestEscCloses(t *testing.T) {
	m := visible(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestView(t *testing.T) {
	m := visible(t)
	m.Append("2026-01-01T00:00:00 [INFO] [session] Created session id=abc")

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "Created session id=abc")
	require.Contains(t, view, "[d] Debug")
}

func TestOverlay_Centered(t *testing.T) {
	m := visible(t)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 100)+"\n", 30), "\n")

	out := m.Overlay(bg)
	require.Len(t, strings.Split(out, "\n"), 30)
	require.Contains(t, ansi.Strip(out), "Logs")

	hidden := New()
	require.Equal(t, bg, hidden.Overlay(bg))
}

func TestListening_ReceivesLogEvents(t *testing.T) {
	cleanup := log.InitWriter(io.Discard)
	defer cleanup()

	m := New()
	cmd := m.StartListening()
	require.NotNil(t, cmd)
	defer m.StopListening()

	log.Info(log.CatUI, "hello from test")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		ev, ok := msg.(pubsub.Event[string])
		require.True(t, ok, "expected a log event, got %T", msg)

		m, next := m.Update(ev)
		require.NotNil(t, next)
		require.Len(t, m.Entries(), 1)
		require.Contains(t, m.Entries()[0], "hello from test")
	case <-time.After(time.Second):
		t.Fatal("no log event received")
	}
}

func TestStartListening_NoLogger(t *testing.T) {
	m := New()
	require.Nil(t, m.StartListening())
}
