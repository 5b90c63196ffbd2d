package snapshotlist

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newList() Model {
	return New("Undo stack", "Undo stack is empty.", "undo").SetSize(30, 6)
}

func plain(m Model) []string {
	return strings.Split(ansi.Strip(zone.Scan(m.View())), "\n")
}

func TestEmpty(t *testing.T) {
	m := newList()

	_, _, ok := m.Selected()
	require.False(t, ok)

	lines := plain(m)
	require.Contains(t, lines[0], "Undo stack (0)")
	require.Contains(t, lines[1], "Undo stack is empty.")
}

func TestSetEntries_SelectsNewest(t *testing.T) {
	m := newList().SetEntries([]string{"", "the quick", "the quick brown fox"})

	i, text, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, 2, i)
	require.Equal(t, "the quick brown fox", text)

	lines := plain(m)
	require.Contains(t, lines[0], "Undo stack (3)")
	require.Contains(t, lines[1], "1 (empty)")
	require.Contains(t, lines[3], "> 3 the quick brown fox")
}

func TestSetEntries_ResetsSelection(t *testing.T) {
	m := newList().SetEntries([]string{"a", "b", "c"}).Select(0)
	m = m.SetEntries([]string{"a", "b"})

	i, _, _ := m.Selected()
	require.Equal(t, 1, i)
}

func TestSetEntries_Copies(t *testing.T) {
	in := []string{"a", "b"}
	m := newList().SetEntries(in)
	in[0] = "changed"

	require.Equal(t, []string{"a", "b"}, m.Entries())
}

func TestKeys_OnlyWhenFocused(t *testing.T) {
	m := newList().SetEntries([]string{"a", "b", "c"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	i, _, _ := m.Selected()
	require.Equal(t, 2, i, "blurred list ignores keys")

	m = m.Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	i, _, _ = m.Selected()
	require.Equal(t, 0, i, "selection clamps at the oldest entry")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	i, _, _ = m.Selected()
	require.Equal(t, 2, i)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyHome})
	i, _, _ = m.Selected()
	require.Equal(t, 0, i)
}

func TestView_ScrollsToSelection(t *testing.T) {
	entries := make([]string, 10)
	for i := range entries {
		entries[i] = strings.Repeat("w", i+1)
	}
	m := newList().SetEntries(entries)

	lines := plain(m)
	require.Len(t, lines, 6)
	require.Contains(t, lines[4], "> 10 wwwwwwwwww")
	require.NotContains(t, strings.Join(lines, "\n"), " 1 w ")

	m = m.Focus().Select(0)
	lines = plain(m)
	require.Contains(t, lines[1], ">  1 w")
}

func TestView_TruncatesAndPads(t *testing.T) {
	m := newList().SetEntries([]string{strings.Repeat("long ", 20), "日本語 テキスト"})

	for i, line := range plain(m) {
		require.Equal(t, 30, ansi.StringWidth(line), "line %d: %q", i, line)
	}
	require.Contains(t, plain(m)[1], "…")
}

func TestMouse_ClickSelectsRow(t *testing.T) {
	m := newList().SetEntries([]string{"a", "b", "c"})

	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		zone.Scan(m.View())
		z = zone.Get(m.RowZoneID(0))
		if z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, cmd := m.Update(tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})
	require.NotNil(t, cmd)
	require.Equal(t, ClickedMsg{ZoneID: "undo", Index: 0}, cmd())

	i, text, _ := m.Selected()
	require.Equal(t, 0, i)
	require.Equal(t, "a", text)
}
