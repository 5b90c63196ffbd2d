// Package snapshotlist renders one history stack as a selectable list.
package snapshotlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/wordstack/internal/keys"
	"github.com/zjrosen/wordstack/internal/ui/styles"
)

// emptySnapshot is shown for a snapshot of an empty document.
const emptySnapshot = "(empty)"

// Model is a bordered list of snapshots, oldest first. Whenever the entries
// change the newest one is selected.
type Model struct {
	title     string
	emptyText string
	zoneID    string
	keys      keys.StackKeyMap

	entries  []string
	selected int
	offset   int

	width   int
	height  int
	focused bool
}

// New creates an empty list. zoneID prefixes the bubblezone IDs of its rows
// and must be unique per list on screen.
func New(title, emptyText, zoneID string) Model {
	return Model{
		title:     title,
		emptyText: emptyText,
		zoneID:    zoneID,
		keys:      keys.DefaultStackKeyMap(),
		selected:  -1,
	}
}

// SetEntries replaces the entries and selects the newest.
func (m Model) SetEntries(entries []string) Model {
	m.entries = append([]string(nil), entries...)
	m.selected = len(m.entries) - 1
	m.clampOffset()
	return m
}

// Entries returns the displayed snapshots, oldest first.
func (m Model) Entries() []string {
	return append([]string(nil), m.entries...)
}

// Selected returns the index and text of the selected snapshot.
// ok is false when the list is empty.
func (m Model) Selected() (index int, text string, ok bool) {
	if m.selected < 0 || m.selected >= len(m.entries) {
		return -1, "", false
	}
	return m.selected, m.entries[m.selected], true
}

// Select moves the selection to index, clamped to the list.
func (m Model) Select(index int) Model {
	if len(m.entries) == 0 {
		return m
	}
	m.selected = max(0, min(index, len(m.entries)-1))
	m.clampOffset()
	return m
}

// SetSize sets the outer size of the panel including its border.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.clampOffset()
	return m
}

func (m Model) Focus() Model {
	m.focused = true
	return m
}

func (m Model) Blur() Model {
	m.focused = false
	return m
}

func (m Model) Focused() bool {
	return m.focused
}

// RowZoneID returns the bubblezone ID of row i.
func (m Model) RowZoneID(i int) string {
	return fmt.Sprintf("%s-row-%d", m.zoneID, i)
}

// Update handles navigation keys while focused and row clicks at any time.
// A click reports ClickedMsg so the parent can move focus to the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused || len(m.entries) == 0 {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			return m.Select(m.selected - 1), nil
		case key.Matches(msg, m.keys.Down):
			return m.Select(m.selected + 1), nil
		case key.Matches(msg, m.keys.Top):
			return m.Select(0), nil
		case key.Matches(msg, m.keys.Bottom):
			return m.Select(len(m.entries) - 1), nil
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		for i := m.offset; i < min(len(m.entries), m.offset+m.visibleRows()); i++ {
			if z := zone.Get(m.RowZoneID(i)); z != nil && z.InBounds(msg) {
				m = m.Select(i)
				zoneID := m.zoneID
				return m, func() tea.Msg { return ClickedMsg{ZoneID: zoneID, Index: i} }
			}
		}
	}
	return m, nil
}

// ClickedMsg is sent when a row of the list is clicked.
type ClickedMsg struct {
	ZoneID string
	Index  int
}

// View renders the bordered list.
func (m Model) View() string {
	title := fmt.Sprintf("%s (%d)", m.title, len(m.entries))
	return styles.Panel(m.body(), title, m.width, m.height, m.focused)
}

func (m Model) body() string {
	inner := max(m.width-2, 1)
	if len(m.entries) == 0 {
		return styles.MutedStyle.Render(ansi.Truncate(m.emptyText, inner, "…"))
	}

	numWidth := len(fmt.Sprint(len(m.entries)))
	// "> " + number + " "
	textWidth := max(inner-numWidth-3, 1)

	end := min(len(m.entries), m.offset+m.visibleRows())
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		text := m.entries[i]
		if text == "" {
			text = emptySnapshot
		}
		text = runewidth.FillRight(ansi.Truncate(text, textWidth, "…"), textWidth)
		num := fmt.Sprintf("%*d", numWidth, i+1)

		var row string
		if i == m.selected {
			row = styles.SelectionIndicatorStyle.Render("> "+num) + " " + styles.LabelStyle.Render(text)
		} else {
			row = "  " + styles.MutedStyle.Render(num) + " " + styles.MutedStyle.Render(text)
		}
		rows = append(rows, zone.Mark(m.RowZoneID(i), row))
	}
	return strings.Join(rows, "\n")
}

func (m Model) visibleRows() int {
	return max(m.height-2, 1)
}

// clampOffset scrolls so the selection stays visible.
func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = max(m.selected, 0)
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = max(0, min(m.offset, max(len(m.entries)-rows, 0)))
}
