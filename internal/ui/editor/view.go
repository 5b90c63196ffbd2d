package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/ui/markdown"
	"github.com/zjrosen/wordstack/internal/ui/styles"
	"github.com/zjrosen/wordstack/internal/ui/worddiff"
)

const (
	title      = "Word-based Text Editor with Undo/Redo"
	welcomeMD  = "**Welcome to the Word Editor!** Use this tool to manage a list of words. You can insert new words, delete existing ones, and use undo/redo functionality to manage your text."
	minWidth   = 60
	textHeight = 7
	listHeight = 8
	buttonGap  = 2
)

// welcomeCache holds the rendered blurb for one width and style.
type welcomeCache struct {
	width    int
	style    string
	rendered string
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(m.width, minWidth)
}

func (m Model) leftWidth() int {
	return m.contentWidth() * 2 / 3
}

// layout recomputes child sizes and the welcome blurb after a size or
// option change.
func (m Model) layout() Model {
	w := m.contentWidth()
	left := m.leftWidth()

	// input box: border (2) + cursor cell (1), then the button beside it
	inputWidth := max(left-lipgloss.Width(button("Delete", styles.DangerButtonStyle))-buttonGap-3, 10)
	m.insertInput.Width = inputWidth
	m.deleteInput.Width = inputWidth

	m.undoList = m.undoList.SetSize(w/2, listHeight)
	m.redoList = m.redoList.SetSize(w-w/2, listHeight)

	if m.showWelcome && (m.welcome.width != w || m.welcome.style != m.markdownStyle) {
		m.welcome = renderWelcome(w, m.markdownStyle)
	}
	return m
}

func renderWelcome(width int, style string) welcomeCache {
	cache := welcomeCache{width: width, style: style, rendered: wordwrap.String(welcomeMD, width)}
	r, err := markdown.New(width, style)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create markdown renderer", err, "style", style)
		return cache
	}
	out, err := r.Render(welcomeMD)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render welcome text", err)
		return cache
	}
	cache.rendered = out
	return cache
}

// View implements tea.Model.
func (m Model) View() string {
	w := m.contentWidth()

	sections := []string{styles.TitleStyle.Render(title)}
	if m.showWelcome {
		sections = append(sections, m.welcome.rendered)
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.leftWidth()).Render(m.viewInputs()),
		m.viewHistoryButtons(),
	)
	sections = append(sections, controls, m.viewText(w), m.viewStatus())

	if m.showStacks {
		stacks := lipgloss.JoinHorizontal(lipgloss.Top,
			m.undoList.View(),
			m.redoList.View(),
		)
		sections = append(sections, stacks)
		if m.wordDiff {
			sections = append(sections, m.viewDiff(w))
		}
	}

	m.help.ShowAll = m.showHelp
	sections = append(sections, m.help.View(m.keys))

	view := strings.Join(sections, "\n")
	if m.confirming {
		view = m.confirm.Overlay(view)
	}
	return view
}

func (m Model) viewInputs() string {
	insertRow := lipgloss.JoinHorizontal(lipgloss.Center,
		zone.Mark(zoneInsertInput, inputBox(m.insertInput, m.focus == fieldInsertInput)),
		strings.Repeat(" ", buttonGap),
		zone.Mark(zoneInsertButton, button("Insert", pick(m.focus == fieldInsertButton,
			styles.PrimaryButtonFocusedStyle, styles.PrimaryButtonStyle))),
	)
	deleteRow := lipgloss.JoinHorizontal(lipgloss.Center,
		zone.Mark(zoneDeleteInput, inputBox(m.deleteInput, m.focus == fieldDeleteInput)),
		strings.Repeat(" ", buttonGap),
		zone.Mark(zoneDeleteButton, button("Delete", pick(m.focus == fieldDeleteButton,
			styles.DangerButtonFocusedStyle, styles.DangerButtonStyle))),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.LabelStyle.Render("Enter words to insert:"),
		insertRow,
		styles.LabelStyle.Render("Number of words to delete:"),
		deleteRow,
	)
}

func (m Model) viewHistoryButtons() string {
	undo := styles.DisabledButtonStyle
	if m.history.CanUndo() {
		undo = pick(m.focus == fieldUndoButton, styles.SecondaryButtonFocusedStyle, styles.SecondaryButtonStyle)
	} else if m.focus == fieldUndoButton {
		undo = styles.SecondaryButtonFocusedStyle
	}
	redo := styles.DisabledButtonStyle
	if m.history.CanRedo() {
		redo = pick(m.focus == fieldRedoButton, styles.SecondaryButtonFocusedStyle, styles.SecondaryButtonStyle)
	} else if m.focus == fieldRedoButton {
		redo = styles.SecondaryButtonFocusedStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		zone.Mark(zoneUndoButton, button("Undo", undo)),
		"",
		zone.Mark(zoneRedoButton, button("Redo", redo)),
	)
}

func (m Model) viewText(width int) string {
	inner := width - 2
	text := m.history.Text()
	body := styles.MutedStyle.Render("(empty)")
	if text != "" {
		body = styles.LabelStyle.Render(wrap.String(wordwrap.String(text, inner), inner))
	}
	return styles.Panel(body, "Current text", width, textHeight, false)
}

func (m Model) viewStatus() string {
	text := m.history.Text()
	return styles.StatusBarStyle.Render(fmt.Sprintf("Word count: %d   Characters: %d   Undo: %d   Redo: %d",
		m.history.WordCount(),
		uniseg.GraphemeClusterCount(text),
		m.history.UndoDepth(),
		m.history.RedoDepth(),
	))
}

// viewDiff compares the selected snapshot of the focused stack (the undo
// stack unless the redo list has focus) with the current text.
func (m Model) viewDiff(width int) string {
	list, name := m.undoList, "undo"
	if m.focus == fieldRedoList {
		list, name = m.redoList, "redo"
	}

	i, snapshot, ok := list.Selected()
	if !ok {
		return styles.MutedStyle.Render(fmt.Sprintf("No %s snapshot selected.", name))
	}

	label := styles.MutedStyle.Render(fmt.Sprintf("%s #%d → current: ", name, i+1))
	segs := worddiff.Compute(strings.Fields(snapshot), m.history.Words())
	if len(segs) == 0 {
		return label + styles.MutedStyle.Render("(both empty)")
	}
	return ansi.Truncate(label+worddiff.Render(segs), width, "…")
}

func inputBox(in textinput.Model, focused bool) string {
	border := styles.BorderDefaultColor
	if focused {
		border = styles.AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(in.Width + 1).
		Render(in.View())
}

func button(label string, style lipgloss.Style) string {
	return style.Render(label)
}

func pick(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}

// handleMouse maps a left click to the control under it.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	targets := []struct {
		zoneID string
		field  field
		click  bool
	}{
		{zoneInsertButton, fieldInsertButton, true},
		{zoneDeleteButton, fieldDeleteButton, true},
		{zoneUndoButton, fieldUndoButton, true},
		{zoneRedoButton, fieldRedoButton, true},
		{zoneInsertInput, fieldInsertInput, false},
		{zoneDeleteInput, fieldDeleteInput, false},
	}
	for _, t := range targets {
		if z := zone.Get(t.zoneID); z != nil && z.InBounds(msg) {
			var focusCmd tea.Cmd
			m, focusCmd = m.setFocus(t.field)
			if !t.click {
				return m, focusCmd
			}
			var cmd tea.Cmd
			m, cmd = m.activate(t.field)
			return m, tea.Batch(focusCmd, cmd)
		}
	}

	if m.showStacks {
		var undoCmd, redoCmd tea.Cmd
		m.undoList, undoCmd = m.undoList.Update(msg)
		m.redoList, redoCmd = m.redoList.Update(msg)
		return m, tea.Batch(undoCmd, redoCmd)
	}
	return m, nil
}
