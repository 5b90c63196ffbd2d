// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/wordstack/internal/ui/overlay"
	"github.com/zjrosen/wordstack/internal/ui/styles"
)

// DefaultDuration is how long a toast stays on screen.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota // ✅ green border
	StyleError                // ❌ red border
	StyleInfo                 // ℹ️ accent border
	StyleWarn                 // ⚠️ yellow border
)

// Model holds the toaster state. Each Show bumps seq so that a dismiss
// scheduled for an older toast never hides a newer one.
type Model struct {
	message  string
	style    Style
	visible  bool
	seq      int
	duration time.Duration
}

// New creates a toaster that dismisses after DefaultDuration.
func New() Model {
	return Model{duration: DefaultDuration}
}

// WithDuration returns a copy that dismisses toasts after d.
func (m Model) WithDuration(d time.Duration) Model {
	m.duration = d
	return m
}

// Show displays message and returns the command that will dismiss it.
func (m Model) Show(message string, style Style) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	m.visible = true
	return m, ScheduleDismiss(m.seq, m.duration)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Update hides the toast when its own DismissMsg arrives.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.ID == m.seq {
		return m.Hide()
	}
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the visible toast.
func (m Model) Message() string {
	return m.message
}

// Style returns the style of the current toast.
func (m Model) Style() Style {
	return m.style
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		box = box.BorderForeground(styles.ToastBorderErrorColor)
		icon = "❌ "
	case StyleInfo:
		box = box.BorderForeground(styles.ToastBorderInfoColor)
		icon = "ℹ️ "
	case StyleWarn:
		box = box.BorderForeground(styles.ToastBorderWarnColor)
		icon = "⚠️ "
	default:
		box = box.BorderForeground(styles.ToastBorderSuccessColor)
		icon = "✅ "
	}

	return box.Render(icon + m.message)
}

// Overlay renders the toast bottom-center on top of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg signals that the toast with the given ID should be dismissed.
type DismissMsg struct {
	ID int
}

// ScheduleDismiss returns a command that dismisses toast id after d.
func ScheduleDismiss(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{ID: id}
	})
}
