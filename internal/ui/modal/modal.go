// Package modal provides a confirmation dialog with confirm and cancel
// buttons, drawn centered over the screen.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/wordstack/internal/ui/overlay"
	"github.com/zjrosen/wordstack/internal/ui/styles"
)

// ButtonVariant controls the styling of the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota // Blue (default)
	ButtonDanger                       // Red (for destructive actions)
)

// Zone IDs of the two buttons.
const (
	ZoneConfirm = "modal-confirm"
	ZoneCancel  = "modal-cancel"
)

// Config controls modal appearance.
type Config struct {
	Title          string        // Modal title (e.g., "New Document")
	Message        string        // Optional message text
	ConfirmLabel   string        // Confirm button label (default "Confirm")
	ConfirmVariant ButtonVariant // Style for confirm button (default: ButtonPrimary)
	MinWidth       int           // Minimum width (0 = default 40)
}

// ConfirmMsg is sent when the user confirms the modal.
type ConfirmMsg struct{}

// CancelMsg is sent when the user cancels the modal (Esc key or Cancel button).
type CancelMsg struct{}

// Field identifies which button is focused.
type Field int

const (
	FieldConfirm Field = iota
	FieldCancel
)

// Model is the modal component state.
type Model struct {
	config       Config
	focusedField Field
	width        int
	height       int
}

// New creates a modal with the confirm button focused.
func New(cfg Config) Model {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Confirm"
	}
	return Model{config: cfg, focusedField: FieldConfirm}
}

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			m.focusedField = 1 - m.focusedField
			return m, nil

		case "y":
			return m, confirm
		case "n", "esc":
			return m, cancel

		case "enter":
			if m.focusedField == FieldConfirm {
				return m, confirm
			}
			return m, cancel
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(ZoneConfirm); z != nil && z.InBounds(msg) {
			return m, confirm
		}
		if z := zone.Get(ZoneCancel); z != nil && z.InBounds(msg) {
			return m, cancel
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func confirm() tea.Msg { return ConfirmMsg{} }
func cancel() tea.Msg  { return CancelMsg{} }

// View renders the modal box (without overlay).
func (m Model) View() string {
	contentWidth := max(m.config.MinWidth, 40, lipgloss.Width(m.config.Title))
	boxWidth := contentWidth + 2 // Account for content padding

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.AccentColor).
		PaddingLeft(1)

	divider := lipgloss.NewStyle().
		Foreground(styles.BorderDefaultColor).
		Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	if m.config.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(contentWidth)
		content.WriteString(msgStyle.Render(m.config.Message))
		content.WriteString("\n\n")
	}
	content.WriteString(m.renderButtons())

	var result strings.Builder
	result.WriteString(titleStyle.Render(m.config.Title))
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	result.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(content.String()))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.AccentColor).
		Width(boxWidth).
		Render(result.String())
}

func (m Model) renderButtons() string {
	var confirmStyle lipgloss.Style
	switch m.config.ConfirmVariant {
	case ButtonDanger:
		confirmStyle = styles.DangerButtonStyle
		if m.focusedField == FieldConfirm {
			confirmStyle = styles.DangerButtonFocusedStyle
		}
	default: // ButtonPrimary
		confirmStyle = styles.PrimaryButtonStyle
		if m.focusedField == FieldConfirm {
			confirmStyle = styles.PrimaryButtonFocusedStyle
		}
	}

	cancelStyle := styles.SecondaryButtonStyle
	if m.focusedField == FieldCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}

	return zone.Mark(ZoneConfirm, confirmStyle.Render(m.config.ConfirmLabel)) + "  " +
		zone.Mark(ZoneCancel, cancelStyle.Render("Cancel"))
}

// Overlay renders the modal centered on the given background.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the modal's knowledge of viewport size for overlay centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// FocusedField returns the currently focused button.
func (m Model) FocusedField() Field {
	return m.focusedField
}
