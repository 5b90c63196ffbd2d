// Package editor is the word editor screen: insert and delete controls,
// undo and redo buttons, the current text and both history stacks.
package editor

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wordstack/internal/command"
	"github.com/zjrosen/wordstack/internal/keys"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/tracing"
	"github.com/zjrosen/wordstack/internal/ui/modal"
	"github.com/zjrosen/wordstack/internal/ui/snapshotlist"
	"github.com/zjrosen/wordstack/internal/ui/toaster"
	"github.com/zjrosen/wordstack/internal/wordhistory"
)

// DocumentID labels the terminal editor's document in traces.
const DocumentID = "tui"

// field is a focusable control, in tab order.
type field int

const (
	fieldInsertInput field = iota
	fieldInsertButton
	fieldDeleteInput
	fieldDeleteButton
	fieldUndoButton
	fieldRedoButton
	fieldUndoList
	fieldRedoList
	fieldCount
)

// Zone IDs for clickable controls.
const (
	zoneInsertInput  = "editor-insert-input"
	zoneInsertButton = "editor-insert"
	zoneDeleteInput  = "editor-delete-input"
	zoneDeleteButton = "editor-delete"
	zoneUndoButton   = "editor-undo"
	zoneRedoButton   = "editor-redo"
	zoneUndoList     = "editor-undo-stack"
	zoneRedoList     = "editor-redo-stack"
)

// Config configures a new editor.
type Config struct {
	MaxHistory    int    // 0 keeps every snapshot
	ShowStacks    bool   // render the undo and redo lists
	ShowWelcome   bool   // render the welcome blurb
	MarkdownStyle string // glamour style for the blurb, "dark" or "light"
	WordDiff      bool   // render the snapshot diff line under the stacks
	Tracer        trace.Tracer
}

// ToastMsg asks the parent to show a toast.
type ToastMsg struct {
	Message string
	Style   toaster.Style
}

// StacksToggledMsg reports that the user toggled the stack panels.
type StacksToggledMsg struct {
	Show bool
}

// Model is the editor screen.
type Model struct {
	history *wordhistory.WordHistory
	tracer  trace.Tracer
	keys    keys.KeyMap
	help    help.Model

	insertInput textinput.Model
	deleteInput textinput.Model
	undoList    snapshotlist.Model
	redoList    snapshotlist.Model

	// New-document confirmation, shown over the screen while confirming.
	confirm    modal.Model
	confirming bool

	focus         field
	showHelp      bool
	showStacks    bool
	showWelcome   bool
	wordDiff      bool
	markdownStyle string
	welcome       welcomeCache

	width  int
	height int
}

// New creates an editor with an empty document and focus on the insert field.
func New(cfg Config) Model {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.Disabled().Tracer()
	}

	insert := textinput.New()
	insert.Prompt = ""
	insert.Placeholder = "Type words here..."
	insert.Focus()

	del := textinput.New()
	del.Prompt = ""
	del.Placeholder = "0"
	del.CharLimit = 9

	m := Model{
		history:       wordhistory.New(wordhistory.WithMaxDepth(cfg.MaxHistory)),
		tracer:        tracer,
		keys:          keys.DefaultKeyMap(),
		help:          help.New(),
		insertInput:   insert,
		deleteInput:   del,
		undoList:      snapshotlist.New("Undo stack", "Undo stack is empty.", zoneUndoList),
		redoList:      snapshotlist.New("Redo stack", "Redo stack is empty.", zoneRedoList),
		showStacks:    cfg.ShowStacks,
		showWelcome:   cfg.ShowWelcome,
		wordDiff:      cfg.WordDiff,
		markdownStyle: cfg.MarkdownStyle,
	}
	return m.syncStacks()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	m.confirm.SetSize(width, height)
	return m.layout()
}

// SetShowStacks shows or hides the stack panels, moving focus off a
// hidden list.
func (m Model) SetShowStacks(show bool) Model {
	m.showStacks = show
	if !show && (m.focus == fieldUndoList || m.focus == fieldRedoList) {
		m, _ = m.setFocus(fieldInsertInput)
	}
	return m.layout()
}

// SetShowWelcome shows or hides the welcome blurb.
func (m Model) SetShowWelcome(show bool) Model {
	m.showWelcome = show
	return m.layout()
}

// SetMarkdownStyle changes the glamour style of the welcome blurb.
func (m Model) SetMarkdownStyle(style string) Model {
	m.markdownStyle = style
	return m
}

// ShowStacks reports whether the stack panels are visible.
func (m Model) ShowStacks() bool {
	return m.showStacks
}

// Text returns the current document text.
func (m Model) Text() string {
	return m.history.Text()
}

// Snapshots returns both history stacks, oldest first.
func (m Model) Snapshots() wordhistory.Snapshots {
	return m.history.Snapshots()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.confirming {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		return m.handleMouse(msg)

	case modal.ConfirmMsg:
		m.confirming = false
		return m.newDocument()

	case modal.CancelMsg:
		m.confirming = false
		return m, nil

	case snapshotlist.ClickedMsg:
		switch msg.ZoneID {
		case zoneUndoList:
			return m.setFocus(fieldUndoList)
		case zoneRedoList:
			return m.setFocus(fieldRedoList)
		}
		return m, nil
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.focus {
	case fieldInsertInput:
		m.insertInput, cmd = m.insertInput.Update(msg)
	case fieldDeleteInput:
		m.deleteInput, cmd = m.deleteInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case m.showHelp && (key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help)):
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Help) && (msg.Type == tea.KeyF1 || !m.focusIsInput()):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m.setFocus(m.nextField(1))

	case key.Matches(msg, m.keys.PrevField):
		return m.setFocus(m.nextField(-1))

	case key.Matches(msg, m.keys.Undo):
		return m.run(command.Undo())

	case key.Matches(msg, m.keys.Redo):
		return m.run(command.Redo())

	case key.Matches(msg, m.keys.ToggleStacks):
		m = m.SetShowStacks(!m.showStacks)
		show := m.showStacks
		log.Debug(log.CatUI, "Toggled stack panels", "show", show)
		return m, func() tea.Msg { return StacksToggledMsg{Show: show} }

	case key.Matches(msg, m.keys.NewDocument):
		if m.history.Text() == "" && !m.history.CanUndo() && !m.history.CanRedo() {
			return m.newDocument()
		}
		m.confirm = modal.New(modal.Config{
			Title:          "New Document",
			Message:        "Discard the current text and its undo/redo history?",
			ConfirmLabel:   "Discard",
			ConfirmVariant: modal.ButtonDanger,
		})
		m.confirm.SetSize(m.width, m.height)
		m.confirming = true
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		return m.activate(m.focus)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldInsertInput:
		m.insertInput, cmd = m.insertInput.Update(msg)
	case fieldDeleteInput:
		m.deleteInput, cmd = m.deleteInput.Update(msg)
	case fieldUndoList:
		m.undoList, cmd = m.undoList.Update(msg)
	case fieldRedoList:
		m.redoList, cmd = m.redoList.Update(msg)
	}
	return m, cmd
}

// newDocument clears the history and both input fields.
func (m Model) newDocument() (Model, tea.Cmd) {
	m.history.Reset()
	m.insertInput.SetValue("")
	m.deleteInput.SetValue("")
	log.Info(log.CatEditor, "Started a new document")
	return m.syncStacks(), toast("Started a new document", toaster.StyleInfo)
}

// activate runs the action behind f.
func (m Model) activate(f field) (Model, tea.Cmd) {
	switch f {
	case fieldInsertInput, fieldInsertButton:
		return m.run(command.Insert(m.insertInput.Value()))
	case fieldDeleteInput, fieldDeleteButton:
		return m.run(command.Delete(parseCount(m.deleteInput.Value())))
	case fieldUndoButton:
		return m.run(command.Undo())
	case fieldRedoButton:
		return m.run(command.Redo())
	}
	return m, nil
}

// run validates and applies cmd. Rejected input leaves the document and the
// input fields untouched and produces an error toast.
func (m Model) run(cmd command.Command) (Model, tea.Cmd) {
	if err := cmd.Validate(); err != nil {
		log.Warn(log.CatEditor, "Rejected command", "command", cmd.String(), "error", err)
		return m, toast(err.Error(), toaster.StyleError)
	}

	_, span := tracing.StartCommandSpan(context.Background(), m.tracer, DocumentID, string(cmd.Kind))
	changed := cmd.Apply(m.history)
	tracing.RecordOutcome(span, changed, m.history.WordCount(), m.history.UndoDepth(), m.history.RedoDepth())
	span.End()

	log.Debug(log.CatEditor, "Applied command",
		"command", cmd.String(),
		"changed", changed,
		"words", m.history.WordCount(),
		"undo", m.history.UndoDepth(),
		"redo", m.history.RedoDepth())

	if cmd.Kind == command.KindInsert {
		m.insertInput.SetValue("")
	}
	return m.syncStacks(), nil
}

// parseCount reads the delete field. Anything that is not an integer counts
// as zero and is rejected by validation.
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (m Model) setFocus(f field) (Model, tea.Cmd) {
	m.focus = f
	m.insertInput.Blur()
	m.deleteInput.Blur()
	m.undoList = m.undoList.Blur()
	m.redoList = m.redoList.Blur()

	var cmd tea.Cmd
	switch f {
	case fieldInsertInput:
		cmd = m.insertInput.Focus()
	case fieldDeleteInput:
		cmd = m.deleteInput.Focus()
	case fieldUndoList:
		m.undoList = m.undoList.Focus()
	case fieldRedoList:
		m.redoList = m.redoList.Focus()
	}
	return m, cmd
}

// nextField steps through the tab order, skipping hidden lists.
func (m Model) nextField(step int) field {
	f := m.focus
	for range fieldCount {
		f = (f + field(step) + fieldCount) % fieldCount
		if m.showStacks || (f != fieldUndoList && f != fieldRedoList) {
			return f
		}
	}
	return m.focus
}

func (m Model) focusIsInput() bool {
	return m.focus == fieldInsertInput || m.focus == fieldDeleteInput
}

// syncStacks reloads both lists from the history, selecting the newest
// entry of each.
func (m Model) syncStacks() Model {
	snaps := m.history.Snapshots()
	m.undoList = m.undoList.SetEntries(snaps.Undo)
	m.redoList = m.redoList.SetEntries(snaps.Redo)
	return m
}

func toast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Message: message, Style: style} }
}
