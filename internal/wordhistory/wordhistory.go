// Package wordhistory holds the word sequence being edited together with its
// linear undo/redo history.
//
// Every edit (Insert or Delete) pushes a copy of the pre-edit sequence onto the
// undo stack and clears the redo stack. Undo and Redo move the live sequence
// between the two stacks. Nothing here ever fails: over-long deletes are
// clamped and undo/redo on an empty stack report false and change nothing.
//
// A WordHistory is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see internal/session).
package wordhistory

import "strings"

// Snapshots is the rendered content of both history stacks.
// Entries are ordered bottom-of-stack first, so the most recent entry is last.
type Snapshots struct {
	Undo []string `json:"undo"`
	Redo []string `json:"redo"`
}

// Option configures a WordHistory.
type Option func(*WordHistory)

// WithMaxDepth bounds the undo stack to n snapshots, dropping the oldest
// when a push would exceed it. n <= 0 means unbounded (the default).
func WithMaxDepth(n int) Option {
	return func(h *WordHistory) {
		if n > 0 {
			h.maxDepth = n
		}
	}
}

// WordHistory is the live word sequence plus its undo and redo stacks.
type WordHistory struct {
	words    []string
	undo     [][]string
	redo     [][]string
	maxDepth int
}

// New creates an empty WordHistory.
func New(opts ...Option) *WordHistory {
	h := &WordHistory{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Insert splits text on whitespace and appends the tokens to the end of the
// sequence. It returns the number of tokens appended.
//
// A blank text appends nothing but is still recorded in history and still
// clears redo, so every call to Insert is exactly one undo step.
func (h *WordHistory) Insert(text string) int {
	tokens := strings.Fields(text)

	h.commit()
	h.words = append(h.words, tokens...)

	return len(tokens)
}

// Delete removes the last count tokens and returns how many were removed.
// count is clamped to [0, WordCount()]. A zero count removes nothing but is
// still recorded in history and still clears redo.
func (h *WordHistory) Delete(count int) int {
	if count < 0 {
		count = 0
	}
	if count > len(h.words) {
		count = len(h.words)
	}

	h.commit()
	h.words = h.words[:len(h.words)-count]

	return count
}

// Undo restores the most recent undo snapshot, moving the current sequence
// onto the redo stack. Returns false when there is nothing to undo.
func (h *WordHistory) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}

	h.redo = append(h.redo, clone(h.words))
	h.words = h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]

	return true
}

// Redo re-applies the most recently undone state, moving the current
// sequence onto the undo stack. Returns false when there is nothing to redo.
func (h *WordHistory) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}

	h.pushUndo(clone(h.words))
	h.words = h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]

	return true
}

// Text returns the tokens joined by single spaces.
func (h *WordHistory) Text() string {
	return strings.Join(h.words, " ")
}

// WordCount returns the number of tokens in the live sequence.
func (h *WordHistory) WordCount() int {
	return len(h.words)
}

// Words returns a copy of the live sequence.
func (h *WordHistory) Words() []string {
	return clone(h.words)
}

// Snapshots renders both stacks as joined text, oldest first.
func (h *WordHistory) Snapshots() Snapshots {
	return Snapshots{
		Undo: render(h.undo),
		Redo: render(h.redo),
	}
}

func (h *WordHistory) CanUndo() bool  { return len(h.undo) > 0 }
func (h *WordHistory) CanRedo() bool  { return len(h.redo) > 0 }
func (h *WordHistory) UndoDepth() int { return len(h.undo) }
func (h *WordHistory) RedoDepth() int { return len(h.redo) }

// Reset discards the sequence and both stacks. It is not itself undoable.
func (h *WordHistory) Reset() {
	h.words = nil
	h.undo = nil
	h.redo = nil
}

// commit records the current sequence before an edit and invalidates redo.
func (h *WordHistory) commit() {
	h.pushUndo(clone(h.words))
	h.redo = nil
}

func (h *WordHistory) pushUndo(snapshot []string) {
	h.undo = append(h.undo, snapshot)
	if h.maxDepth > 0 && len(h.undo) > h.maxDepth {
		excess := len(h.undo) - h.maxDepth
		h.undo = append([][]string(nil), h.undo[excess:]...)
	}
}

// clone returns an independent copy of words. The result is never nil so
// restored snapshots and fresh sequences compare equal.
func clone(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	return out
}

func render(stack [][]string) []string {
	out := make([]string, len(stack))
	for i, snapshot := range stack {
		out[i] = strings.Join(snapshot, " ")
	}
	return out
}
