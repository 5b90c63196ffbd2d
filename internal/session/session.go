// Package session keeps one WordHistory per editing session and serializes
// access to it, so many clients can edit independent documents concurrently.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/zjrosen/wordstack/internal/command"
	"github.com/zjrosen/wordstack/internal/wordhistory"
)

var (
	// ErrSessionNotFound is returned for unknown, deleted or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned by Create when the session cap is reached.
	ErrTooManySessions = errors.New("too many sessions")
	// ErrManagerClosed is returned once Close has been called.
	ErrManagerClosed = errors.New("session manager closed")
)

// State is a read model of one session's document and history.
type State struct {
	Text      string   `json:"text"`
	WordCount int      `json:"word_count"`
	Words     []string `json:"words"`
	Undo      []string `json:"undo"`
	Redo      []string `json:"redo"`
	CanUndo   bool     `json:"can_undo"`
	CanRedo   bool     `json:"can_redo"`
}

// StateOf captures the current state of h. The result shares no memory with h.
func StateOf(h *wordhistory.WordHistory) State {
	snaps := h.Snapshots()
	return State{
		Text:      h.Text(),
		WordCount: h.WordCount(),
		Words:     h.Words(),
		Undo:      snaps.Undo,
		Redo:      snaps.Redo,
		CanUndo:   h.CanUndo(),
		CanRedo:   h.CanRedo(),
	}
}

// Event is the payload published on the manager's broker.
// Command is empty for lifecycle events (created, deleted, expired).
type Event struct {
	SessionID string       `json:"session_id"`
	Command   command.Kind `json:"command,omitempty"`
	Changed   bool         `json:"changed"`
	State     State        `json:"state"`
}

// Result is the outcome of applying one command.
type Result struct {
	SessionID string          `json:"session_id"`
	Command   command.Command `json:"-"`
	Changed   bool            `json:"changed"`
	State     State           `json:"state"`
}

// Summary describes a session without its history.
type Summary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	WordCount  int       `json:"word_count"`
}

// Session is one document with its own history.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	history    *wordhistory.WordHistory
	lastActive time.Time
	deleted    bool
}

func newSession(id string, now time.Time, maxHistory int) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		history:    wordhistory.New(wordhistory.WithMaxDepth(maxHistory)),
		lastActive: now,
	}
}

// State returns a snapshot of the session's document.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateOf(s.history)
}

// LastActive returns when a command was last applied.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Summary returns the listing view of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
		WordCount:  s.history.WordCount(),
	}
}

// markDeleted flags the session as gone and reports whether it was live.
func (s *Session) markDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return false
	}
	s.deleted = true
	return true
}

func (s *Session) isDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}
