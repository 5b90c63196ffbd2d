// Package command defines the editing commands a presentation layer sends to
// a WordHistory, together with the input validation the presentation layer
// owns (the core itself never rejects input).
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/wordstack/internal/wordhistory"
)

// Kind identifies an editing command.
type Kind string

const (
	KindInsert Kind = "insert"
	KindDelete Kind = "delete"
	KindUndo   Kind = "undo"
	KindRedo   Kind = "redo"
)

// Validation errors. Messages are written for end users.
var (
	ErrEmptyInsert      = errors.New("please enter some words to insert")
	ErrNonPositiveCount = errors.New("please enter a number greater than zero to delete")
	ErrUnknownKind      = errors.New("unknown command")
)

// Command is a single editing action.
type Command struct {
	Kind  Kind
	Text  string // insert only
	Count int    // delete only
}

func Insert(text string) Command { return Command{Kind: KindInsert, Text: text} }
func Delete(count int) Command   { return Command{Kind: KindDelete, Count: count} }
func Undo() Command              { return Command{Kind: KindUndo} }
func Redo() Command              { return Command{Kind: KindRedo} }

// ParseKind converts a user-supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindInsert, KindDelete, KindUndo, KindRedo:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Validate applies the input rules for c: insert text must contain at least
// one word and delete counts must be positive.
func (c Command) Validate() error {
	switch c.Kind {
	case KindInsert:
		if strings.TrimSpace(c.Text) == "" {
			return ErrEmptyInsert
		}
	case KindDelete:
		if c.Count <= 0 {
			return ErrNonPositiveCount
		}
	case KindUndo, KindRedo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(c.Kind))
	}
	return nil
}

// IsEdit reports whether c records a new history entry.
func (c Command) IsEdit() bool {
	return c.Kind == KindInsert || c.Kind == KindDelete
}

// Apply runs c against h and reports whether the observable state changed.
// Apply does not validate; call Validate first when handling user input.
func (c Command) Apply(h *wordhistory.WordHistory) bool {
	switch c.Kind {
	case KindInsert:
		return h.Insert(c.Text) > 0
	case KindDelete:
		return h.Delete(c.Count) > 0
	case KindUndo:
		return h.Undo()
	case KindRedo:
		return h.Redo()
	default:
		return false
	}
}

// String renders c for logs and history labels.
func (c Command) String() string {
	switch c.Kind {
	case KindInsert:
		return fmt.Sprintf("insert %q", c.Text)
	case KindDelete:
		return fmt.Sprintf("delete %d", c.Count)
	default:
		return string(c.Kind)
	}
}
