// Package script loads YAML editing scripts and replays them against a
// session, one command per step.
//
//	steps:
//	  - insert: the quick brown fox
//	  - delete: 2
//	  - undo: true
//	  - redo            # shorthand for redo: true
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wordstack/internal/command"
)

var (
	// ErrEmptyStep is returned for a step that names no command.
	ErrEmptyStep = errors.New("step has no command")
	// ErrAmbiguousStep is returned for a step that names more than one command.
	ErrAmbiguousStep = errors.New("step names more than one command")
)

// Script is a parsed editing script.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is one entry of a script. Exactly one field should be set.
type Step struct {
	Insert *string `yaml:"insert,omitempty"`
	Delete *int    `yaml:"delete,omitempty"`
	Undo   bool    `yaml:"undo,omitempty"`
	Redo   bool    `yaml:"redo,omitempty"`

	// Line is the 1-based source line of the step, 0 when built in code.
	Line int `yaml:"-"`
}

var stepKeys = map[string]bool{"insert": true, "delete": true, "undo": true, "redo": true}

// UnmarshalYAML accepts a mapping with one known key, or the bare scalars
// "undo" and "redo".
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch strings.ToLower(strings.TrimSpace(node.Value)) {
		case "undo":
			*s = Step{Undo: true, Line: node.Line}
		case "redo":
			*s = Step{Redo: true, Line: node.Line}
		default:
			return fmt.Errorf("line %d: unknown step %q", node.Line, node.Value)
		}
		return nil

	case yaml.MappingNode:
		var nullInsert bool
		for i := 0; i < len(node.Content)-1; i += 2 {
			key := node.Content[i].Value
			if !stepKeys[key] {
				return fmt.Errorf("line %d: unknown step key %q", node.Content[i].Line, key)
			}
			if key == "insert" && node.Content[i+1].Tag == "!!null" {
				nullInsert = true
			}
		}
		type plain Step
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = Step(p)
		// A bare "insert:" is an empty insert, not a missing command.
		if nullInsert && s.Insert == nil {
			empty := ""
			s.Insert = &empty
		}
		s.Line = node.Line
		return nil

	default:
		return fmt.Errorf("line %d: step must be a mapping or a command name", node.Line)
	}
}

// Command converts the step into a command. It does not validate the
// command's arguments; that happens when the step is applied.
func (s Step) Command() (command.Command, error) {
	var cmds []command.Command
	if s.Insert != nil {
		cmds = append(cmds, command.Insert(*s.Insert))
	}
	if s.Delete != nil {
		cmds = append(cmds, command.Delete(*s.Delete))
	}
	if s.Undo {
		cmds = append(cmds, command.Undo())
	}
	if s.Redo {
		cmds = append(cmds, command.Redo())
	}

	switch len(cmds) {
	case 0:
		return command.Command{}, ErrEmptyStep
	case 1:
		return cmds[0], nil
	default:
		return command.Command{}, ErrAmbiguousStep
	}
}

// Load parses a script from r.
func Load(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &Script{}, nil
		}
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &s, nil
}

// FromCommands builds a script from commands, mainly for tests and callers
// that already hold typed commands.
func FromCommands(cmds ...command.Command) *Script {
	s := &Script{Steps: make([]Step, 0, len(cmds))}
	for _, c := range cmds {
		var step Step
		switch c.Kind {
		case command.KindInsert:
			text := c.Text
			step.Insert = &text
		case command.KindDelete:
			count := c.Count
			step.Delete = &count
		case command.KindUndo:
			step.Undo = true
		case command.KindRedo:
			step.Redo = true
		}
		s.Steps = append(s.Steps, step)
	}
	return s
}
