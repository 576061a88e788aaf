// Package wizard is the engine behind every guided multi-screen flow in
// bizdesk. A Flow is a directed graph of named nodes; each node builds its
// Screen from the current State and names the node that follows it. Back
// navigation pops a traversal stack, so it always returns to the screen
// the user actually saw.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrUnknownNode is returned when a transition or restored state names a
	// node the flow does not have.
	ErrUnknownNode = errors.New("unknown wizard node")
	// ErrAtStart is returned by Back on the first screen.
	ErrAtStart = errors.New("already at first screen")
	// ErrRequired is returned by Next when a required block is unanswered.
	ErrRequired = errors.New("required answer missing")
	// ErrEndOfFlow is returned by Next on a final screen without an action.
	ErrEndOfFlow = errors.New("end of flow")
	// ErrUnknownAction is returned when a node names an unregistered action.
	ErrUnknownAction = errors.New("unknown wizard action")
)

// Screen is the rendered description of one node under the current state.
type Screen struct {
	NodeID   string
	Step     int
	Title    string
	Subtitle string
	Blocks   []Block
	Nav      Navigation
}

// Navigation describes the button bar. A non-empty Action marks a terminal
// screen whose Next runs the action instead of advancing.
type Navigation struct {
	BackEnabled bool
	NextEnabled bool
	BackLabel   string
	NextLabel   string
	Action      string
}

// Node is one screen of a flow.
type Node struct {
	ID   string
	Step int
	// Build renders the screen. It must not mutate the state.
	Build func(*State) Screen
	// Next names the following node. Empty means the flow ends here.
	Next func(*State) string
	// Action is run by Next instead of advancing.
	Action string
	// Validate adds a check on top of the required-block gate.
	Validate func(*State) error
}

// ActionFunc runs a terminal action against a copy of the state. Changes it
// makes to Derived are merged back into the live state.
type ActionFunc func(ctx context.Context, s *State) error

// Flow is a named graph of nodes.
type Flow struct {
	Name  string
	Start string
	// Derive recomputes derived fields after an answer. It returns true when
	// a derived value changed.
	Derive func(*State) bool
	// AllowIncomplete lets Next advance past unanswered required blocks.
	AllowIncomplete bool

	nodes   map[string]*Node
	order   []string
	actions map[string]ActionFunc
}

// NewFlow builds a flow from nodes. Node ids must be unique and start must be
// one of them.
func NewFlow(name, start string, nodes ...*Node) (*Flow, error) {
	f := &Flow{
		Name:    name,
		Start:   start,
		nodes:   make(map[string]*Node, len(nodes)),
		actions: make(map[string]ActionFunc),
	}
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("flow %s: node with empty id", name)
		}
		if n.Build == nil {
			return nil, fmt.Errorf("flow %s: node %s has no Build", name, n.ID)
		}
		if _, dup := f.nodes[n.ID]; dup {
			return nil, fmt.Errorf("flow %s: duplicate node %s", name, n.ID)
		}
		f.nodes[n.ID] = n
		f.order = append(f.order, n.ID)
	}
	if _, ok := f.nodes[start]; !ok {
		return nil, fmt.Errorf("flow %s: start %q: %w", name, start, ErrUnknownNode)
	}
	return f, nil
}

// MustFlow is NewFlow that panics on error, for flows defined in code.
func MustFlow(name, start string, nodes ...*Node) *Flow {
	f, err := NewFlow(name, start, nodes...)
	if err != nil {
		panic(err)
	}
	return f
}

// Handle registers fn for action name and returns f.
func (f *Flow) Handle(action string, fn ActionFunc) *Flow {
	f.actions[action] = fn
	return f
}

// Node returns the node with the given id.
func (f *Flow) Node(id string) (*Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// NodeIDs returns node ids in declaration order.
func (f *Flow) NodeIDs() []string {
	return append([]string(nil), f.order...)
}

// State is everything a wizard session knows.
type State struct {
	Flow    string            `json:"flow"`
	Current string            `json:"current"`
	History []string          `json:"history"`
	Answers Answers           `json:"answers"`
	Derived map[string]string `json:"derived"`
}

// NewState returns the initial state of f.
func NewState(f *Flow) *State {
	return &State{
		Flow:    f.Name,
		Current: f.Start,
		Answers: Answers{},
		Derived: map[string]string{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	out := &State{
		Flow:    s.Flow,
		Current: s.Current,
		History: append([]string(nil), s.History...),
		Answers: s.Answers.Clone(),
		Derived: maps.Clone(s.Derived),
	}
	if out.Answers == nil {
		out.Answers = Answers{}
	}
	if out.Derived == nil {
		out.Derived = map[string]string{}
	}
	return out
}

// SetDerived writes a derived value and reports whether it changed.
func (s *State) SetDerived(key, value string) bool {
	if s.Derived == nil {
		s.Derived = map[string]string{}
	}
	if old, ok := s.Derived[key]; ok && old == value {
		return false
	}
	s.Derived[key] = value
	return true
}
