package wizard

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/mark3labs/bizdesk/internal/logger"
)

// ChangeType names a state transition reported to listeners.
type ChangeType string

const (
	ChangeStart    ChangeType = "wizard.start"
	ChangeAnswer   ChangeType = "wizard.answer"
	ChangeNext     ChangeType = "wizard.next"
	ChangeBack     ChangeType = "wizard.back"
	ChangeComplete ChangeType = "wizard.complete"
)

// Change describes one transition.
type Change struct {
	Type   ChangeType
	Flow   string
	ID     string
	Value  any
	From   string
	To     string
	Action string

	// Derived is the derived data after an action completed.
	Derived map[string]string
}

// Navigator drives a State through a Flow. It is safe for concurrent use;
// actions run without holding the lock.
type Navigator struct {
	mu        sync.Mutex
	flow      *Flow
	state     *State
	listeners []func(Change)
}

// NewNavigator starts f at its first node.
func NewNavigator(f *Flow) *Navigator {
	n := &Navigator{flow: f, state: NewState(f)}
	if f.Derive != nil {
		f.Derive(n.state)
	}
	return n
}

// OnChange registers fn to be called after every transition. Listeners run
// with the navigator locked and must not call back into it.
func (n *Navigator) OnChange(fn func(Change)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Navigator) emit(c Change) {
	c.Flow = n.flow.Name
	for _, fn := range n.listeners {
		fn(c)
	}
}

// Flow returns the flow being driven.
func (n *Navigator) Flow() *Flow {
	return n.flow
}

// State returns a copy of the current state.
func (n *Navigator) State() *State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Clone()
}

// Answers returns a copy of the current answers.
func (n *Navigator) Answers() Answers {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Answers.Clone()
}

// Derived returns the derived value for key.
func (n *Navigator) Derived(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Derived[key]
}

func (n *Navigator) node() *Node {
	return n.flow.nodes[n.state.Current]
}

// Screen regenerates the current screen from state.
func (n *Navigator) Screen() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen()
}

func (n *Navigator) screen() Screen {
	node := n.node()
	s := node.Build(n.state)
	s.NodeID = node.ID
	s.Step = node.Step
	s.Nav.Action = node.Action
	s.Nav.BackEnabled = len(n.state.History) > 0
	s.Nav.NextEnabled = n.flow.AllowIncomplete || n.check(s) == nil
	if s.Nav.BackLabel == "" {
		s.Nav.BackLabel = "Back"
	}
	if s.Nav.NextLabel == "" {
		s.Nav.NextLabel = "Continue"
	}
	return s
}

// check returns why the current screen cannot be left, or nil.
func (n *Navigator) check(s Screen) error {
	for _, b := range s.Blocks {
		a, ok := b.(Answerable)
		if !ok {
			continue
		}
		if !complete(a, n.state.Answers) {
			return fmt.Errorf("%w: %s", ErrRequired, a.AnswerID())
		}
	}
	if v := n.node().Validate; v != nil {
		if err := v(n.state); err != nil {
			return err
		}
	}
	return nil
}

// Check returns nil when the current screen may be left, else the reason.
func (n *Navigator) Check() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.check(n.node().Build(n.state))
}

// CanProceed reports whether every required block on the current screen is
// answered and the node's own validation passes.
func (n *Navigator) CanProceed() bool {
	return n.Check() == nil
}

// Answer writes one answer and recomputes derived fields. It reports whether
// any derived value changed.
func (n *Navigator) Answer(id string, value any) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state.Answers.Set(id, value)
	changed := false
	if n.flow.Derive != nil {
		changed = n.flow.Derive(n.state)
	}
	n.emit(Change{Type: ChangeAnswer, ID: id, Value: value})
	return changed
}

// Next leaves the current screen. On a terminal screen it runs the node's
// action and stays put. Otherwise it moves to the node named by Next.
func (n *Navigator) Next(ctx context.Context) error {
	n.mu.Lock()
	node := n.node()
	if !n.flow.AllowIncomplete {
		if err := n.check(node.Build(n.state)); err != nil {
			n.mu.Unlock()
			return err
		}
	}

	if node.Action != "" {
		fn, ok := n.flow.actions[node.Action]
		if !ok {
			n.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownAction, node.Action)
		}
		snapshot := n.state.Clone()
		n.mu.Unlock()

		logger.Debug("wizard %s: running action %s", n.flow.Name, node.Action)
		if err := fn(ctx, snapshot); err != nil {
			return err
		}

		n.mu.Lock()
		maps.Copy(n.state.Derived, snapshot.Derived)
		n.emit(Change{Type: ChangeComplete, Action: node.Action, From: node.ID, Derived: maps.Clone(n.state.Derived)})
		n.mu.Unlock()
		return nil
	}
	defer n.mu.Unlock()

	if node.Next == nil {
		return ErrEndOfFlow
	}
	target := node.Next(n.state)
	if target == "" {
		return ErrEndOfFlow
	}
	if _, ok := n.flow.nodes[target]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrUnknownNode, node.ID, target)
	}

	n.state.History = append(n.state.History, node.ID)
	n.state.Current = target
	logger.Debug("wizard %s: %s -> %s", n.flow.Name, node.ID, target)
	n.emit(Change{Type: ChangeNext, From: node.ID, To: target})
	return nil
}

// Back returns to the previously visited screen.
func (n *Navigator) Back() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	h := n.state.History
	if len(h) == 0 {
		return ErrAtStart
	}
	from := n.state.Current
	n.state.Current = h[len(h)-1]
	n.state.History = h[:len(h)-1]
	n.emit(Change{Type: ChangeBack, From: from, To: n.state.Current})
	return nil
}

// CurrentNode returns the id of the current node.
func (n *Navigator) CurrentNode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Current
}

// CurrentStep returns the logical step of the current node.
func (n *Navigator) CurrentStep() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.node().Step
}

// Position returns the 0-based index of the current screen and the predicted
// number of screens on the path through it under the current answers.
func (n *Navigator) Position() (index, total int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	index = len(n.state.History)
	return index, index + len(n.remaining())
}

// Path returns the visited nodes followed by the predicted remainder.
func (n *Navigator) Path() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append(append([]string(nil), n.state.History...), n.remaining()...)
}

// remaining follows Next from the current node. A cycle stops the walk.
func (n *Navigator) remaining() []string {
	seen := map[string]bool{}
	var path []string
	for id := n.state.Current; id != "" && !seen[id]; {
		node, ok := n.flow.nodes[id]
		if !ok {
			break
		}
		seen[id] = true
		path = append(path, id)
		if node.Action != "" || node.Next == nil {
			break
		}
		id = node.Next(n.state)
	}
	return path
}

// Restore replaces the navigator's state with s, typically rebuilt from a
// journal. Unknown node ids are rejected.
func (n *Navigator) Restore(s *State) error {
	if s.Flow != "" && s.Flow != n.flow.Name {
		return fmt.Errorf("restoring %s state into %s flow", s.Flow, n.flow.Name)
	}
	if _, ok := n.flow.nodes[s.Current]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, s.Current)
	}
	for _, id := range s.History {
		if _, ok := n.flow.nodes[id]; !ok {
			return fmt.Errorf("%w in history: %s", ErrUnknownNode, id)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = s.Clone()
	n.state.Flow = n.flow.Name
	if n.flow.Derive != nil {
		n.flow.Derive(n.state)
	}
	return nil
}
