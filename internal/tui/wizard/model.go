// Package wizard renders any wizard flow as a Bubble Tea program.
package wizard

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/tui"
	core "github.com/mark3labs/bizdesk/internal/wizard"
)

// Options customises the chrome around a flow.
type Options struct {
	// Title is shown above every screen.
	Title string
	// WorkingText is the banner while the terminal action runs.
	WorkingText string
	// SuccessText builds the banner once the action succeeded.
	SuccessText func(nav *core.Navigator) string
}

type phase int

const (
	phaseEditing phase = iota
	phaseRunning
	phaseFailed
	phaseSucceeded
)

// actionDoneMsg carries the result of a terminal action.
type actionDoneMsg struct{ err error }

// target is one focus stop: an answerable block or a button.
type target struct {
	block  int // index into Screen.Blocks, -1 for buttons
	button int // 0 back, 1 next
}

// Model drives a core.Navigator from the keyboard.
type Model struct {
	nav  *core.Navigator
	ctx  context.Context
	opts Options

	screen  core.Screen
	focus   int
	cursors map[string]int
	fields  map[string]*field

	phase     phase
	spinner   tui.Spinner
	err       error
	cancelled bool
	width     int
	height    int
}

// New returns a model positioned on nav's current screen.
func New(ctx context.Context, nav *core.Navigator, opts Options) *Model {
	if opts.WorkingText == "" {
		opts.WorkingText = "Working..."
	}
	m := &Model{nav: nav, ctx: ctx, opts: opts, width: 100, height: 30}
	m.spinner = tui.NewSpinner(opts.WorkingText)
	m.refresh()
	return m
}

// Run shows the flow until it finishes or the user quits.
func Run(ctx context.Context, nav *core.Navigator, opts Options) (*Model, error) {
	m := New(ctx, nav, opts)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	out, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return out, nil
}

// Cancelled reports whether the user quit before finishing.
func (m *Model) Cancelled() bool { return m.cancelled }

// Succeeded reports whether the terminal action ran successfully.
func (m *Model) Succeeded() bool { return m.phase == phaseSucceeded }

// Err is the last navigation or action error shown to the user.
func (m *Model) Err() error { return m.err }

// Screen is the screen currently shown.
func (m *Model) Screen() core.Screen { return m.screen }

func (m *Model) Init() tea.Cmd {
	return m.focusCurrent()
}

// refresh rebuilds the screen from the navigator. Entering a new node resets
// focus and the local field state.
func (m *Model) refresh() {
	prev := m.screen.NodeID
	m.screen = m.nav.Screen()
	if m.fields == nil || m.screen.NodeID != prev {
		m.focus = 0
		m.cursors = map[string]int{}
		m.fields = map[string]*field{}
		answers := m.nav.Answers()
		for _, b := range m.screen.Blocks {
			if id, multiline, ok := textField(b); ok {
				m.fields[id] = newField(id, multiline, answers.String(id), placeholder(b), m.contentWidth()-4)
			}
		}
	}
	if n := len(m.targets()); m.focus >= n {
		m.focus = n - 1
	}
}

func (m *Model) targets() []target {
	var out []target
	for i, b := range m.screen.Blocks {
		if _, ok := b.(core.Answerable); ok {
			out = append(out, target{block: i})
		}
	}
	if m.screen.Nav.BackEnabled {
		out = append(out, target{block: -1, button: 0})
	}
	return append(out, target{block: -1, button: 1})
}

func (m *Model) current() target {
	return m.targets()[m.focus]
}

func (m *Model) currentField() *field {
	t := m.current()
	if t.block < 0 {
		return nil
	}
	if id, _, ok := textField(m.screen.Blocks[t.block]); ok {
		return m.fields[id]
	}
	return nil
}

// commit writes a field's local value to the navigator.
func (m *Model) commit(f *field) {
	if f == nil {
		return
	}
	if m.nav.Answers().String(f.id) == f.Value() {
		return
	}
	m.nav.Answer(f.id, f.Value())
}

func (m *Model) commitAll() {
	for _, f := range m.fields {
		m.commit(f)
	}
}

func (m *Model) focusCurrent() tea.Cmd {
	if f := m.currentField(); f != nil {
		return f.Focus()
	}
	return nil
}

// setFocus moves focus to i, committing and blurring the field being left.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.targets())
	i = (i%n + n) % n
	if f := m.currentField(); f != nil {
		m.commit(f)
		f.Blur()
	}
	m.focus = i
	m.refresh()
	return m.focusCurrent()
}

func (m *Model) focusButton(button int) tea.Cmd {
	for i, t := range m.targets() {
		if t.block < 0 && t.button == button {
			return m.setFocus(i)
		}
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			logger.Warn("wizard action failed: %v", msg.err)
			m.phase, m.err = phaseFailed, msg.err
		} else {
			m.phase, m.err = phaseSucceeded, nil
		}
		m.refresh()
		return m, m.focusButton(1)

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	if m.phase == phaseRunning {
		return m, m.spinner.Update(msg)
	}
	if f := m.currentField(); f != nil {
		return m, f.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.commitAll()
		m.cancelled = true
		return tea.Quit
	}

	switch m.phase {
	case phaseRunning:
		return nil
	case phaseSucceeded:
		switch key {
		case "enter", "esc", "q":
			return tea.Quit
		}
		return nil
	}

	switch key {
	case "tab":
		return m.setFocus(m.focus + 1)
	case "shift+tab":
		return m.setFocus(m.focus - 1)
	case "esc":
		return m.back()
	}

	t := m.current()
	if t.block < 0 {
		switch key {
		case "left", "h":
			return m.setFocus(m.focus - 1)
		case "right", "l":
			return m.setFocus(m.focus + 1)
		case "enter", "space":
			if t.button == 0 {
				return m.back()
			}
			return m.next()
		}
		return nil
	}

	if f := m.currentField(); f != nil {
		if key == "enter" && !f.Multiline() {
			return m.setFocus(m.focus + 1)
		}
		return f.Update(msg)
	}

	b := m.screen.Blocks[t.block]
	switch key {
	case "up", "k":
		m.moveCursor(b, -m.rowStep(b))
	case "down", "j":
		m.moveCursor(b, m.rowStep(b))
	case "left", "h":
		m.moveCursor(b, -1)
	case "right", "l":
		m.moveCursor(b, 1)
	case "space", "enter", "x":
		m.choose(b)
	}
	return nil
}

// next leaves the screen, or starts the terminal action.
func (m *Model) next() tea.Cmd {
	m.commitAll()
	m.err = nil
	m.refresh()

	if m.screen.Nav.Action != "" {
		if !m.screen.Nav.NextEnabled {
			m.err = m.nav.Check()
			return nil
		}
		m.phase = phaseRunning
		nav, ctx := m.nav, m.ctx
		return tea.Batch(m.spinner.Tick(), func() tea.Msg {
			return actionDoneMsg{err: nav.Next(ctx)}
		})
	}

	m.phase = phaseEditing
	if err := m.nav.Next(m.ctx); err != nil {
		if errors.Is(err, core.ErrEndOfFlow) {
			return tea.Quit
		}
		m.err = err
		return nil
	}
	m.refresh()
	return m.focusCurrent()
}

// back returns to the previous screen. On the first screen it quits.
func (m *Model) back() tea.Cmd {
	m.commitAll()
	m.err = nil
	m.phase = phaseEditing
	if err := m.nav.Back(); err != nil {
		if errors.Is(err, core.ErrAtStart) {
			m.cancelled = true
			return tea.Quit
		}
		m.err = err
		return nil
	}
	m.refresh()
	return m.focusCurrent()
}

func optionCount(b core.Block) int {
	switch b := b.(type) {
	case core.Question:
		return len(b.Options)
	case core.Ranking:
		return len(b.Items)
	case core.SelectionGrid:
		return len(b.Tiles)
	case core.PackageComparison:
		return len(b.Packages)
	case core.Checklist:
		return len(b.Items)
	}
	return 0
}

func (m *Model) rowStep(b core.Block) int {
	if g, ok := b.(core.SelectionGrid); ok {
		return g.Cols()
	}
	return 1
}

func (m *Model) moveCursor(b core.Block, delta int) {
	a, ok := b.(core.Answerable)
	n := optionCount(b)
	if !ok || n == 0 {
		return
	}
	c := m.cursors[a.AnswerID()] + delta
	m.cursors[a.AnswerID()] = max(0, min(c, n-1))
}

// choose applies the option under the cursor.
func (m *Model) choose(b core.Block) {
	answers := m.nav.Answers()
	switch b := b.(type) {
	case core.Question:
		if len(b.Options) == 0 {
			return
		}
		v := b.Options[m.cursors[b.ID]].Value
		if b.Multiple {
			m.nav.Answer(b.ID, core.ToggleOption(answers.Strings(b.ID), v, true))
		} else {
			m.nav.Answer(b.ID, v)
		}
	case core.Ranking:
		if len(b.Items) == 0 {
			return
		}
		m.nav.Answer(b.ID, core.ToggleRank(answers.Strings(b.ID), b.Items[m.cursors[b.ID]].Value, b.Capacity()))
	case core.SelectionGrid:
		if len(b.Tiles) == 0 {
			return
		}
		v := b.Tiles[m.cursors[b.ID]].Value
		if b.Multiple {
			m.nav.Answer(b.ID, core.ToggleOption(answers.Strings(b.ID), v, true))
		} else {
			m.nav.Answer(b.ID, v)
		}
	case core.PackageComparison:
		if len(b.Packages) == 0 {
			return
		}
		m.nav.Answer(b.ID, b.Packages[m.cursors[b.ID]].Value)
	case core.Checklist:
		if len(b.Items) == 0 {
			return
		}
		m.nav.Answer(b.ID, core.ToggleChecklist(answers.Strings(b.ID), b.Items[m.cursors[b.ID]].Value, b.MaxAllowed))
	}
	m.refresh()
}

func (m *Model) contentWidth() int {
	w := m.width - 10
	return max(40, min(w, 100))
}

func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.Render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
