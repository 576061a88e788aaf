// Package chat is the terminal conversation with one AI employee.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/personality"
	"github.com/mark3labs/bizdesk/internal/tui"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
)

// Sender is what the model needs from a conversation.
type Sender interface {
	Send(ctx context.Context, rc api.RequestContext, text string) (string, error)
	Personality() *api.Personality
}

var _ Sender = (*personality.Conversation)(nil)

// replyMsg carries the result of one Send.
type replyMsg struct {
	text string
	err  error
}

// Model shows the transcript above a single-line composer.
type Model struct {
	conv Sender
	ctx  context.Context
	rc   api.RequestContext

	viewport viewport.Model
	input    textinput.Model
	spinner  tui.Spinner

	turns      []api.Turn
	waiting    bool
	pending    string
	err        error
	autoScroll bool
	width      int
	height     int
}

// New returns a chat model over conv.
func New(ctx context.Context, conv Sender, rc api.RequestContext) *Model {
	t := theme.Current()
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "› "
	ti.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})

	m := &Model{
		conv:       conv,
		ctx:        ctx,
		rc:         rc,
		input:      ti,
		spinner:    tui.NewSpinner(""),
		autoScroll: true,
		viewport:   viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
	}
	m.viewport.MouseWheelEnabled = true
	m.viewport.MouseWheelDelta = 3
	m.resize(100, 30)
	return m
}

// Run shows the chat until the user quits.
func Run(ctx context.Context, conv Sender, rc api.RequestContext) error {
	if _, err := tea.NewProgram(New(ctx, conv, rc), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}

// Turns returns the transcript shown on screen.
func (m *Model) Turns() []api.Turn {
	return append([]api.Turn(nil), m.turns...)
}

// Err is the error from the last failed send.
func (m *Model) Err() error { return m.err }

// Waiting reports whether a reply is outstanding.
func (m *Model) Waiting() bool { return m.waiting }

func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.SetWidth(max(10, width-4))
	m.viewport.SetWidth(max(10, width-2))
	// header(2) + composer(1) + status(1) + hints(1) + gaps(2)
	m.viewport.SetHeight(max(3, height-7))
	m.refreshContent()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			logger.Warn("chat send failed: %v", msg.err)
			m.err = msg.err
			// the conversation dropped the turn; give the text back for a resend
			m.turns = m.turns[:len(m.turns)-1]
			m.input.SetValue(m.pending)
		} else {
			m.err = nil
			m.turns = append(m.turns, api.Turn{Role: "assistant", Content: msg.text})
		}
		m.pending = ""
		m.refreshContent()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.send()
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.autoScroll = m.viewport.AtBottom()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.autoScroll = m.viewport.AtBottom()
		return m, cmd
	}

	if m.waiting {
		if cmd := m.spinner.Update(msg); cmd != nil {
			m.refreshContent()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send posts the composer text. Only one message is in flight at a time.
func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if m.waiting || text == "" {
		return nil
	}
	m.waiting = true
	m.pending = text
	m.err = nil
	m.input.Reset()
	m.turns = append(m.turns, api.Turn{Role: "user", Content: text})
	m.autoScroll = true
	m.refreshContent()

	conv, ctx, rc := m.conv, m.ctx, m.rc
	return tea.Batch(m.spinner.Tick(), func() tea.Msg {
		reply, err := conv.Send(ctx, rc, text)
		return replyMsg{text: reply, err: err}
	})
}

func (m *Model) name() string {
	if p := m.conv.Personality(); p != nil && !personality.IsPlaceholder(*p) {
		return p.Name
	}
	return "Assistant"
}

func (m *Model) refreshContent() {
	s := theme.Current().S()
	width := m.viewport.Width()

	var b strings.Builder
	for i, turn := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if turn.Role == "user" {
			b.WriteString(s.Label.Render("You"))
			b.WriteString("\n")
			b.WriteString(s.UserMessage.Width(width).Render(turn.Content))
			continue
		}
		b.WriteString(s.Label.Render(m.name()))
		b.WriteString("\n")
		b.WriteString(s.AssistantMessage.Render(tui.RenderMarkdown(turn.Content, width-2)))
	}
	if m.waiting {
		b.WriteString("\n\n")
		m.spinner.Label = m.name() + " is typing..."
		b.WriteString(m.spinner.View())
	}

	m.viewport.SetContent(b.String())
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

func (m *Model) header() string {
	s := theme.Current().S()
	p := m.conv.Personality()
	if p == nil || personality.IsPlaceholder(*p) {
		return s.Title.Render("Chat") + "\n" + s.Warning.Render("This AI employee is not set up yet.")
	}
	sub := p.Role
	if sub == "" {
		sub = p.Description
	}
	return s.Title.Render(p.Name) + "\n" + s.Subtitle.Render(sub)
}

func (m *Model) status() string {
	s := theme.Current().S()
	switch {
	case m.err == nil:
		return ""
	case errors.Is(m.err, context.DeadlineExceeded):
		return s.Error.Render("✗ The reply took too long. Press enter to resend.")
	}
	return s.Error.Render("✗ " + api.Message(m.err) + ". Press enter to resend.")
}

// Render draws the whole screen as a string.
func (m *Model) Render() string {
	s := theme.Current().S()
	hints := s.HintKey.Render("enter") + " " + s.HintDesc.Render("send") + " " +
		s.HintSeparator.Render("•") + " " +
		s.HintKey.Render("pgup/pgdn") + " " + s.HintDesc.Render("scroll") + " " +
		s.HintSeparator.Render("•") + " " +
		s.HintKey.Render("esc") + " " + s.HintDesc.Render("quit")

	return strings.Join([]string{
		m.header(),
		m.viewport.View(),
		m.status(),
		m.input.View(),
		"",
		hints,
	}, "\n")
}

func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.Render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 1, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
