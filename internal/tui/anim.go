package tui

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
)

// Spinner is an animated frame followed by a muted label, shown while
// something is waiting on the API.
type Spinner struct {
	model spinner.Model
	Label string
}

// NewSpinner returns a MiniDot spinner in the primary colour.
func NewSpinner(label string) Spinner {
	t := theme.Current()
	return Spinner{
		model: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))),
		),
		Label: label,
	}
}

// Update advances the frame. It returns nil for messages that are not ours.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	// Ignore anything but ticks so callers can forward every message
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the current frame, followed by the label when one is set.
func (s *Spinner) View() string {
	// Bare frame when there is nothing to say
	if s.Label == "" {
		return s.model.View()
	}
	return s.model.View() + " " + theme.Current().S().Muted.Render(s.Label)
}

// Tick starts the animation.
func (s *Spinner) Tick() tea.Cmd {
	return s.model.Tick
}
