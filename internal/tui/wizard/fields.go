package wizard

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
	core "github.com/mark3labs/bizdesk/internal/wizard"
)

// field is the local editing state of one free-text block. Its value only
// reaches the navigator on commit.
type field struct {
	id    string
	input *textinput.Model
	area  *textarea.Model
}

// textField reports whether b is edited as free text, and whether multi-line.
func textField(b core.Block) (id string, multiline, ok bool) {
	switch b := b.(type) {
	case core.Input:
		return b.ID, b.InputType == core.InputTextarea, true
	case core.Question:
		if b.Freeform != core.FreeformNone {
			return b.ID, b.Freeform == core.FreeformTextarea, true
		}
	}
	return "", false, false
}

func placeholder(b core.Block) string {
	switch b := b.(type) {
	case core.Input:
		if b.Placeholder != "" {
			return b.Placeholder
		}
		switch b.InputType {
		case core.InputDate:
			return "YYYY-MM-DD"
		case core.InputTime:
			return "HH:MM"
		case core.InputNumber:
			return "0"
		}
	case core.Question:
		return b.Help
	}
	return ""
}

func newField(id string, multiline bool, value, hint string, width int) *field {
	t := theme.Current()
	f := &field{id: id}
	if multiline {
		ta := textarea.New()
		ta.Placeholder = hint
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.SetWidth(width)
		ta.SetHeight(3)
		styles := textarea.DefaultDarkStyles()
		styles.Cursor.Color = lipgloss.Color(t.Secondary)
		styles.Cursor.Shape = tea.CursorBlock
		ta.SetStyles(styles)
		ta.SetValue(value)
		f.area = &ta
		return f
	}

	ti := textinput.New()
	ti.Placeholder = hint
	ti.Prompt = ""
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
	ti.SetWidth(width)
	ti.SetValue(value)
	f.input = &ti
	return f
}

func (f *field) Value() string {
	if f.area != nil {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *field) Focus() tea.Cmd {
	if f.area != nil {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *field) Blur() {
	if f.area != nil {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *field) Multiline() bool {
	return f.area != nil
}

func (f *field) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.area != nil {
		*f.area, cmd = f.area.Update(msg)
		return cmd
	}
	*f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *field) View() string {
	if f.area != nil {
		return f.area.View()
	}
	return f.input.View()
}
