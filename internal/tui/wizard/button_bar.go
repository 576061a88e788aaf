package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render draws the buttons centred in the bar's width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons builds the Back/Next pair. focus is 0 for Back, 1 for
// Next, anything else for neither. A disabled button never shows focus.
func CreateBackNextButtons(backLabel, nextLabel string, backEnabled, nextEnabled bool, focus int) []Button {
	state := func(enabled, focused bool) ButtonState {
		switch {
		case !enabled:
			return ButtonDisabled
		case focused:
			return ButtonFocused
		}
		return ButtonNormal
	}
	return []Button{
		{Label: "← " + backLabel, State: state(backEnabled, focus == 0)},
		{Label: nextLabel + " →", State: state(nextEnabled, focus == 1)},
	}
}
