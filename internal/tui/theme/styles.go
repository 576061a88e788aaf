package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style

	// Choice lists
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Rank       lipgloss.Style

	// Callouts and banners
	Tip     lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style

	// Tiles and package cards
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardChosen  lipgloss.Style
	Badge       lipgloss.Style

	Modal lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
}
