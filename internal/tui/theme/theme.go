// Package theme holds the colour palette and pre-built styles of the TUI.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark to light)
	BgCrust    string
	BgBase     string
	BgSurface0 string
	BgSurface1 string

	// Foreground hierarchy (dim to bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

var (
	mu      sync.RWMutex
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrent replaces the active theme. Nil is ignored.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = t
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		Title:    lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		Text:     lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Muted:    lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Label:    lipgloss.NewStyle().Foreground(c(t.FgBright)).Bold(true),

		Cursor:     lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Selected:   lipgloss.NewStyle().Foreground(c(t.Success)),
		Unselected: lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		Rank:       lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Primary)).Bold(true),

		Tip:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(c(t.Info)).PaddingLeft(1),
		Warning: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(c(t.Warning)).PaddingLeft(1),
		Error:   lipgloss.NewStyle().Foreground(c(t.Error)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),

		Card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(t.BgSurface1)).Padding(0, 1),
		CardFocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(t.Secondary)).Padding(0, 1),
		CardChosen:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(c(t.Success)).Padding(0, 1),
		Badge:       lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Warning)).Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Padding(1, 2),

		ButtonNormal:   button.Foreground(c(t.FgBase)).Background(c(t.BgSurface0)),
		ButtonDisabled: button.Foreground(c(t.FgMuted)).Background(c(t.BgCrust)),
		ButtonFocused:  button.Foreground(c(t.BgBase)).Background(c(t.Secondary)).Bold(true),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface1)),

		UserMessage:      lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		AssistantMessage: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
	}
}
