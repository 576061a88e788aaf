package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
)

// renderHintBar renders key/description pairs, e.g.
// renderHintBar("tab", "next field", "enter", "select") gives
// "tab next field • enter select".
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, s.HintKey.Render(pairs[i])+" "+s.HintDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, " "+s.HintSeparator.Render("•")+" ")
}

// progressBar draws step/total as a gradient bar width cells wide.
func progressBar(step, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	step = max(0, min(step, total))
	filled := width * step / total

	t := theme.Current()
	s := t.S()
	var b strings.Builder
	for i := range width {
		if i >= filled {
			b.WriteString(s.Muted.Render("─"))
			continue
		}
		pos := 0.0
		if filled > 1 {
			pos = float64(i) / float64(filled-1)
		}
		b.WriteString(s.Text.Foreground(lipgloss.Color(theme.InterpolateColor(t.Primary, t.Secondary, pos))).Render("━"))
	}
	return b.String()
}
