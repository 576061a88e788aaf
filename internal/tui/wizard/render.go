package wizard

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/tui"
	"github.com/mark3labs/bizdesk/internal/tui/theme"
	core "github.com/mark3labs/bizdesk/internal/wizard"
)

// Render draws the modal for the current screen.
func (m *Model) Render() string {
	s := theme.Current().S()
	width := m.contentWidth()
	focused := m.current()

	var sections []string
	if m.opts.Title != "" {
		sections = append(sections, s.Title.Render(m.opts.Title))
	}
	index, total := m.nav.Position()
	sections = append(sections,
		progressBar(index+1, total, width)+" "+s.Muted.Render(fmt.Sprintf("%d/%d", index+1, total)),
		"",
		s.Label.Render(m.screen.Title),
	)
	if m.screen.Subtitle != "" {
		sections = append(sections, s.Subtitle.Render(m.screen.Subtitle))
	}

	for i, b := range m.screen.Blocks {
		sections = append(sections, "", m.renderBlock(b, focused.block == i, width))
	}

	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, "", banner)
	}

	bar := NewButtonBar(m.buttons(focused))
	bar.SetWidth(width)
	sections = append(sections, "", bar.Render(), "", m.hints(focused))

	modal := s.Modal.Width(width + 6).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) buttons(focused target) []Button {
	nav := m.screen.Nav
	focus := -1
	if focused.block < 0 {
		focus = focused.button
	}
	next := nav.NextLabel
	switch m.phase {
	case phaseRunning:
		return CreateBackNextButtons(nav.BackLabel, m.opts.WorkingText, false, false, -1)
	case phaseSucceeded:
		return []Button{{Label: "Done", State: ButtonFocused}}
	case phaseFailed:
		next = "Try again"
	}
	return CreateBackNextButtons(nav.BackLabel, next, nav.BackEnabled, nav.NextEnabled, focus)
}

func (m *Model) hints(focused target) string {
	switch {
	case m.phase == phaseSucceeded:
		return renderHintBar("enter", "close")
	case focused.block < 0:
		return renderHintBar("tab", "next", "enter", "press", "esc", "back", "ctrl+c", "quit")
	case m.currentField() != nil:
		return renderHintBar("tab", "next", "enter", "save", "esc", "back")
	}
	return renderHintBar("↑↓", "move", "space", "select", "tab", "next", "esc", "back")
}

// renderBanner shows action progress and navigation errors.
func (m *Model) renderBanner() string {
	s := theme.Current().S()
	switch m.phase {
	case phaseRunning:
		return m.spinner.View()
	case phaseSucceeded:
		text := "Done!"
		if m.opts.SuccessText != nil {
			text = m.opts.SuccessText(m.nav)
		}
		return s.Success.Render("✓ " + text)
	}
	if m.err == nil {
		return ""
	}
	if errors.Is(m.err, core.ErrRequired) {
		return s.Error.Render("✗ Please answer the required questions before continuing.")
	}
	return s.Error.Render("✗ " + api.Message(m.err))
}

// renderBlock dispatches on the concrete block type.
func (m *Model) renderBlock(b core.Block, focused bool, width int) string {
	switch b := b.(type) {
	case core.Question:
		return m.renderQuestion(b, focused, width)
	case core.Ranking:
		return m.renderRanking(b, focused)
	case core.Info:
		return renderInfo(b, width)
	case core.SelectionGrid:
		return m.renderGrid(b, focused, width)
	case core.PackageComparison:
		return m.renderPackages(b, focused, width)
	case core.Summary:
		return renderSummary(b, width)
	case core.Input:
		return m.renderInput(b, focused)
	case core.Checklist:
		return m.renderChecklist(b, focused)
	}
	return ""
}

func prompt(text string, required bool) string {
	s := theme.Current().S()
	if required {
		return s.Label.Render(text) + s.Error.Render(" *")
	}
	return s.Label.Render(text)
}

func (m *Model) optionLine(focused bool, i int, id, mark, label, desc string) string {
	s := theme.Current().S()
	cursor := "  "
	if focused && m.cursors[id] == i {
		cursor = s.Cursor.Render("> ")
	}
	line := cursor + mark + " " + s.Text.Render(label)
	if desc != "" {
		line += " " + s.Muted.Render(desc)
	}
	return line
}

func label(o core.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

func (m *Model) renderQuestion(b core.Question, focused bool, width int) string {
	s := theme.Current().S()
	lines := []string{prompt(b.Prompt, b.Required)}
	if b.Help != "" && b.Freeform == core.FreeformNone {
		lines = append(lines, s.Muted.Render(b.Help))
	}
	if b.Freeform != core.FreeformNone {
		return strings.Join(append(lines, m.fieldView(b.ID, focused)), "\n")
	}

	chosen := m.nav.Answers().Strings(b.ID)
	for i, o := range b.Options {
		mark := s.Unselected.Render("○")
		if b.Multiple {
			mark = s.Unselected.Render("[ ]")
		}
		if contains(chosen, o.Value) {
			mark = s.Selected.Render("●")
			if b.Multiple {
				mark = s.Selected.Render("[x]")
			}
		}
		lines = append(lines, m.optionLine(focused, i, b.ID, mark, label(o), o.Description))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRanking(b core.Ranking, focused bool) string {
	s := theme.Current().S()
	ranked := m.nav.Answers().Strings(b.ID)
	lines := []string{
		prompt(b.Prompt, b.Required),
		s.Muted.Render(fmt.Sprintf("%d of %d ranked", len(ranked), b.Capacity())),
	}
	for i, o := range b.Items {
		mark := s.Unselected.Render(" · ")
		if r := core.Rank(ranked, o.Value); r > 0 {
			mark = s.Rank.Render(fmt.Sprintf(" %d ", r))
		}
		lines = append(lines, m.optionLine(focused, i, b.ID, mark, label(o), o.Description))
	}
	return strings.Join(lines, "\n")
}

func renderInfo(b core.Info, width int) string {
	s := theme.Current().S()
	var body []string
	if b.Title != "" {
		body = append(body, s.Label.Render(b.Title))
	}
	if b.Body != "" {
		body = append(body, tui.RenderMarkdown(b.Body, width-4))
	}
	out := strings.Join(body, "\n")
	switch b.Tone {
	case core.ToneTip:
		return s.Tip.Render(out)
	case core.ToneWarning:
		return s.Warning.Render(out)
	}
	return out
}

func (m *Model) renderGrid(b core.SelectionGrid, focused bool, width int) string {
	s := theme.Current().S()
	chosen := m.nav.Answers().Strings(b.ID)
	cols := b.Cols()
	tileWidth := max(12, width/cols-2)

	var rows []string
	var row []string
	for i, t := range b.Tiles {
		style := s.Card
		switch {
		case contains(chosen, t.Value):
			style = s.CardChosen
		case focused && m.cursors[b.ID] == i:
			style = s.CardFocused
		}
		text := t.Label
		if text == "" {
			text = t.Value
		}
		if t.Icon != "" {
			text = t.Icon + " " + text
		}
		row = append(row, style.Width(tileWidth).Render(text))
		if len(row) == cols || i == len(b.Tiles)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return prompt(b.Prompt, b.Required) + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderPackages(b core.PackageComparison, focused bool, width int) string {
	s := theme.Current().S()
	chosen := m.nav.Answers().String(b.ID)
	cardWidth := max(18, width/max(1, len(b.Packages))-2)

	cards := make([]string, 0, len(b.Packages))
	for i, p := range b.Packages {
		lines := []string{s.Label.Render(p.Name), s.Text.Render(p.Price)}
		if p.Recommended {
			lines = append(lines, s.Badge.Render("Recommended"))
		}
		lines = append(lines, "")
		for _, f := range p.Features {
			lines = append(lines, s.Muted.Render("• "+f))
		}

		style := s.Card
		switch {
		case chosen == p.Value:
			style = s.CardChosen
		case focused && m.cursors[b.ID] == i:
			style = s.CardFocused
		}
		cards = append(cards, style.Width(cardWidth).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderSummary(b core.Summary, width int) string {
	s := theme.Current().S()
	labelWidth := 0
	for _, r := range b.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	lines := []string{}
	if b.Title != "" {
		lines = append(lines, s.Label.Render(b.Title))
	}
	for _, r := range b.Rows {
		value := r.Value
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		lines = append(lines, s.Muted.Width(labelWidth+2).Render(r.Label)+s.Text.MaxWidth(max(10, width-labelWidth-2)).Render(value))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderInput(b core.Input, focused bool) string {
	return prompt(b.Label, b.Required) + "\n" + m.fieldView(b.ID, focused)
}

func (m *Model) fieldView(id string, focused bool) string {
	s := theme.Current().S()
	f, ok := m.fields[id]
	if !ok {
		return ""
	}
	marker := "  "
	if focused {
		marker = s.Cursor.Render("> ")
	}
	return marker + f.View()
}

func (m *Model) renderChecklist(b core.Checklist, focused bool) string {
	s := theme.Current().S()
	checked := m.nav.Answers().Strings(b.ID)
	lines := []string{prompt(b.Prompt, b.Required)}
	if b.MaxAllowed > 0 {
		lines = append(lines, s.Muted.Render(fmt.Sprintf("Pick up to %d (%d chosen)", b.MaxAllowed, len(checked))))
	}
	for i, o := range b.Items {
		mark := s.Unselected.Render("[ ]")
		if contains(checked, o.Value) {
			mark = s.Selected.Render("[x]")
		}
		lines = append(lines, m.optionLine(focused, i, b.ID, mark, label(o), o.Description))
	}
	return strings.Join(lines, "\n")
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
