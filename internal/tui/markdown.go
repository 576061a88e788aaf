// Package tui holds pieces shared by the bizdesk terminal screens.
package tui

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
)

// RenderMarkdown renders markdown content using glamour with the dark style.
// Falls back to plain text wrapping if rendering fails, so a draft or info
// block is always shown even when its markdown is malformed.
func RenderMarkdown(content string, width int) string {
	// Keep lines readable on wide terminals and usable on tiny ones
	width = max(20, min(width, 120))

	// Dark theme with word wrap at the content width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain text wrapping
		return wrapText(content, width)
	}

	rendered, err := r.Render(content)
	if err != nil {
		// Fallback to plain text wrapping
		return wrapText(content, width)
	}

	// glamour pads the document with blank lines on both ends
	return strings.Trim(rendered, "\n")
}

// wrapText soft-wraps content to width without any markdown styling.
func wrapText(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(content)
}
