package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Spring promo\n\nCome by for **two for one** tacos.", 60)
	plain := ansi.Strip(out)

	assert.Contains(t, plain, "Spring promo")
	assert.Contains(t, plain, "two for one")
	assert.NotContains(t, plain, "**")
	assert.False(t, strings.HasPrefix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestRenderMarkdown_ClampsWidth(t *testing.T) {
	long := strings.Repeat("word ", 60)
	assert.Equal(t, RenderMarkdown(long, 120), RenderMarkdown(long, 500))
	assert.Equal(t, RenderMarkdown(long, 20), RenderMarkdown(long, 1))
	assert.NotEqual(t, RenderMarkdown(long, 20), RenderMarkdown(long, 120))
}
