package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mark3labs/bizdesk/internal/logger"
)

const systemPrompt = "You are a copywriter for small local businesses. Write plain, warm, specific copy. Never invent prices, dates or facts that are not in the brief."

// Generator writes markdown copy from a brief.
type Generator interface {
	Generate(ctx context.Context, b Brief) (string, error)
	Name() string
}

// AnthropicMessager is the part of the Anthropic client used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicGenerator writes copy with Claude.
type AnthropicGenerator struct {
	messages AnthropicMessager
	model    string
}

// NewAnthropicGenerator wraps messages with the given model.
func NewAnthropicGenerator(messages AnthropicMessager, model string) *AnthropicGenerator {
	return &AnthropicGenerator{messages: messages, model: model}
}

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

// NewGenerator returns an AnthropicGenerator when ANTHROPIC_API_KEY is set,
// and the TemplateGenerator otherwise.
func NewGenerator(model string) Generator {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		logger.Info("ANTHROPIC_API_KEY not set, using template copy")
		return TemplateGenerator{}
	}
	return NewAnthropicGenerator(defaultAnthropicCreator(apiKey), model)
}

func (g *AnthropicGenerator) Name() string { return "anthropic:" + g.model }

func (g *AnthropicGenerator) Generate(ctx context.Context, b Brief) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(b.Prompt()))},
	})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", b.Kind, err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("model returned no text")
	}
	return out, nil
}

// TemplateGenerator fills a fixed template. Its output is deterministic.
type TemplateGenerator struct{}

func (TemplateGenerator) Name() string { return "template" }

func (TemplateGenerator) Generate(_ context.Context, b Brief) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Title)

	switch b.Kind {
	case KindAd:
		offer := pointValue(b, "Offer")
		product := pointValue(b, "Product")
		switch {
		case product != "" && offer != "":
			fmt.Fprintf(&sb, "**%s**: %s.\n\n", product, offer)
		case offer != "":
			fmt.Fprintf(&sb, "**%s**\n\n", offer)
		}
		if cta := pointValue(b, "Call to action"); cta != "" {
			fmt.Fprintf(&sb, "👉 %s\n", cta)
		}
	case KindAnnouncement:
		if occasion := pointValue(b, "Occasion"); occasion != "" {
			fmt.Fprintf(&sb, "We have news: %s", occasion)
			if date := pointValue(b, "Date"); date != "" {
				fmt.Fprintf(&sb, " on %s", date)
			}
			sb.WriteString(".\n\n")
		}
		if details := pointValue(b, "Details"); details != "" {
			sb.WriteString(details + "\n")
		}
	case KindArticle:
		if kw := pointValue(b, "Keywords"); kw != "" {
			fmt.Fprintf(&sb, "_%s_\n\n", kw)
		}
		sections := b.Sections
		if len(sections) == 0 {
			sections = []string{"Introduction", "Conclusion"}
		}
		for _, s := range sections {
			fmt.Fprintf(&sb, "## %s\n\nWrite about %s here.\n\n", s, strings.ToLower(s))
		}
	}

	if b.Audience != "" {
		fmt.Fprintf(&sb, "\n_Written for %s", b.Audience)
		if b.Tone != "" {
			fmt.Fprintf(&sb, " in a %s tone", b.Tone)
		}
		sb.WriteString("._\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func pointValue(b Brief, label string) string {
	for _, p := range b.Points {
		if p.Label == label {
			return p.Value
		}
	}
	return ""
}
