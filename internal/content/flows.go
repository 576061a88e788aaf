package content

import (
	"context"
	"fmt"

	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/wizard"
)

// Answer ids.
const (
	KeyTone         = "tone"
	KeyAudience     = "audience"
	KeyPlatform     = "platform"
	KeyProduct      = "product"
	KeyOffer        = "offer"
	KeyCTA          = "cta"
	KeyOccasion     = "occasion"
	KeyHeadline     = "headline"
	KeyDate         = "date"
	KeyDetails      = "details"
	KeyArticleTitle = "articleTitle"
	KeyKeywords     = "keywords"
	KeyLength       = "length"
	KeySections     = "sections"
)

// Derived keys written by the generate action.
const (
	DerivedDraftID   = "draftId"
	DerivedDraftBody = "draftBody"
)

// ActionGenerate is the terminal action of every content flow.
const ActionGenerate = "generate"

// MaxSections caps the article section checklist.
const MaxSections = 3

// DraftSaver persists generated drafts.
type DraftSaver interface {
	Save(ctx context.Context, d Draft) (Draft, error)
}

// NewFlow returns the wizard for kind. When g is nil the generate action is
// left unregistered.
func NewFlow(kind Kind, g Generator, saver DraftSaver) (*wizard.Flow, error) {
	var nodes []*wizard.Node
	switch kind {
	case KindAd:
		nodes = []*wizard.Node{
			{ID: "platform", Step: 1, Build: buildPlatform, Next: to("offer")},
			{ID: "offer", Step: 2, Build: buildOffer, Next: to("voice")},
		}
	case KindAnnouncement:
		nodes = []*wizard.Node{
			{ID: "occasion", Step: 1, Build: buildOccasion, Next: to("details")},
			{ID: "details", Step: 2, Build: buildAnnouncementDetails, Next: to("voice")},
		}
	case KindArticle:
		nodes = []*wizard.Node{
			{ID: "topic", Step: 1, Build: buildTopic, Next: to("outline")},
			{ID: "outline", Step: 2, Build: buildOutline, Next: to("voice")},
		}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	nodes = append(nodes,
		&wizard.Node{ID: "voice", Step: 3, Build: buildVoice, Next: to("review")},
		&wizard.Node{ID: "review", Step: 4, Build: buildReview(kind), Action: ActionGenerate},
	)

	f, err := wizard.NewFlow(string(kind), nodes[0].ID, nodes...)
	if err != nil {
		return nil, err
	}
	if g != nil && saver != nil {
		f.Handle(ActionGenerate, generate(kind, g, saver))
	}
	return f, nil
}

func to(id string) func(*wizard.State) string {
	return func(*wizard.State) string { return id }
}

func generate(kind Kind, g Generator, saver DraftSaver) wizard.ActionFunc {
	return func(ctx context.Context, s *wizard.State) error {
		brief := BriefFrom(kind, s.Answers)
		logger.Info("generating %s %q with %s", kind, brief.Title, g.Name())

		body, err := g.Generate(ctx, brief)
		if err != nil {
			return err
		}
		d, err := saver.Save(ctx, Draft{Kind: kind, Title: brief.Title, Body: body, Generator: g.Name()})
		if err != nil {
			return err
		}
		s.SetDerived(DerivedDraftID, d.ID)
		s.SetDerived(DerivedDraftBody, d.Body)
		return nil
	}
}

func buildPlatform(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Where will the ad run?",
		Blocks: []wizard.Block{
			wizard.SelectionGrid{
				ID: KeyPlatform,
				Tiles: []wizard.Tile{
					{Value: "facebook", Label: "Facebook", Icon: "📘"},
					{Value: "instagram", Label: "Instagram", Icon: "📸"},
					{Value: "google", Label: "Google", Icon: "🔎"},
					{Value: "flyer", Label: "Print flyer", Icon: "📄"},
				},
				Columns:  2,
				Required: true,
			},
		},
	}
}

func buildOffer(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "What are you promoting?",
		Blocks: []wizard.Block{
			wizard.Input{ID: KeyProduct, Label: "Product or service", Placeholder: "Sunday roast", InputType: wizard.InputText, Required: true},
			wizard.Input{ID: KeyOffer, Label: "The offer", Placeholder: "Kids eat free", InputType: wizard.InputText, Required: true},
			wizard.Input{ID: KeyCTA, Label: "Call to action", Placeholder: "Book a table today", InputType: wizard.InputText},
		},
	}
}

func buildOccasion(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "What's the news?",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyOccasion, Prompt: "Pick the closest fit", Required: true, Options: []wizard.Option{
				{Value: "a new product", Label: "New product or service"},
				{Value: "an upcoming event", Label: "Upcoming event"},
				{Value: "new opening hours", Label: "Change of hours"},
				{Value: "a milestone", Label: "Milestone or anniversary"},
			}},
		},
	}
}

func buildAnnouncementDetails(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "The details",
		Blocks: []wizard.Block{
			wizard.Input{ID: KeyHeadline, Label: "Headline", Placeholder: "We're turning ten!", InputType: wizard.InputText, Required: true},
			wizard.Input{ID: KeyDate, Label: "Date", Placeholder: "2025-06-01", InputType: wizard.InputDate},
			wizard.Input{ID: KeyDetails, Label: "Anything else people should know", InputType: wizard.InputTextarea},
		},
	}
}

func buildTopic(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "What's the article about?",
		Blocks: []wizard.Block{
			wizard.Input{ID: KeyArticleTitle, Label: "Working title", Placeholder: "5 ways to keep your bike running through winter", InputType: wizard.InputText, Required: true},
			wizard.Input{ID: KeyKeywords, Label: "Keywords", Placeholder: "bike repair, winter, commuting", InputType: wizard.InputText},
		},
	}
}

func buildOutline(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Shape it",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyLength, Prompt: "Length", Required: true, Options: []wizard.Option{
				{Value: "short (300 words)", Label: "Short", Description: "about 300 words"},
				{Value: "medium (700 words)", Label: "Medium", Description: "about 700 words"},
				{Value: "long (1200 words)", Label: "Long", Description: "about 1,200 words"},
			}},
			wizard.Checklist{ID: KeySections, Prompt: fmt.Sprintf("Pick up to %d sections", MaxSections), MaxAllowed: MaxSections, Items: []wizard.Option{
				{Value: "How-to steps", Label: "How-to steps"},
				{Value: "Common mistakes", Label: "Common mistakes"},
				{Value: "Customer story", Label: "Customer story"},
				{Value: "FAQ", Label: "FAQ"},
				{Value: "Local angle", Label: "Local angle"},
			}},
		},
	}
}

func buildVoice(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Tone and audience",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyTone, Prompt: "How should it sound?", Required: true, Options: []wizard.Option{
				{Value: "friendly", Label: "Friendly"},
				{Value: "professional", Label: "Professional"},
				{Value: "playful", Label: "Playful"},
				{Value: "urgent", Label: "Urgent"},
			}},
			wizard.Input{ID: KeyAudience, Label: "Who is it for?", Placeholder: "Parents in Ballard", InputType: wizard.InputText},
		},
	}
}

func buildReview(kind Kind) func(*wizard.State) wizard.Screen {
	return func(s *wizard.State) wizard.Screen {
		b := BriefFrom(kind, s.Answers)
		rows := []wizard.SummaryRow{{Label: "Title", Value: b.Title}}
		for _, p := range b.Points {
			rows = append(rows, wizard.SummaryRow{Label: p.Label, Value: p.Value})
		}
		rows = append(rows, wizard.SummaryRow{Label: "Tone", Value: b.Tone})

		screen := wizard.Screen{
			Title:  "Review your brief",
			Blocks: []wizard.Block{wizard.Summary{Title: "Brief", Rows: rows}},
			Nav:    wizard.Navigation{NextLabel: "Write it"},
		}
		if body := s.Derived[DerivedDraftBody]; body != "" {
			screen.Title = "Your draft"
			screen.Blocks = append(screen.Blocks, wizard.Info{
				Title: fmt.Sprintf("Saved as %s", s.Derived[DerivedDraftID]),
				Body:  body,
			})
			screen.Nav.NextLabel = "Write another version"
		}
		return screen
	}
}
