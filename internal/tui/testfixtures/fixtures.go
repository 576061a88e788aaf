package testfixtures

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/bizdesk/internal/api"
	core "github.com/mark3labs/bizdesk/internal/wizard"
)

// Fixed test values for consistent golden files
const (
	FixedTenant  = "tenant-1"
	FixedSession = "test-session"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// RequestContext returns credentials for the fixed tenant.
func RequestContext() api.RequestContext {
	return api.RequestContext{Token: "test-token", TenantID: FixedTenant}
}

// Personalities returns a small active roster.
func Personalities() []api.Personality {
	return []api.Personality{
		{ID: "7", Name: "Ava", Role: "Marketing lead", Description: "Plans campaigns", IsActive: true},
		{ID: "9", Name: "Sam", Role: "Bookkeeper", Description: "Chases invoices", IsActive: true},
	}
}

// ShowcaseFlow returns a three-screen flow that uses every block kind:
//
//	basics (Input, Question) -> choices (SelectionGrid, Checklist, Ranking)
//	-> review (Info, PackageComparison, Summary, action "submit")
//
// action handles "submit"; nil registers a no-op.
func ShowcaseFlow(action core.ActionFunc) *core.Flow {
	if action == nil {
		action = func(context.Context, *core.State) error { return nil }
	}
	to := func(id string) func(*core.State) string {
		return func(*core.State) string { return id }
	}

	f := core.MustFlow("showcase", "basics",
		&core.Node{ID: "basics", Step: 1,
			Build: func(*core.State) core.Screen {
				return core.Screen{
					Title:    "Basics",
					Subtitle: "Tell us about the business",
					Blocks: []core.Block{
						core.Input{ID: "name", Label: "Business name", Required: true},
						core.Question{ID: "goal", Prompt: "Primary goal", Required: true, Options: []core.Option{
							{Value: "awareness", Label: "Awareness"},
							{Value: "sales", Label: "Sales"},
							{Value: "loyalty", Label: "Loyalty"},
						}},
					},
				}
			},
			Next: to("choices"),
		},
		&core.Node{ID: "choices", Step: 2,
			Build: func(*core.State) core.Screen {
				return core.Screen{
					Title: "Choices",
					Blocks: []core.Block{
						core.SelectionGrid{ID: "category", Prompt: "Category", Columns: 2, Tiles: []core.Tile{
							{Value: "food", Label: "Food", Icon: "🍔"},
							{Value: "retail", Label: "Retail", Icon: "🛍"},
							{Value: "fitness", Label: "Fitness", Icon: "🏋"},
							{Value: "services", Label: "Services", Icon: "🔧"},
						}},
						core.Checklist{ID: "extras", Prompt: "Extras", MaxAllowed: 2, Items: []core.Option{
							{Value: "sms", Label: "SMS"},
							{Value: "email", Label: "Email"},
							{Value: "print", Label: "Print"},
						}},
						core.Ranking{ID: "priorities", Prompt: "Rank priorities", Slots: 2, Items: []core.Option{
							{Value: "price", Label: "Price"},
							{Value: "speed", Label: "Speed"},
							{Value: "quality", Label: "Quality"},
						}},
					},
				}
			},
			Next: to("review"),
		},
		&core.Node{ID: "review", Step: 3, Action: "submit",
			Build: func(s *core.State) core.Screen {
				return core.Screen{
					Title: "Review",
					Blocks: []core.Block{
						core.Info{Title: "Almost done", Body: "Check your **answers** below.", Tone: core.ToneTip},
						core.PackageComparison{ID: "package", Packages: []core.PackageCard{
							{Value: "starter", Name: "Starter", Price: "$100/mo", Features: []string{"One channel"}},
							{Value: "growth", Name: "Growth", Price: "$250/mo", Features: []string{"All channels"}, Recommended: true},
						}},
						core.Summary{Title: "Your answers", Rows: []core.SummaryRow{
							{Label: "Name", Value: s.Answers.String("name")},
							{Label: "Goal", Value: s.Answers.String("goal")},
							{Label: "Extras", Value: strings.Join(s.Answers.Strings("extras"), ", ")},
						}},
					},
					Nav: core.Navigation{NextLabel: "Submit"},
				}
			},
		},
	)
	return f.Handle("submit", action)
}
