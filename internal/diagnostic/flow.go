// Package diagnostic implements the marketing diagnostic wizard. Every
// question is required, so the wizard only advances once the current screen
// is fully answered.
package diagnostic

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/bizdesk/internal/wizard"
)

// FlowName identifies the diagnostic wizard in journals.
const FlowName = "diagnostic"

// ActionFinish is the terminal action that scores the answers.
const ActionFinish = "finish"

// Answer ids.
const (
	KeyIndustry         = "industry"
	KeyHasWebsite       = "hasWebsite"
	KeyWebsiteQuality   = "websiteQuality"
	KeyMobileFriendly   = "mobileFriendly"
	KeyReviewCount      = "reviewCount"
	KeyRespondsReviews  = "respondsToReviews"
	KeySocialChannels   = "socialChannels"
	KeyPostingFrequency = "postingFrequency"
	KeyRunsAds          = "runsAds"
	KeyAdSpend          = "adSpend"
	KeyTracksResults    = "tracksResults"
	KeyFollowUp         = "followUp"
	KeyEmailList        = "emailList"
)

// Derived keys written by the finish action.
const (
	DerivedOverall = "overallScore"
	DerivedReport  = "report"
)

var yesNo = []wizard.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}

// NewFlow returns the diagnostic wizard with the finish action registered.
func NewFlow() *wizard.Flow {
	f := wizard.MustFlow(FlowName, "intro",
		&wizard.Node{ID: "intro", Step: 1, Build: buildIntro, Next: to("basics")},
		&wizard.Node{ID: "basics", Step: 1, Build: buildBasics, Next: afterBasics},
		&wizard.Node{ID: "website", Step: 2, Build: buildWebsite, Next: to("reputation")},
		&wizard.Node{ID: "reputation", Step: 2, Build: buildReputation, Next: to("engagement")},
		&wizard.Node{ID: "engagement", Step: 3, Build: buildEngagement, Next: to("ads")},
		&wizard.Node{ID: "ads", Step: 4, Build: buildAds, Next: afterAds},
		&wizard.Node{ID: "ad-spend", Step: 4, Build: buildAdSpend, Next: to("conversion")},
		&wizard.Node{ID: "conversion", Step: 5, Build: buildConversion, Next: to("results")},
		&wizard.Node{ID: "results", Step: 6, Build: buildResults, Action: ActionFinish},
	)
	f.Handle(ActionFinish, finish)
	return f
}

func to(id string) func(*wizard.State) string {
	return func(*wizard.State) string { return id }
}

func afterBasics(s *wizard.State) string {
	if s.Answers.String(KeyHasWebsite) == "no" {
		return "reputation"
	}
	return "website"
}

func afterAds(s *wizard.State) string {
	if s.Answers.String(KeyRunsAds) == "no" {
		return "conversion"
	}
	return "ad-spend"
}

func finish(_ context.Context, s *wizard.State) error {
	r := Score(s.Answers)
	blob, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	s.SetDerived(DerivedOverall, strconv.Itoa(r.Overall))
	s.SetDerived(DerivedReport, string(blob))
	return nil
}

// ReportFrom returns the report stored by the finish action, if any.
func ReportFrom(derived map[string]string) (Report, bool) {
	var r Report
	blob, ok := derived[DerivedReport]
	if !ok || json.Unmarshal([]byte(blob), &r) != nil {
		return Report{}, false
	}
	return r, true
}

func buildIntro(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title:    "Marketing check-up",
		Subtitle: "Ten quick questions, then a scorecard with what to fix first.",
		Blocks: []wizard.Block{
			wizard.Info{
				Body: "We look at four areas: **visibility**, **reputation**, **engagement** and **conversion**.",
				Tone: wizard.ToneTip,
			},
		},
		Nav: wizard.Navigation{NextLabel: "Start"},
	}
}

func buildBasics(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "The basics",
		Blocks: []wizard.Block{
			wizard.SelectionGrid{
				ID:     KeyIndustry,
				Prompt: "Your industry",
				Tiles: []wizard.Tile{
					{Value: "food", Label: "Food & drink", Icon: "🍔"},
					{Value: "retail", Label: "Retail", Icon: "🛍"},
					{Value: "services", Label: "Services", Icon: "🛠"},
					{Value: "health", Label: "Health", Icon: "🩺"},
				},
				Columns:  4,
				Required: true,
			},
			wizard.Question{ID: KeyHasWebsite, Prompt: "Do you have a website?", Options: yesNo, Required: true},
		},
	}
}

func buildWebsite(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Your website",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyWebsiteQuality, Prompt: "How would you rate it?", Required: true, Options: []wizard.Option{
				{Value: "outdated", Label: "Outdated"},
				{Value: "ok", Label: "It does the job"},
				{Value: "great", Label: "Modern and fast"},
			}},
			wizard.Question{ID: KeyMobileFriendly, Prompt: "Does it work well on phones?", Required: true, Options: []wizard.Option{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
				{Value: "unsure", Label: "Not sure"},
			}},
		},
	}
}

func buildReputation(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Reputation",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyReviewCount, Prompt: "How many online reviews do you have?", Required: true, Options: []wizard.Option{
				{Value: "none", Label: "None yet"},
				{Value: "1-10", Label: "1 to 10"},
				{Value: "11-50", Label: "11 to 50"},
				{Value: "50+", Label: "More than 50"},
			}},
			wizard.Question{ID: KeyRespondsReviews, Prompt: "Do you reply to reviews?", Required: true, Options: []wizard.Option{
				{Value: "always", Label: "Always"},
				{Value: "sometimes", Label: "Sometimes"},
				{Value: "never", Label: "Never"},
			}},
		},
	}
}

func buildEngagement(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Social engagement",
		Blocks: []wizard.Block{
			wizard.Checklist{ID: KeySocialChannels, Prompt: "Where are you active?", Required: true, Items: []wizard.Option{
				{Value: "facebook", Label: "Facebook"},
				{Value: "instagram", Label: "Instagram"},
				{Value: "tiktok", Label: "TikTok"},
				{Value: "linkedin", Label: "LinkedIn"},
				{Value: "none", Label: "None of these"},
			}},
			wizard.Question{ID: KeyPostingFrequency, Prompt: "How often do you post?", Required: true, Options: []wizard.Option{
				{Value: "daily", Label: "Daily"},
				{Value: "weekly", Label: "Weekly"},
				{Value: "monthly", Label: "Monthly"},
				{Value: "rarely", Label: "Rarely"},
			}},
		},
	}
}

func buildAds(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Advertising",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyRunsAds, Prompt: "Are you running paid ads?", Options: yesNo, Required: true},
		},
	}
}

func buildAdSpend(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Ad spend",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyAdSpend, Prompt: "Monthly ad budget", Required: true, Options: []wizard.Option{
				{Value: "<100", Label: "Under $100"},
				{Value: "100-500", Label: "$100 to $500"},
				{Value: "500-2000", Label: "$500 to $2,000"},
				{Value: "2000+", Label: "Over $2,000"},
			}},
			wizard.Question{ID: KeyTracksResults, Prompt: "Do you track what the ads bring in?", Options: yesNo, Required: true},
		},
	}
}

func buildConversion(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "Turning interest into sales",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyFollowUp, Prompt: "How do you follow up with enquiries?", Required: true, Options: []wizard.Option{
				{Value: "automated", Label: "Automatically"},
				{Value: "manual", Label: "By hand"},
				{Value: "none", Label: "We don't"},
			}},
			wizard.Question{ID: KeyEmailList, Prompt: "Do you keep an email list?", Options: yesNo, Required: true},
		},
	}
}

func buildResults(s *wizard.State) wizard.Screen {
	screen := wizard.Screen{
		Title: "Your scorecard",
		Nav:   wizard.Navigation{NextLabel: "See my score"},
	}

	r, ok := ReportFrom(s.Derived)
	if !ok {
		screen.Blocks = []wizard.Block{wizard.Info{Body: "All done. Press **See my score** to get your results."}}
		return screen
	}

	rows := []wizard.SummaryRow{{Label: "Overall", Value: fmt.Sprintf("%d/100", r.Overall)}}
	for _, a := range r.Areas {
		rows = append(rows, wizard.SummaryRow{Label: a.Area.Title(), Value: fmt.Sprintf("%d/100", a.Score)})
	}
	screen.Blocks = []wizard.Block{
		wizard.Summary{Title: "Scores", Rows: rows},
		wizard.Info{Title: "Next steps", Body: r.Markdown(), Tone: wizard.ToneTip},
	}
	screen.Nav.NextLabel = "Rescore"
	return screen
}
