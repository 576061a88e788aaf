package campaign

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/bizdesk/internal/wizard"
)

// FlowName identifies the campaign wizard in journals.
const FlowName = "campaign"

// Answer ids.
const (
	KeyBusinessName     = "businessName"
	KeyBusinessCategory = "businessCategory"
	KeyServiceType      = "serviceType"
	KeyClientJourney    = "clientJourney"
	KeyPriorities       = "priorities"
	KeyBiggestChallenge = "biggestChallenge"
	KeyEventName        = "eventName"
	KeyEventDate        = "eventDate"
	KeyEventTime        = "eventTime"
	KeyEventDescription = "eventDescription"
	KeySendDate         = "sendDate"
	KeyAudience         = "audience"
	KeySelectedPackage  = "selectedPackage"
	KeyEnhancements     = "enhancements"
)

// Derived keys.
const (
	DerivedPrimaryGoal        = "primaryGoal"
	DerivedRecommendedPackage = "recommendedPackage"
	DerivedMonthlyTotal       = "monthlyTotal"
	DerivedSelectedPackage    = "selectedPackage"
	DerivedCampaignID         = "campaignId"
)

// ActionLaunch is the terminal action of the review screen.
const ActionLaunch = "launch"

var categories = []wizard.Tile{
	{Value: "service", Label: "Professional service", Icon: "🛠"},
	{Value: "retail", Label: "Retail shop", Icon: "🛍"},
	{Value: "restaurant", Label: "Restaurant or bar", Icon: "🍽"},
	{Value: "health", Label: "Health and wellness", Icon: "🌿"},
	{Value: "other", Label: "Something else", Icon: "✨"},
}

var priorities = []wizard.Option{
	{Value: "awareness", Label: "Get known in the neighbourhood"},
	{Value: "authority", Label: "Be seen as the local expert"},
	{Value: "event", Label: "Fill an upcoming event"},
	{Value: "loyalty", Label: "Bring regulars back more often"},
	{Value: "leads", Label: "Generate new leads"},
}

var challenges = []wizard.Option{
	{Value: "time", Label: "No time for marketing"},
	{Value: "trust", Label: "Customers don't know if they can trust us"},
	{Value: "differentiation", Label: "We look like everyone else"},
	{Value: "budget", Label: "Tight budget"},
	{Value: "visibility", Label: "Hard to find online"},
}

var audiences = []wizard.Option{
	{Value: "all-customers", Label: "All customers"},
	{Value: "recent", Label: "Visited in the last 90 days"},
	{Value: "vip", Label: "VIP and repeat customers"},
	{Value: "leads", Label: "Open leads"},
}

// Derive recomputes primaryGoal, recommendedPackage, monthlyTotal and
// selectedPackage. Only changed values are written.
func Derive(s *wizard.State) bool {
	goal := ""
	if ranked := s.Answers.Strings(KeyPriorities); len(ranked) > 0 {
		goal = ranked[0]
	}
	// An event goal skips the challenge screen, so a challenge answered on an
	// earlier pass no longer counts. The answer is kept in case the user
	// re-ranks again.
	challenge := ""
	if goal != "event" {
		challenge = s.Answers.String(KeyBiggestChallenge)
	}
	rec := RecommendPackage(Profile{
		BusinessCategory: s.Answers.String(KeyBusinessCategory),
		PrimaryGoal:      goal,
		BiggestChallenge: challenge,
	})
	selected := s.Answers.String(KeySelectedPackage)
	if selected == "" {
		selected = string(rec)
	}

	changed := s.SetDerived(DerivedPrimaryGoal, goal)
	changed = s.SetDerived(DerivedRecommendedPackage, string(rec)) || changed
	changed = s.SetDerived(DerivedMonthlyTotal, strconv.Itoa(MonthlyTotal(s.Answers.Strings(KeyEnhancements)))) || changed
	changed = s.SetDerived(DerivedSelectedPackage, selected) || changed
	return changed
}

// NewFlow returns the campaign wizard. When l is nil the launch action is
// left unregistered.
func NewFlow(l *Launcher) *wizard.Flow {
	f := wizard.MustFlow(FlowName, "welcome",
		&wizard.Node{ID: "welcome", Step: 1, Build: buildWelcome, Next: to("business")},
		&wizard.Node{ID: "business", Step: 1, Build: buildBusiness, Next: afterBusiness},
		&wizard.Node{ID: "service-details", Step: 1, Build: buildServiceDetails, Next: to("priorities")},
		&wizard.Node{ID: "priorities", Step: 2, Build: buildPriorities, Next: afterPriorities},
		&wizard.Node{ID: "challenge", Step: 2, Build: buildChallenge, Next: to("event")},
		&wizard.Node{ID: "event", Step: 3, Build: buildEvent, Next: to("package")},
		&wizard.Node{ID: "package", Step: 4, Build: buildPackage, Next: to("enhancements")},
		&wizard.Node{ID: "enhancements", Step: 4, Build: buildEnhancements, Next: to("review")},
		&wizard.Node{ID: "review", Step: 5, Build: buildReview, Action: ActionLaunch},
	)
	f.Derive = Derive
	f.AllowIncomplete = true
	if l != nil {
		f.Handle(ActionLaunch, l.Action())
	}
	return f
}

func to(id string) func(*wizard.State) string {
	return func(*wizard.State) string { return id }
}

func afterBusiness(s *wizard.State) string {
	if s.Answers.String(KeyBusinessCategory) == "service" {
		return "service-details"
	}
	return "priorities"
}

func afterPriorities(s *wizard.State) string {
	if s.Derived[DerivedPrimaryGoal] == "event" {
		return "event"
	}
	return "challenge"
}

func buildWelcome(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title:    "Launch a local marketing campaign",
		Subtitle: "A few questions and we'll match you with the right package.",
		Blocks: []wizard.Block{
			wizard.Info{
				Title: "How it works",
				Body: "1. Tell us about your business\n" +
					"2. Rank what matters most this month\n" +
					"3. Describe the event or offer to promote\n" +
					"4. Pick a package and optional boosts",
			},
		},
		Nav: wizard.Navigation{NextLabel: "Get started"},
	}
}

func buildBusiness(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "About your business",
		Blocks: []wizard.Block{
			wizard.Input{ID: KeyBusinessName, Label: "Business name", Placeholder: "Murphy's Pub", InputType: wizard.InputText, Required: true},
			wizard.SelectionGrid{ID: KeyBusinessCategory, Prompt: "What kind of business is it?", Tiles: categories, Columns: 3, Required: true},
		},
	}
}

func buildServiceDetails(s *wizard.State) wizard.Screen {
	name := s.Answers.String(KeyBusinessName)
	if name == "" {
		name = "your business"
	}
	return wizard.Screen{
		Title:    "Service businesses",
		Subtitle: fmt.Sprintf("Clients choose %s on trust. Help us tell your story.", name),
		Blocks: []wizard.Block{
			wizard.Input{ID: KeyServiceType, Label: "What service do you offer?", Placeholder: "Tax preparation", InputType: wizard.InputText},
			wizard.Question{
				ID:     KeyClientJourney,
				Prompt: "How do new clients usually find you?",
				Options: []wizard.Option{
					{Value: "referral", Label: "Word of mouth"},
					{Value: "search", Label: "Online search"},
					{Value: "walk-in", Label: "Walk-ins"},
					{Value: "social", Label: "Social media"},
				},
				Multiple: true,
			},
		},
	}
}

func buildPriorities(s *wizard.State) wizard.Screen {
	return wizard.Screen{
		Title:    "What matters most right now?",
		Subtitle: "Rank your top three. Your first pick shapes the recommendation.",
		Blocks: []wizard.Block{
			wizard.Ranking{ID: KeyPriorities, Prompt: "Pick in order of importance", Items: priorities, Slots: 3, Required: true},
		},
	}
}

func buildChallenge(*wizard.State) wizard.Screen {
	return wizard.Screen{
		Title: "What's holding you back?",
		Blocks: []wizard.Block{
			wizard.Question{ID: KeyBiggestChallenge, Prompt: "Biggest marketing challenge", Options: challenges, Required: true},
		},
	}
}

func buildEvent(s *wizard.State) wizard.Screen {
	blocks := []wizard.Block{
		wizard.Input{ID: KeyEventName, Label: "Event or offer name", Placeholder: "First Friday", InputType: wizard.InputText, Required: true},
		wizard.Input{ID: KeyEventDate, Label: "Date", Placeholder: "2025-03-07", InputType: wizard.InputDate, Required: true},
		wizard.Input{ID: KeyEventTime, Label: "Time", Placeholder: "19:00", InputType: wizard.InputTime},
		wizard.Input{ID: KeyEventDescription, Label: "Describe it in a sentence or two", InputType: wizard.InputTextarea},
		wizard.Question{ID: KeyAudience, Prompt: "Who should hear about it?", Options: audiences, Multiple: true},
		wizard.Input{ID: KeySendDate, Label: "Send announcement on", Placeholder: "2025-03-01", InputType: wizard.InputDate},
	}
	if s.Derived[DerivedPrimaryGoal] == "event" {
		blocks = append([]wizard.Block{wizard.Info{
			Body: "Events are your top priority, so we'll build the campaign around this one.",
			Tone: wizard.ToneTip,
		}}, blocks...)
	}
	return wizard.Screen{Title: "Your event or offer", Blocks: blocks}
}

func buildPackage(s *wizard.State) wizard.Screen {
	rec := Package(s.Derived[DerivedRecommendedPackage])
	cards := make([]wizard.PackageCard, 0, len(Packages))
	for _, p := range Packages {
		cards = append(cards, wizard.PackageCard{
			Value:       string(p),
			Name:        p.Title(),
			Price:       FormatPrice(BasePrice),
			Features:    p.Features(),
			Recommended: p == rec,
		})
	}
	return wizard.Screen{
		Title:    "Choose your package",
		Subtitle: fmt.Sprintf("Based on your answers we recommend %s.", rec.Title()),
		Blocks: []wizard.Block{
			wizard.PackageComparison{ID: KeySelectedPackage, Packages: cards},
		},
	}
}

func buildEnhancements(s *wizard.State) wizard.Screen {
	items := make([]wizard.Option, 0, len(Enhancements))
	for _, e := range Enhancements {
		items = append(items, wizard.Option{Value: e.ID, Label: e.Label, Description: "+" + FormatPrice(e.Surcharge)})
	}
	total, _ := strconv.Atoi(s.Derived[DerivedMonthlyTotal])
	return wizard.Screen{
		Title:    "Boost your campaign",
		Subtitle: "Running total: " + FormatPrice(total),
		Blocks: []wizard.Block{
			wizard.Checklist{ID: KeyEnhancements, Prompt: "Optional add-ons", Items: items},
		},
	}
}

func buildReview(s *wizard.State) wizard.Screen {
	a := s.Answers
	total, _ := strconv.Atoi(s.Derived[DerivedMonthlyTotal])
	when := a.String(KeyEventDate)
	if t := a.String(KeyEventTime); t != "" {
		when += " " + t
	}
	labels := make([]string, 0)
	for _, id := range a.Strings(KeyEnhancements) {
		for _, e := range Enhancements {
			if e.ID == id {
				labels = append(labels, e.Label)
			}
		}
	}
	extras := strings.Join(labels, ", ")
	if extras == "" {
		extras = "None"
	}

	return wizard.Screen{
		Title: "Review and launch",
		Blocks: []wizard.Block{
			wizard.Summary{
				Title: "Campaign summary",
				Rows: []wizard.SummaryRow{
					{Label: "Business", Value: a.String(KeyBusinessName)},
					{Label: "Event", Value: a.String(KeyEventName)},
					{Label: "When", Value: when},
					{Label: "Package", Value: Package(s.Derived[DerivedSelectedPackage]).Title()},
					{Label: "Add-ons", Value: extras},
					{Label: "Monthly total", Value: FormatPrice(total)},
				},
			},
			wizard.Info{Title: "Announcement preview", Body: BuildMessage(a)},
		},
		Nav: wizard.Navigation{NextLabel: "Launch campaign"},
	}
}
