// Package campaign implements the marketing campaign wizard: package
// recommendation, pricing, the screen graph and the launch call.
package campaign

import (
	"fmt"
	"slices"
)

// Package is a campaign tier.
type Package string

const (
	PackageExpert     Package = "expert"
	PackageSponsor    Package = "sponsor"
	PackageInfluencer Package = "influencer"
)

// Packages lists the tiers in display order.
var Packages = []Package{PackageExpert, PackageSponsor, PackageInfluencer}

// Title returns the display name of p.
func (p Package) Title() string {
	switch p {
	case PackageExpert:
		return "Expert Spotlight"
	case PackageSponsor:
		return "Community Sponsor"
	case PackageInfluencer:
		return "Local Influencer"
	}
	return string(p)
}

// Features returns what p includes.
func (p Package) Features() []string {
	switch p {
	case PackageExpert:
		return []string{"Featured expert column", "Q&A segment with your team", "Credibility badge on listings"}
	case PackageSponsor:
		return []string{"Event sponsorship placement", "Logo on community calendar", "Two announcement blasts"}
	case PackageInfluencer:
		return []string{"Social posts from local creators", "Story mentions", "Engagement report"}
	}
	return nil
}

// Profile holds the answers the recommendation depends on.
type Profile struct {
	BusinessCategory string
	PrimaryGoal      string
	BiggestChallenge string
}

// RecommendPackage picks a tier. The first matching rule wins:
//  1. service businesses after authority, or fighting for trust: expert
//  2. awareness goals not constrained by time: sponsor
//  3. everything else: influencer
func RecommendPackage(p Profile) Package {
	if p.BusinessCategory == "service" && (p.PrimaryGoal == "authority" || p.BiggestChallenge == "trust") {
		return PackageExpert
	}
	if p.PrimaryGoal == "awareness" && p.BiggestChallenge != "time" {
		return PackageSponsor
	}
	return PackageInfluencer
}

// BasePrice is the monthly price of every package before enhancements.
const BasePrice = 300

// Enhancement is an optional monthly add-on.
type Enhancement struct {
	ID        string
	Label     string
	Surcharge int
}

// Enhancements is the add-on catalogue.
var Enhancements = []Enhancement{
	{ID: "social-boost", Label: "Social media boost", Surcharge: 75},
	{ID: "email-followup", Label: "Email follow-up sequence", Surcharge: 50},
	{ID: "video-spotlight", Label: "Video spotlight", Surcharge: 150},
	{ID: "print-flyers", Label: "Printed flyers", Surcharge: 60},
	{ID: "priority-placement", Label: "Priority placement", Surcharge: 125},
}

func surcharge(id string) int {
	i := slices.IndexFunc(Enhancements, func(e Enhancement) bool { return e.ID == id })
	if i < 0 {
		return 0
	}
	return Enhancements[i].Surcharge
}

// MonthlyTotal is BasePrice plus the surcharge of every entry in
// enhancements. A repeated id is charged each time it appears; the
// checklist never produces one. Unknown ids add nothing.
func MonthlyTotal(enhancements []string) int {
	total := BasePrice
	for _, id := range enhancements {
		total += surcharge(id)
	}
	return total
}

// FormatPrice renders a monthly price.
func FormatPrice(amount int) string {
	return fmt.Sprintf("$%d/mo", amount)
}
