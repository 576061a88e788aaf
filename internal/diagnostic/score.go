package diagnostic

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mark3labs/bizdesk/internal/wizard"
)

// Area is one scored dimension.
type Area string

const (
	AreaVisibility Area = "visibility"
	AreaReputation Area = "reputation"
	AreaEngagement Area = "engagement"
	AreaConversion Area = "conversion"
)

// Title capitalises the area name.
func (a Area) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// AreaScore is the score and advice for one area.
type AreaScore struct {
	Area   Area   `json:"area"`
	Score  int    `json:"score"`
	Advice string `json:"advice"`
}

// Report is the diagnostic result.
type Report struct {
	Overall   int         `json:"overall"`
	Areas     []AreaScore `json:"areas"`
	NextSteps []string    `json:"next_steps"`
}

// Markdown renders the next steps as a list.
func (r Report) Markdown() string {
	var b strings.Builder
	for _, s := range r.NextSteps {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

var advice = map[Area][3]string{
	AreaVisibility: {
		"Get a simple, mobile-friendly website and claim your map listings.",
		"Refresh your site for phones and put a small, tracked ad budget behind your best offer.",
		"Visibility is strong. Keep listings current and test new ad creative monthly.",
	},
	AreaReputation: {
		"Ask your happiest customers for reviews this week and reply to every one.",
		"Reply to all reviews, good and bad, within two days.",
		"Your reputation is an asset. Feature reviews in your ads and on your site.",
	},
	AreaEngagement: {
		"Pick one social channel and post there every week.",
		"Post more consistently and reuse your best content across channels.",
		"Engagement is healthy. Try short video to reach new people.",
	},
	AreaConversion: {
		"Start an email list and follow up every enquiry within a day.",
		"Automate follow-ups so no enquiry slips through.",
		"Conversion is solid. Add a referral offer to your follow-ups.",
	},
}

func adviceFor(a Area, score int) string {
	tips := advice[a]
	switch {
	case score < 50:
		return tips[0]
	case score < 75:
		return tips[1]
	}
	return tips[2]
}

// Score computes the report for a set of answers. Missing answers count as
// the weakest option.
func Score(a wizard.Answers) Report {
	scores := []AreaScore{
		{Area: AreaVisibility, Score: visibility(a)},
		{Area: AreaReputation, Score: reputation(a)},
		{Area: AreaEngagement, Score: engagement(a)},
		{Area: AreaConversion, Score: conversion(a)},
	}

	sum := 0
	for i := range scores {
		scores[i].Advice = adviceFor(scores[i].Area, scores[i].Score)
		sum += scores[i].Score
	}

	weakest := slices.Clone(scores)
	slices.SortStableFunc(weakest, func(x, y AreaScore) int { return x.Score - y.Score })
	steps := []string{weakest[0].Advice, weakest[1].Advice}

	return Report{
		Overall:   int(math.Round(float64(sum) / float64(len(scores)))),
		Areas:     scores,
		NextSteps: steps,
	}
}

func clamp(v int) int {
	return max(0, min(100, v))
}

func visibility(a wizard.Answers) int {
	site := 20
	if a.String(KeyHasWebsite) == "yes" {
		switch a.String(KeyWebsiteQuality) {
		case "great":
			site = 90
		case "ok":
			site = 70
		default:
			site = 45
		}
		switch a.String(KeyMobileFriendly) {
		case "yes":
			site += 10
		case "no":
			site -= 10
		}
	}

	ads := 40
	if a.String(KeyRunsAds) == "yes" {
		switch a.String(KeyAdSpend) {
		case "2000+":
			ads = 90
		case "500-2000":
			ads = 85
		case "100-500":
			ads = 70
		default:
			ads = 55
		}
		if a.String(KeyTracksResults) != "yes" {
			ads -= 15
		}
	}
	return clamp((clamp(site) + clamp(ads)) / 2)
}

func reputation(a wizard.Answers) int {
	score := 10
	switch a.String(KeyReviewCount) {
	case "50+":
		score = 90
	case "11-50":
		score = 70
	case "1-10":
		score = 40
	}
	switch a.String(KeyRespondsReviews) {
	case "always":
		score += 10
	case "never", "":
		score -= 20
	}
	return clamp(score)
}

func engagement(a wizard.Answers) int {
	channels := 0
	for _, c := range a.Strings(KeySocialChannels) {
		if c != "none" {
			channels++
		}
	}
	score := 10
	switch {
	case channels >= 3:
		score = 75
	case channels == 2:
		score = 60
	case channels == 1:
		score = 40
	}
	switch a.String(KeyPostingFrequency) {
	case "daily":
		score += 25
	case "weekly":
		score += 15
	case "rarely", "":
		score -= 15
	}
	return clamp(score)
}

func conversion(a wizard.Answers) int {
	score := 25
	switch a.String(KeyFollowUp) {
	case "automated":
		score = 85
	case "manual":
		score = 60
	}
	if a.String(KeyEmailList) == "yes" {
		score += 15
	}
	return clamp(score)
}
