// Package content implements the ad, announcement and article wizards, the
// copy generators behind them and the local drafts store.
package content

import (
	"fmt"
	"strings"

	"github.com/mark3labs/bizdesk/internal/wizard"
)

// Kind is the type of content being written.
type Kind string

const (
	KindAd           Kind = "ad"
	KindAnnouncement Kind = "announcement"
	KindArticle      Kind = "article"
)

// Kinds lists every content kind.
var Kinds = []Kind{KindAd, KindAnnouncement, KindArticle}

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q (want ad, announcement or article)", s)
}

// Point is one labelled fact the copy must use.
type Point struct {
	Label string
	Value string
}

// Brief is everything a generator needs to write a piece.
type Brief struct {
	Kind     Kind
	Title    string
	Tone     string
	Audience string
	Length   string
	Points   []Point
	Sections []string
}

// Prompt renders the brief as instructions for a copywriter.
func (b Brief) Prompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s", b.Kind)
	if b.Title != "" {
		fmt.Fprintf(&sb, " titled %q", b.Title)
	}
	sb.WriteString(".\n")
	if b.Tone != "" {
		fmt.Fprintf(&sb, "Tone: %s.\n", b.Tone)
	}
	if b.Audience != "" {
		fmt.Fprintf(&sb, "Audience: %s.\n", b.Audience)
	}
	if b.Length != "" {
		fmt.Fprintf(&sb, "Length: %s.\n", b.Length)
	}
	if len(b.Points) > 0 {
		sb.WriteString("Use these facts:\n")
		for _, p := range b.Points {
			fmt.Fprintf(&sb, "- %s: %s\n", p.Label, p.Value)
		}
	}
	if len(b.Sections) > 0 {
		fmt.Fprintf(&sb, "Include sections on: %s.\n", strings.Join(b.Sections, ", "))
	}
	sb.WriteString("Return markdown only, starting with a level-one heading.")
	return sb.String()
}

// BriefFrom assembles a brief from wizard answers.
func BriefFrom(kind Kind, a wizard.Answers) Brief {
	b := Brief{
		Kind:     kind,
		Tone:     a.String(KeyTone),
		Audience: a.String(KeyAudience),
	}
	add := func(label, key string) {
		if v := a.String(key); v != "" {
			b.Points = append(b.Points, Point{Label: label, Value: v})
		}
	}

	switch kind {
	case KindAd:
		b.Title = a.String(KeyOffer)
		add("Platform", KeyPlatform)
		add("Product", KeyProduct)
		add("Offer", KeyOffer)
		add("Call to action", KeyCTA)
	case KindAnnouncement:
		b.Title = a.String(KeyHeadline)
		add("Occasion", KeyOccasion)
		add("Date", KeyDate)
		add("Details", KeyDetails)
	case KindArticle:
		b.Title = a.String(KeyArticleTitle)
		b.Length = a.String(KeyLength)
		b.Sections = a.Strings(KeySections)
		add("Keywords", KeyKeywords)
	}
	if b.Title == "" {
		b.Title = "Untitled " + string(kind)
	}
	return b
}
