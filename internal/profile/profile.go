// Package profile scores how complete a business profile is.
package profile

import (
	"context"
	"math"
	"strings"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
)

// Field is one weighted item of the completeness checklist.
type Field struct {
	Name   string
	Weight int
	filled func(smb *api.SMBProfile, full *api.FullProfile) bool
}

func text(s string) bool { return strings.TrimSpace(s) != "" }

// Fields is the checklist behind Strength, in display order.
var Fields = []Field{
	{Name: "Business name", Weight: 15, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.BusinessName) }},
	{Name: "Category", Weight: 10, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.Category) }},
	{Name: "Phone", Weight: 10, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.Phone) }},
	{Name: "Email", Weight: 10, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.Email) }},
	{Name: "Address", Weight: 10, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.Address) }},
	{Name: "Website", Weight: 5, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.Website) }},
	{Name: "Description", Weight: 10, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return len(strings.TrimSpace(s.Description)) >= 20 }},
	{Name: "Opening hours", Weight: 5, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return len(s.Hours) > 0 }},
	{Name: "Logo", Weight: 5, filled: func(s *api.SMBProfile, _ *api.FullProfile) bool { return text(s.LogoURL) }},
	{Name: "Services", Weight: 5, filled: func(_ *api.SMBProfile, f *api.FullProfile) bool { return len(f.Services) > 0 }},
	{Name: "Social links", Weight: 5, filled: func(_ *api.SMBProfile, f *api.FullProfile) bool { return len(f.SocialLinks) > 0 }},
	{Name: "Brand voice", Weight: 5, filled: func(_ *api.SMBProfile, f *api.FullProfile) bool { return text(f.BrandVoice) }},
	{Name: "Target audience", Weight: 5, filled: func(_ *api.SMBProfile, f *api.FullProfile) bool { return text(f.TargetAudience) }},
}

// Strength is a completeness score.
type Strength struct {
	Percent int
	Missing []string
}

// Label grades the score.
func (s Strength) Label() string {
	switch {
	case s.Percent >= 90:
		return "Excellent"
	case s.Percent >= 70:
		return "Good"
	case s.Percent >= 40:
		return "Getting there"
	}
	return "Just started"
}

// Compute scores smb and full. Nil profiles count as empty.
func Compute(smb *api.SMBProfile, full *api.FullProfile) Strength {
	if smb == nil {
		smb = &api.SMBProfile{}
	}
	if full == nil {
		full = &api.FullProfile{}
	}

	total, got := 0, 0
	var missing []string
	for _, f := range Fields {
		total += f.Weight
		if f.filled(smb, full) {
			got += f.Weight
		} else {
			missing = append(missing, f.Name)
		}
	}
	return Strength{
		Percent: int(math.Round(100 * float64(got) / float64(total))),
		Missing: missing,
	}
}

// Fetcher is the slice of the API client needed to load both profiles.
type Fetcher interface {
	GetSMBProfile(ctx context.Context, rc api.RequestContext) (*api.SMBProfile, error)
	GetFullProfile(ctx context.Context, rc api.RequestContext) (*api.FullProfile, error)
}

// Snapshot is the loaded profile and its strength.
type Snapshot struct {
	SMB      *api.SMBProfile
	Full     *api.FullProfile
	Strength Strength
}

// Load fetches both profiles. A failed read is logged and treated as an
// empty profile, so Load always returns a snapshot.
func Load(ctx context.Context, f Fetcher, rc api.RequestContext) Snapshot {
	smb, err := f.GetSMBProfile(ctx, rc)
	if err != nil {
		logger.Warn("loading business profile: %v", err)
		smb = &api.SMBProfile{}
	}
	full, err := f.GetFullProfile(ctx, rc)
	if err != nil {
		logger.Warn("loading profile settings: %v", err)
		full = &api.FullProfile{}
	}
	return Snapshot{SMB: smb, Full: full, Strength: Compute(smb, full)}
}
