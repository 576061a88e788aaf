package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete() (*api.SMBProfile, *api.FullProfile) {
	return &api.SMBProfile{
			BusinessName: "Murphy's",
			Category:     "restaurant",
			Phone:        "555-0100",
			Email:        "hi@murphys.test",
			Address:      "1 Main St",
			Website:      "https://murphys.test",
			Description:  "Neighbourhood pub with live music on Fridays.",
			Hours:        map[string]string{"mon": "12-23"},
			LogoURL:      "https://murphys.test/logo.png",
		}, &api.FullProfile{
			Services:       []string{"food", "drinks"},
			SocialLinks:    map[string]string{"instagram": "@murphys"},
			BrandVoice:     "warm",
			TargetAudience: "locals",
		}
}

func TestFieldWeightsSumTo100(t *testing.T) {
	sum := 0
	for _, f := range Fields {
		sum += f.Weight
	}
	assert.Equal(t, 100, sum)
}

func TestCompute(t *testing.T) {
	smb, full := complete()
	s := Compute(smb, full)
	assert.Equal(t, 100, s.Percent)
	assert.Empty(t, s.Missing)
	assert.Equal(t, "Excellent", s.Label())

	smb.Description = "Pub."
	full.BrandVoice = "  "
	s = Compute(smb, full)
	assert.Equal(t, 85, s.Percent)
	assert.Equal(t, []string{"Description", "Brand voice"}, s.Missing)

	empty := Compute(nil, nil)
	assert.Equal(t, 0, empty.Percent)
	assert.Len(t, empty.Missing, len(Fields))
	assert.Equal(t, "Just started", empty.Label())
}

type fakeFetcher struct {
	smbErr, fullErr error
}

func (f fakeFetcher) GetSMBProfile(context.Context, api.RequestContext) (*api.SMBProfile, error) {
	if f.smbErr != nil {
		return nil, f.smbErr
	}
	smb, _ := complete()
	return smb, nil
}

func (f fakeFetcher) GetFullProfile(context.Context, api.RequestContext) (*api.FullProfile, error) {
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	_, full := complete()
	return full, nil
}

func TestLoad_FallsBackOnReadErrors(t *testing.T) {
	snap := Load(context.Background(), fakeFetcher{fullErr: errors.New("down")}, api.RequestContext{})
	require.NotNil(t, snap.Full)
	assert.Equal(t, 80, snap.Strength.Percent)
	assert.Equal(t, "Murphy's", snap.SMB.BusinessName)

	snap = Load(context.Background(), fakeFetcher{smbErr: errors.New("down"), fullErr: errors.New("down")}, api.RequestContext{})
	assert.Equal(t, 0, snap.Strength.Percent)
}
