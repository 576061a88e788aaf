package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// getData performs a GET and decodes either a bare value or a {"data": ...}
// envelope into out.
func (c *Client) getData(ctx context.Context, rc RequestContext, path string, out any) error {
	var raw json.RawMessage
	if err := c.DoJSON(ctx, rc, http.MethodGet, path, nil, &raw); err != nil {
		return err
	}
	return unwrap(raw, out)
}

func unwrap(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			raw = env.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ListPersonalities returns the tenant's AI employees.
func (c *Client) ListPersonalities(ctx context.Context, rc RequestContext) ([]Personality, error) {
	var out []Personality
	if err := c.getData(ctx, rc, "/personalities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateResponse asks personality id to answer a message.
func (c *Client) GenerateResponse(ctx context.Context, rc RequestContext, id ID, req GenerateRequest) (string, error) {
	if req.ConversationContext == nil {
		req.ConversationContext = []Turn{}
	}
	var raw json.RawMessage
	path := "/personalities/" + url.PathEscape(string(id)) + "/generate-response"
	if err := c.DoJSON(ctx, rc, http.MethodPost, path, req, &raw); err != nil {
		return "", err
	}
	var out GenerateResponse
	if err := unwrap(raw, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// ListCampaigns returns existing outbound campaigns.
func (c *Client) ListCampaigns(ctx context.Context, rc RequestContext) ([]Campaign, error) {
	var out []Campaign
	if err := c.getData(ctx, rc, "/outbound/campaigns", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCampaign creates an outbound campaign.
func (c *Client) CreateCampaign(ctx context.Context, rc RequestContext, req CampaignRequest) (*Campaign, error) {
	var raw json.RawMessage
	if err := c.DoJSON(ctx, rc, http.MethodPost, "/outbound/campaigns", req, &raw); err != nil {
		return nil, err
	}
	var out Campaign
	if err := unwrap(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvoices returns one page of invoices.
func (c *Client) ListInvoices(ctx context.Context, rc RequestContext, page, perPage int) (*InvoicePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out InvoicePage
	if err := c.DoJSON(ctx, rc, http.MethodGet, "/invoices?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.Meta.CurrentPage == 0 {
		out.Meta.CurrentPage = page
	}
	if out.Meta.LastPage == 0 {
		out.Meta.LastPage = out.Meta.CurrentPage
	}
	return &out, nil
}

// GetSMBProfile returns the tenant's business record.
func (c *Client) GetSMBProfile(ctx context.Context, rc RequestContext) (*SMBProfile, error) {
	var out SMBProfile
	if err := c.getData(ctx, rc, "/smb-profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFullProfile returns the tenant's profile settings blob.
func (c *Client) GetFullProfile(ctx context.Context, rc RequestContext) (*FullProfile, error) {
	var raw json.RawMessage
	if err := c.getData(ctx, rc, "/smb-profile/full", &raw); err != nil {
		return nil, err
	}
	// The blob is sometimes nested under "settings".
	var nested struct {
		Settings *FullProfile `json:"settings"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Settings != nil {
		return nested.Settings, nil
	}
	var out FullProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding full profile: %w", err)
	}
	return &out, nil
}
