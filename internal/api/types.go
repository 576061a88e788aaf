package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a record identifier. The API emits both numeric and string ids.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Amount is a money value. Decimal columns arrive as strings ("120.50").
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// Personality is an AI employee configured for a tenant.
type Personality struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Avatar      string `json:"avatar,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// Turn is one message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of POST /personalities/{id}/generate-response.
type GenerateRequest struct {
	Message             string `json:"message"`
	ConversationContext []Turn `json:"conversation_context"`
	CustomerID          string `json:"customer_id,omitempty"`
}

// GenerateResponse is the reply of POST /personalities/{id}/generate-response.
type GenerateResponse struct {
	Response string `json:"response"`
}

// CampaignRequest is the body of POST /outbound/campaigns.
type CampaignRequest struct {
	Name              string   `json:"name"`
	Type              string   `json:"type"`
	Message           string   `json:"message"`
	Subject           string   `json:"subject,omitempty"`
	RecipientSegments []string `json:"recipient_segments,omitempty"`
	ScheduledAt       string   `json:"scheduled_at,omitempty"`
}

// Campaign is an outbound campaign record.
type Campaign struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Customer is the nested customer of an invoice.
type Customer struct {
	ID           ID     `json:"id"`
	BusinessName string `json:"business_name"`
}

// Invoice is one invoice record.
type Invoice struct {
	ID         ID       `json:"id"`
	Number     string   `json:"invoice_number"`
	Status     string   `json:"status"`
	Total      Amount   `json:"total"`
	BalanceDue Amount   `json:"balance_due"`
	DueDate    string   `json:"due_date"`
	PaidAt     string   `json:"paid_at,omitempty"`
	Customer   Customer `json:"customer"`
}

// PageMeta is the pagination block of a paged listing.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// InvoicePage is one page of GET /invoices.
type InvoicePage struct {
	Data []Invoice `json:"data"`
	Meta PageMeta  `json:"meta"`
}

// SMBProfile is the tenant's business record.
type SMBProfile struct {
	BusinessName string            `json:"business_name"`
	Category     string            `json:"category"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Address      string            `json:"address"`
	Website      string            `json:"website"`
	Description  string            `json:"description"`
	Hours        map[string]string `json:"hours,omitempty"`
	LogoURL      string            `json:"logo_url"`
}

// FullProfile is the settings blob behind the profile configurator.
type FullProfile struct {
	Services       []string          `json:"services,omitempty"`
	SocialLinks    map[string]string `json:"social_links,omitempty"`
	BrandVoice     string            `json:"brand_voice"`
	TargetAudience string            `json:"target_audience"`
}
