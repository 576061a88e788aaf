package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/campaign"
	"github.com/mark3labs/bizdesk/internal/invoices"
	"github.com/mark3labs/bizdesk/internal/profile"
	"github.com/mark3labs/bizdesk/internal/wizard"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("recommend-package",
			mcp.WithDescription("Recommend a campaign package for a business"),
			mcp.WithString("primaryGoal", mcp.Description("Top ranked priority, e.g. event, leads, reviews")),
			mcp.WithString("businessCategory", mcp.Description("restaurant, retail, service or other")),
			mcp.WithString("biggestChallenge", mcp.Description("e.g. trust, awareness, time")),
		),
		s.handleRecommendPackage,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("monthly-total",
			mcp.WithDescription("Monthly price of a campaign with the given enhancements"),
			mcp.WithArray("enhancements", mcp.WithStringItems(), mcp.Description("Enhancement ids")),
		),
		s.handleMonthlyTotal,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("campaign-message",
			mcp.WithDescription("Write the announcement text for an event campaign"),
			mcp.WithString(campaign.KeyBusinessName, mcp.Required()),
			mcp.WithString(campaign.KeyEventName, mcp.Required()),
			mcp.WithString(campaign.KeyEventDate),
			mcp.WithString(campaign.KeyEventTime),
			mcp.WithString(campaign.KeyEventDescription),
		),
		s.handleCampaignMessage,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("invoice-summary",
			mcp.WithDescription("Outstanding, overdue and collected totals across all invoices"),
		),
		s.handleInvoiceSummary,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("profile-strength",
			mcp.WithDescription("How complete the business profile is and what is missing"),
		),
		s.handleProfileStrength,
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleRecommendPackage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg := campaign.RecommendPackage(campaign.Profile{
		PrimaryGoal:      request.GetString("primaryGoal", ""),
		BusinessCategory: request.GetString("businessCategory", ""),
		BiggestChallenge: request.GetString("biggestChallenge", ""),
	})
	return jsonResult(map[string]any{
		"package":  string(pkg),
		"title":    pkg.Title(),
		"features": pkg.Features(),
	})
}

func (s *Server) handleMonthlyTotal(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	total := campaign.MonthlyTotal(request.GetStringSlice("enhancements", nil))
	return jsonResult(map[string]any{
		"total":     total,
		"formatted": campaign.FormatPrice(total),
	})
}

func (s *Server) handleCampaignMessage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers := wizard.Answers{}
	for _, key := range []string{
		campaign.KeyBusinessName,
		campaign.KeyEventName,
		campaign.KeyEventDate,
		campaign.KeyEventTime,
		campaign.KeyEventDescription,
	} {
		answers.Set(key, request.GetString(key, ""))
	}
	if !answers.Has(campaign.KeyBusinessName) || !answers.Has(campaign.KeyEventName) {
		return mcp.NewToolResultError("businessName and eventName are required"), nil
	}
	return mcp.NewToolResultText(campaign.BuildMessage(answers)), nil
}

type invoiceSummary struct {
	Count        int     `json:"count"`
	OpenCount    int     `json:"open_count"`
	OverdueCount int     `json:"overdue_count"`
	PaidCount    int     `json:"paid_count"`
	Outstanding  float64 `json:"outstanding"`
	OverdueValue float64 `json:"overdue_value"`
	Collected    float64 `json:"collected"`
	DueThisWeek  int     `json:"due_this_week"`
	Partial      bool    `json:"partial,omitempty"`
}

func (s *Server) handleInvoiceSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Invoices == nil {
		return mcp.NewToolResultError("invoices are not configured"), nil
	}

	invs, err := s.deps.Invoices.LoadAll(ctx, s.deps.Request)
	if err != nil && len(invs) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("loading invoices: %s", api.Message(err))), nil
	}

	now := s.deps.Now()
	sum := invoices.Summarize(invs, now)
	return jsonResult(invoiceSummary{
		Count:        sum.Count,
		OpenCount:    sum.OpenCount,
		OverdueCount: sum.OverdueCount,
		PaidCount:    sum.PaidCount,
		Outstanding:  sum.Outstanding,
		OverdueValue: sum.OverdueValue,
		Collected:    sum.Collected,
		DueThisWeek:  len(invoices.Bucketize(invs, now).DueThisWeek),
		Partial:      err != nil,
	})
}

func (s *Server) handleProfileStrength(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Profile == nil {
		return mcp.NewToolResultError("profile is not configured"), nil
	}

	snap := profile.Load(ctx, s.deps.Profile, s.deps.Request)
	missing := snap.Strength.Missing
	if missing == nil {
		missing = []string{}
	}
	return jsonResult(map[string]any{
		"percent": snap.Strength.Percent,
		"label":   snap.Strength.Label(),
		"missing": missing,
	})
}
