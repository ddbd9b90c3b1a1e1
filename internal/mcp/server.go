package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"hopefund/internal/campaign"
	"hopefund/internal/donation"
	"hopefund/internal/format"
	"hopefund/internal/stats"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with read-only tools over the campaign catalog
func NewServer(campaigns *campaign.Service, st *stats.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"HopeFund",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_campaigns - same filtering, sorting and paging as the causes page
	s.AddTool(
		mcp.NewTool("list_campaigns",
			mcp.WithDescription("List fundraising campaigns the way the causes page shows them. Results are cumulative: page 2 returns the first 18 campaigns."),
			mcp.WithString("search",
				mcp.Description("Optional: case-insensitive text matched against title, description, location and organizer"),
			),
			mcp.WithString("category",
				mcp.Description("Optional: one of education, healthcare, disaster, environment, community"),
			),
			mcp.WithString("sort",
				mcp.Description("Sort order: recent (default), urgent, popular, progress or amount"),
			),
			mcp.WithNumber("page",
				mcp.Description("Load-more position, 9 campaigns per page (default: 1)"),
			),
		),
		handleListCampaigns(campaigns),
	)

	// Tool: get_campaign - one campaign with its full description
	s.AddTool(
		mcp.NewTool("get_campaign",
			mcp.WithDescription("Get a campaign by ID, including its markdown description and funding progress."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Campaign ID (e.g., 'education-001')"),
			),
		),
		handleGetCampaign(campaigns),
	)

	// Tool: get_statistics - platform counters
	s.AddTool(
		mcp.NewTool("get_statistics",
			mcp.WithDescription("Get the platform-wide statistics shown on the home page."),
		),
		handleGetStatistics(st),
	)

	// Tool: estimate_impact - what a donation pays for
	s.AddTool(
		mcp.NewTool("estimate_impact",
			mcp.WithDescription("Estimate what a donation amount pays for in a given campaign."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Campaign ID"),
			),
			mcp.WithNumber("amount",
				mcp.Required(),
				mcp.Description("Donation amount in rupees"),
			),
		),
		handleEstimateImpact(campaigns),
	)

	return s
}

// CampaignResult is a campaign in tool responses
type CampaignResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Organizer   string    `json:"organizer"`
	Raised      string    `json:"raised"`
	Goal        string    `json:"goal"`
	Progress    int       `json:"progressPercent"`
	Donors      int       `json:"donors"`
	Urgent      bool      `json:"urgent"`
	Deadline    time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Description string    `json:"description,omitempty"`
}

// ListResult is a page of campaigns
type ListResult struct {
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	HasMore   bool             `json:"hasMore"`
	Campaigns []CampaignResult `json:"campaigns"`
}

// ImpactResult describes what a donation achieves
type ImpactResult struct {
	Campaign string   `json:"campaign"`
	Amount   string   `json:"amount"`
	Type     string   `json:"type"`
	Items    []string `json:"items"`
}

func handleListCampaigns(svc *campaign.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := url.Values{}
		q.Set("search", req.GetString("search", ""))
		q.Set("category", req.GetString("category", ""))
		q.Set("sort", req.GetString("sort", ""))
		q.Set("page", strconv.Itoa(req.GetInt("page", 1)))

		listing, err := svc.List(ctx, campaign.ParseQuery(q))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list campaigns: %v", err)), nil
		}

		result := ListResult{
			Total:     listing.Total(),
			Page:      listing.State.Page,
			HasMore:   listing.HasMore,
			Campaigns: make([]CampaignResult, len(listing.Visible)),
		}
		for i, c := range listing.Visible {
			result.Campaigns[i] = toResult(c, false)
		}

		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetCampaign(svc *campaign.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		c, err := svc.Get(ctx, id)
		if errors.Is(err, campaign.ErrCampaignNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("campaign %q not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get campaign: %v", err)), nil
		}

		data, _ := json.MarshalIndent(toResult(*c, true), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetStatistics(st *stats.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, _ := st.Get(ctx)
		data, _ := json.MarshalIndent(s, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleEstimateImpact(svc *campaign.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		amount := req.GetInt("amount", 0)
		if amount <= 0 {
			return mcp.NewToolResultError("amount must be a positive number of rupees"), nil
		}

		c, err := svc.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get campaign: %v", err)), nil
		}

		impact := donation.Impact(int64(amount), c.Title)
		result := ImpactResult{
			Campaign: c.Title,
			Amount:   format.Currency(float64(amount)),
			Type:     string(impact.Type),
			Items:    impact.Items,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

// Helper functions

func toResult(c campaign.Campaign, full bool) CampaignResult {
	r := CampaignResult{
		ID:        c.ID,
		Title:     c.Title,
		Category:  c.Category.DisplayName(),
		Location:  c.Location,
		Organizer: c.OrganizerName,
		Raised:    format.Currency(c.Raised),
		Goal:      format.Currency(c.Goal),
		Progress:  campaign.Percentage(c.Raised, c.Goal),
		Donors:    c.DonorsCount,
		Urgent:    c.Urgent,
		Deadline:  c.Deadline,
		CreatedAt: c.CreatedAt,
	}
	if full {
		r.Description = c.Description
	}
	return r
}
