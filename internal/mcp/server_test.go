package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/internal/campaign"
	"hopefund/internal/catalog"
	"hopefund/internal/stats"
)

func demoService(t *testing.T) *campaign.Service {
	t.Helper()
	src, err := catalog.NewDemo(time.Now(), 0)
	require.NoError(t, err)
	return campaign.NewService(src, time.Second)
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text, res.IsError
		case *mcp.TextContent:
			return tc.Text, res.IsError
		}
	}
	t.Fatal("no text content in result")
	return "", false
}

func TestListCampaigns(t *testing.T) {
	t.Parallel()

	text, isErr := call(t, handleListCampaigns(demoService(t)), map[string]any{
		"category": "healthcare",
	})
	require.False(t, isErr)

	var result ListResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, 1, result.Page)
	require.NotEmpty(t, result.Campaigns)
	for _, c := range result.Campaigns {
		assert.Equal(t, "Healthcare", c.Category)
		assert.Empty(t, c.Description, "listings omit descriptions")
	}
}

func TestGetCampaign(t *testing.T) {
	t.Parallel()
	svc := demoService(t)

	text, isErr := call(t, handleGetCampaign(svc), map[string]any{"id": "education-001"})
	require.False(t, isErr)
	var c CampaignResult
	require.NoError(t, json.Unmarshal([]byte(text), &c))
	assert.Equal(t, "education-001", c.ID)
	assert.NotEmpty(t, c.Description)

	text, isErr = call(t, handleGetCampaign(svc), map[string]any{"id": "missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")
}

func TestGetStatistics(t *testing.T) {
	t.Parallel()

	st := stats.NewService(stats.Static(stats.Demo), slog.New(slog.NewTextHandler(io.Discard, nil)))
	text, isErr := call(t, handleGetStatistics(st), nil)
	require.False(t, isErr)
	assert.JSONEq(t, `{"livesImpacted":12547,"totalDonations":23456789,"activeCampaigns":156,"countriesReached":89}`, text)
}

func TestEstimateImpact(t *testing.T) {
	t.Parallel()
	svc := demoService(t)

	text, isErr := call(t, handleEstimateImpact(svc), map[string]any{"id": "education-001", "amount": float64(1000)})
	require.False(t, isErr)
	var result ImpactResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, "₹1,000", result.Amount)
	assert.Equal(t, "Provide school supplies for 10 children", result.Items[0])

	_, isErr = call(t, handleEstimateImpact(svc), map[string]any{"id": "education-001"})
	assert.True(t, isErr)
}
