package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/internal/stats"
)

func newTestHandler(src Source) (*Handler, *http.ServeMux) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(NewService(src, time.Second), stats.NewService(stats.Static(stats.Demo), log), log)
	h.now = func() time.Time { return refNow }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HomePage)
	mux.HandleFunc("GET /causes", h.CausesPage)
	mux.HandleFunc("GET /fragments/campaigns", h.CampaignsFragment)
	mux.HandleFunc("GET /campaigns/{id}", h.CampaignPage)
	mux.HandleFunc("GET /api/campaigns", h.ListCampaigns)
	mux.HandleFunc("GET /api/campaigns/{id}", h.GetCampaign)
	mux.HandleFunc("GET /api/stats", h.GetStats)
	return h, mux
}

func staticSource(campaigns []Campaign) Source {
	return SourceFunc(func(context.Context) ([]Campaign, error) {
		return campaigns, nil
	})
}

func failingSource() Source {
	return SourceFunc(func(context.Context) ([]Campaign, error) {
		return nil, errors.New("backend unavailable")
	})
}

func get(t *testing.T, mux http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListCampaignsAPI(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(generate(25)))

	rec := get(t, mux, "/api/campaigns?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Campaigns, 18)
	assert.Equal(t, 25, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "/api/campaigns?page=3", resp.Next)
}

func TestListCampaignsAPIEmpty(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(fixture()))

	rec := get(t, mux, "/api/campaigns?search=nothing-matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"campaigns":[],"total":0,"page":1,"hasMore":false}`, rec.Body.String())
}

func TestGetCampaignAPI(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(fixture()))

	rec := get(t, mux, "/api/campaigns/disaster-003", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "Flood Relief Operations", c.Title)

	rec = get(t, mux, "/api/campaigns/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"campaign not found"}`, rec.Body.String())
}

func TestStatsAPI(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(nil))

	rec := get(t, mux, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"livesImpacted":12547,"totalDonations":23456789,"activeCampaigns":156,"countriesReached":89}`, rec.Body.String())
}

func TestHomePage(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(fixture()))

	rec := get(t, mux, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "12.5K")
	assert.Contains(t, body, "₹2.3 Cr")
	assert.Equal(t, 3, strings.Count(body, `class="campaign-card"`))
	// urgent campaigns lead the featured list
	assert.Less(t, strings.Index(body, "Flood Relief Operations"), strings.Index(body, "Education for Underprivileged Children"))
}

func TestHomePageFeaturedError(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(failingSource())

	rec := get(t, mux, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to load campaigns")
	assert.Contains(t, rec.Body.String(), "12.5K", "statistics still render")
}

func TestCausesPage(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(fixture()))

	rec := get(t, mux, "/causes?category=healthcare&view=list", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 campaign found")
	assert.Contains(t, body, "Category: Healthcare")
	assert.Contains(t, body, `class="campaign-list"`)
	assert.Contains(t, body, `<option value="healthcare" selected>`)
	assert.NotContains(t, body, "Load More Campaigns")
}

func TestCausesPageLoadError(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(failingSource())

	rec := get(t, mux, "/causes?search=water", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Unable to load campaigns")
	assert.Contains(t, body, `hx-get="/fragments/campaigns?search=water"`)
}

func TestFragmentLoadMore(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(generate(25)))

	rec := get(t, mux, "/fragments/campaigns?page=2", http.Header{"Hx-Request": {"true"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 18, strings.Count(body, "data-campaign-id="))
	assert.Equal(t, "/causes?page=2", rec.Header().Get("HX-Replace-Url"))
	assert.Contains(t, body, `hx-get="/fragments/campaigns?page=3"`)
	assert.Contains(t, body, `hx-swap-oob="true"`)

	rec = get(t, mux, "/fragments/campaigns?page=3", nil)
	assert.Equal(t, 25, strings.Count(rec.Body.String(), "data-campaign-id="))
	assert.NotContains(t, rec.Body.String(), "Load More Campaigns")
}

func TestFragmentFilterFormResetsPage(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(generate(25)))

	header := http.Header{
		"Hx-Request":     {"true"},
		"Hx-Current-Url": {"http://localhost/causes?page=2&view=list"},
	}
	rec := get(t, mux, "/fragments/campaigns?event=filter&search=&category=education&sort=recent", header)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/causes?category=education&view=list", rec.Header().Get("HX-Replace-Url"))
	assert.NotContains(t, rec.Body.String(), `hx-swap-oob`, "the form keeps its own inputs")
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "data-campaign-id="))
}

func TestFragmentEmptyState(t *testing.T) {
	t.Parallel()
	_, mux := newTestHandler(staticSource(fixture()))

	rec := get(t, mux, "/fragments/campaigns?search=zzz", nil)
	body := rec.Body.String()
	assert.Contains(t, body, "No campaigns found")
	assert.Contains(t, body, `Search: &#34;zzz&#34;`)
	assert.Contains(t, body, `hx-get="/fragments/campaigns"`, "clear returns to defaults")
}

func TestCampaignPage(t *testing.T) {
	t.Parallel()
	campaigns := fixture()
	campaigns[0].Description = "## About\n\nHelp **children** learn."
	campaigns[0].Deadline = refNow.AddDate(0, 0, 30)
	_, mux := newTestHandler(staticSource(campaigns))

	rec := get(t, mux, "/campaigns/education-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>children</strong>")
	assert.Contains(t, body, "₹45,000")
	assert.Contains(t, body, "30 days left")
	assert.Contains(t, body, `hx-get="/campaigns/education-001/donate"`)

	rec = get(t, mux, "/campaigns/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Help children learn.", Excerpt("# Title\n\nHelp **children**\nlearn.\n\nMore.", 140))
	assert.Equal(t, "one two…", Excerpt("one two three", 9))
	assert.Equal(t, "", Excerpt("", 10))
}

func TestCampaignViewEndedAgreesWithTimeLeft(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(staticSource(nil))

	testCases := []struct {
		name     string
		deadline time.Time
		ended    bool
		timeLeft string
	}{
		{"an hour past the deadline", refNow.Add(-time.Hour), true, "Campaign ended"},
		{"a day past the deadline", refNow.Add(-25 * time.Hour), true, "Campaign ended"},
		{"closes in an hour", refNow.Add(time.Hour), false, "1 day left"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := h.campaignToView(Campaign{ID: "c", Goal: 100, Deadline: tc.deadline})
			assert.Equal(t, tc.ended, v.Ended)
			assert.Equal(t, tc.timeLeft, v.TimeLeft)
		})
	}
}
