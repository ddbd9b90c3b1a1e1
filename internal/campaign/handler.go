package campaign

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"hopefund/internal/format"
	"hopefund/internal/stats"
	"hopefund/internal/web"
	"hopefund/views/components"
	"hopefund/views/models"
	"hopefund/views/pages"
)

const (
	causesPath    = "/causes"
	fragmentPath  = "/fragments/campaigns"
	featuredCount = 3
	excerptLength = 140
)

const loadErrorMessage = "Something went wrong while loading campaigns. Please try again."

type Handler struct {
	svc   *Service
	stats *stats.Service
	log   *slog.Logger
	now   func() time.Time
}

func NewHandler(svc *Service, st *stats.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, stats: st, log: log, now: time.Now}
}

// --- REST API Handlers ---

type listResponse struct {
	Campaigns []Campaign `json:"campaigns"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	HasMore   bool       `json:"hasMore"`
	Next      string     `json:"next,omitempty"`
}

// ListCampaigns handles GET /api/campaigns
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.List(r.Context(), ParseQuery(r.URL.Query()))
	if err != nil {
		h.log.Error("failed to list campaigns", "error", err)
		web.JSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := listResponse{
		Campaigns: listing.Visible,
		Total:     listing.Total(),
		Page:      listing.State.Page,
		HasMore:   listing.HasMore,
	}
	if resp.Campaigns == nil {
		resp.Campaigns = []Campaign{}
	}
	if listing.HasMore {
		resp.Next = listing.NextState().URL("/api/campaigns")
	}
	web.JSON(w, resp, http.StatusOK)
}

// GetCampaign handles GET /api/campaigns/{id}
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrCampaignNotFound) {
		web.JSONError(w, "campaign not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get campaign", "error", err)
		web.JSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	web.JSON(w, c, http.StatusOK)
}

// GetStats handles GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	st, _ := h.stats.Get(r.Context())
	web.JSON(w, st, http.StatusOK)
}

// --- HTMX Web Handlers ---

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		pages.NotFoundPage("The page you are looking for does not exist.").Render(r.Context(), w)
		return
	}

	var (
		st       stats.Statistics
		featured []Campaign
		loadErr  error
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		st, _ = h.stats.Get(ctx)
		return nil
	})
	g.Go(func() error {
		featured, loadErr = h.svc.Featured(ctx, featuredCount)
		return nil
	})
	_ = g.Wait()

	view := models.HomeView{Stats: statsView(st)}
	if loadErr != nil {
		h.log.Error("failed to load featured campaigns", "error", loadErr)
		view.FeaturedError = loadErrorMessage
	} else {
		view.Featured = h.campaignsToViews(featured)
	}
	pages.HomePage(view).Render(r.Context(), w)
}

// CausesPage handles GET /causes
func (h *Handler) CausesPage(w http.ResponseWriter, r *http.Request) {
	state := ParseQuery(r.URL.Query())
	pages.CausesPage(h.listingView(r.Context(), state).ListingView).Render(r.Context(), w)
}

// CampaignsFragment handles GET /fragments/campaigns (HTMX partial). Links
// carry a complete state; the filter form only carries its controls, which
// are diffed against the page URL to work out what changed.
func (h *Handler) CampaignsFragment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromForm := q.Get("event") == "filter"

	var state State
	if fromForm {
		state = currentState(r)
		for _, e := range FormEvents(state, q) {
			state = Reduce(state, e)
		}
	} else {
		state = ParseQuery(q)
	}

	view := h.listingView(r.Context(), state)
	if view.Error == "" {
		w.Header().Set("HX-Replace-Url", view.pageURL)
	}
	components.CampaignResults(view.ListingView).Render(r.Context(), w)
	if !fromForm && web.IsHTMX(r) {
		components.FilterBarSwap(view.ListingView).Render(r.Context(), w)
	}
}

// CampaignPage handles GET /campaigns/{id}
func (h *Handler) CampaignPage(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrCampaignNotFound) {
		w.WriteHeader(http.StatusNotFound)
		pages.NotFoundPage("We couldn't find that campaign.").Render(r.Context(), w)
		return
	}
	if err != nil {
		h.log.Error("failed to get campaign", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		pages.ErrorPage(loadErrorMessage).Render(r.Context(), w)
		return
	}

	view := models.CampaignDetailView{
		Campaign:        h.campaignToView(*c),
		DescriptionHTML: h.svc.RenderMarkdown(c.Description),
		FormURL:         "/campaigns/" + url.PathEscape(c.ID) + "/donate",
	}
	if !c.Deadline.IsZero() {
		view.Deadline = c.Deadline.Format("2 January 2006")
	}
	pages.CampaignPage(view).Render(r.Context(), w)
}

// currentState reads the listing state from the page URL HTMX reports.
func currentState(r *http.Request) State {
	u, err := url.Parse(r.Header.Get("HX-Current-URL"))
	if err != nil {
		return NewState()
	}
	return ParseQuery(u.Query())
}

// --- View model converters ---

type listingView struct {
	models.ListingView
	pageURL string
}

func (h *Handler) listingView(ctx context.Context, state State) listingView {
	listing, err := h.svc.List(ctx, state)
	if err != nil {
		h.log.Error("failed to list campaigns", "error", err)
		v := controlsView(state)
		v.Error = loadErrorMessage
		v.RetryURL = state.URL(fragmentPath)
		return listingView{ListingView: v, pageURL: state.URL(causesPath)}
	}

	s := listing.State
	v := controlsView(s)
	v.Campaigns = h.campaignsToViews(listing.Visible)
	v.ResultsText = listing.ResultsText()
	v.HasMore = listing.HasMore
	v.RetryURL = s.URL(fragmentPath)
	if listing.HasMore {
		v.NextURL = listing.NextState().URL(fragmentPath)
	}
	for _, t := range listing.Tags {
		v.Tags = append(v.Tags, models.TagView{
			Label:     t.Label,
			RemoveURL: Reduce(s, Event{Kind: RemoveFilter, Value: t.Type}).URL(fragmentPath),
		})
	}
	return listingView{ListingView: v, pageURL: s.URL(causesPath)}
}

// controlsView fills the parts of the listing that depend only on state.
func controlsView(s State) models.ListingView {
	v := models.ListingView{
		Search:     s.Filters.Search,
		ListLayout: s.View == ViewList,
		ClearURL:   Reduce(s, Event{Kind: ClearFilters}).URL(fragmentPath),
	}
	for _, c := range Categories {
		v.Categories = append(v.Categories, models.OptionView{
			Value:    string(c),
			Label:    c.DisplayName(),
			Selected: c == s.Filters.Category,
		})
	}
	for _, k := range SortKeys {
		v.Sorts = append(v.Sorts, models.OptionView{
			Value:    string(k),
			Label:    k.Label(),
			Selected: k == s.Filters.Sort,
		})
	}
	for _, view := range []View{ViewGrid, ViewList} {
		v.Views = append(v.Views, models.OptionView{
			Value:    string(view),
			Label:    strings.ToUpper(string(view[:1])) + string(view[1:]),
			URL:      Reduce(s, Event{Kind: ViewChanged, Value: string(view)}).URL(fragmentPath),
			Selected: view == s.View || (s.View == "" && view == ViewGrid),
		})
	}
	return v
}

func (h *Handler) campaignsToViews(campaigns []Campaign) []models.CampaignView {
	views := make([]models.CampaignView, len(campaigns))
	for i, c := range campaigns {
		views[i] = h.campaignToView(c)
	}
	return views
}

func (h *Handler) campaignToView(c Campaign) models.CampaignView {
	now := h.now()
	return models.CampaignView{
		ID:           c.ID,
		URL:          "/campaigns/" + url.PathEscape(c.ID),
		Title:        c.Title,
		Excerpt:      Excerpt(c.Description, excerptLength),
		Image:        c.Image,
		Category:     string(c.Category),
		CategoryName: c.Category.DisplayName(),
		Location:     c.Location,
		Organizer:    c.OrganizerName,
		Raised:       format.Currency(c.Raised),
		Goal:         format.Currency(c.Goal),
		Percentage:   Percentage(c.Raised, c.Goal),
		Donors:       format.Number(float64(c.DonorsCount)),
		TimeLeft:     format.TimeLeft(c.Deadline, now),
		Created:      format.RelativeTime(c.CreatedAt, now),
		Urgent:       c.Urgent,
		Ended:        c.Ended(now),
	}
}

func statsView(s stats.Statistics) models.StatsView {
	return models.StatsView{
		LivesImpacted:    format.Number(float64(s.LivesImpacted)),
		TotalDonations:   "₹" + format.Number(float64(s.TotalDonations)),
		ActiveCampaigns:  format.Number(float64(s.ActiveCampaigns)),
		CountriesReached: format.Number(float64(s.CountriesReached)),
	}
}

// Excerpt returns the first paragraph of a markdown description as plain
// text, cut at a word boundary to at most n runes.
func Excerpt(markdown string, n int) string {
	var para string
	for _, block := range strings.Split(markdown, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		para = block
		break
	}
	para = strings.Join(strings.Fields(strings.NewReplacer("*", "", "_", "", "`", "").Replace(para)), " ")
	if utf8.RuneCountInString(para) <= n {
		return para
	}
	cut := string([]rune(para)[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",.;:") + "…"
}
