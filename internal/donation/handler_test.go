package donation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/internal/campaign"
	"hopefund/internal/web"
)

type campaignMap map[string]campaign.Campaign

func (m campaignMap) Get(_ context.Context, id string) (*campaign.Campaign, error) {
	c, ok := m[id]
	if !ok {
		return nil, campaign.ErrCampaignNotFound
	}
	return &c, nil
}

type tally struct {
	mu    sync.Mutex
	calls map[string]int64
	err   error
}

func (t *tally) RecordDonation(_ context.Context, id string, amount int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.calls == nil {
		t.calls = map[string]int64{}
	}
	t.calls[id] += amount
	return t.err
}

type failingStore struct{ *MemoryStore }

func (failingStore) Save(context.Context, *Donation) error {
	return errors.New("write concern failed")
}

var testCampaigns = campaignMap{
	"healthcare-002": {ID: "healthcare-002", Title: "Emergency Medical Support", Category: campaign.CategoryHealthcare},
	"closed-001": {
		ID:       "closed-001",
		Title:    "Winter Blanket Drive",
		Category: campaign.CategoryCommunity,
		Deadline: time.Now().Add(-time.Hour),
	},
}

type fixture struct {
	svc   *Service
	store *MemoryStore
	tally *tally
	mux   *http.ServeMux
}

func newFixture(store Store) *fixture {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := NewMemoryStore()
	if store == nil {
		store = mem
	}
	tl := &tally{}
	svc := NewService(testCampaigns, &TestProcessor{DeclineAbove: 10000}, store, tl, log)
	h := NewHandler(svc, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /campaigns/{id}/donate", h.DonateForm)
	mux.HandleFunc("POST /campaigns/{id}/donate", h.Donate)
	mux.HandleFunc("GET /thank-you", h.ThankYou)
	return &fixture{svc: svc, store: mem, tally: tl, mux: mux}
}

func (f *fixture) post(t *testing.T, id string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/campaigns/"+id+"/donate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func donorForm(amount string) url.Values {
	return url.Values{
		"amount": {amount},
		"name":   {"Asha Rao"},
		"email":  {"Asha@Example.com"},
	}
}

func toast(t *testing.T, rec *httptest.ResponseRecorder) web.Toast {
	t.Helper()
	var trigger map[string]web.Toast
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	return trigger["showToast"]
}

func TestSubmitRecordsDonation(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	d, err := f.svc.Submit(context.Background(), Input{
		CampaignID: "healthcare-002",
		Amount:     2000,
		DonorName:  "Asha Rao",
		DonorEmail: "Asha@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", d.DonorEmail)
	assert.Equal(t, StatusCompleted, d.Status)
	assert.Equal(t, "Emergency Medical Support", d.CampaignTitle)
	assert.NotEmpty(t, d.ID)
	assert.WithinDuration(t, time.Now(), d.CreatedAt, time.Minute)

	stored, err := f.svc.Lookup(context.Background(), d.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, stored.ID)
	assert.Equal(t, int64(2000), f.tally.calls["healthcare-002"])
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)
	ctx := context.Background()

	valid := Input{CampaignID: "healthcare-002", Amount: 500, DonorName: "A", DonorEmail: "a@b.co"}

	missing := valid
	missing.CampaignID = "nope"
	_, err := f.svc.Submit(ctx, missing)
	assert.ErrorIs(t, err, campaign.ErrCampaignNotFound)

	canceled := valid
	canceled.PaymentToken = CanceledToken
	_, err = f.svc.Submit(ctx, canceled)
	assert.ErrorIs(t, err, ErrCanceled)

	declined := valid
	declined.Amount = 50000
	_, err = f.svc.Submit(ctx, declined)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.ErrorIs(t, err, ErrDeclined)

	ended := valid
	ended.CampaignID = "closed-001"
	_, err = f.svc.Submit(ctx, ended)
	assert.ErrorIs(t, err, ErrCampaignEnded)

	assert.Empty(t, f.tally.calls, "nothing is tallied for failed attempts")
	assert.Empty(t, f.store.donations, "nothing is stored for failed attempts")
}

func TestSubmitSucceedsWhenStorageFails(t *testing.T) {
	t.Parallel()
	f := newFixture(failingStore{NewMemoryStore()})

	d, err := f.svc.Submit(context.Background(), Input{CampaignID: "healthcare-002", Amount: 500, DonorName: "A", DonorEmail: "a@b.co"})
	require.NoError(t, err)
	assert.NotEmpty(t, d.TransactionID)
}

func TestDonateRedirectsToThankYou(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	rec := f.post(t, "healthcare-002", donorForm("1000"))
	require.Equal(t, http.StatusOK, rec.Code)

	target, err := url.Parse(rec.Header().Get("HX-Redirect"))
	require.NoError(t, err)
	assert.Equal(t, "/thank-you", target.Path)
	assert.Equal(t, "1000", target.Query().Get("amount"))
	assert.Equal(t, "Emergency Medical Support", target.Query().Get("campaign"))
	assert.Regexp(t, `^HF\d{8}[0-9A-Z]{4}$`, target.Query().Get("txn"))

	req := httptest.NewRequest(http.MethodGet, target.String(), nil)
	page := httptest.NewRecorder()
	f.mux.ServeHTTP(page, req)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Thank you, Asha Rao!")
	assert.Contains(t, body, "₹1,000")
	assert.Contains(t, body, "Provide medical checkups for 5 people")
	assert.Contains(t, body, target.Query().Get("txn"))
}

func TestDonateValidationErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	form := donorForm("")
	form.Set("email", "not-an-email")
	rec := f.post(t, "healthcare-002", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please select a donation amount")
	assert.Contains(t, body, "Please enter a valid email address")
	assert.Contains(t, body, `value="Asha Rao"`, "typed values are kept")
	assert.Empty(t, rec.Header().Get("HX-Redirect"))
}

func TestDonateCanceledIsSilent(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	form := donorForm("500")
	form.Set("payment_token", CanceledToken)
	rec := f.post(t, "healthcare-002", form)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
	assert.Empty(t, rec.Body.String())
}

func TestDonatePaymentFailureShowsToast(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	rec := f.post(t, "healthcare-002", donorForm("50000"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	got := toast(t, rec)
	assert.Equal(t, web.ToastError, got.Type)
	assert.Equal(t, "Payment failed. Please try again.", got.Message)
}

func TestDonateEndedCampaignShowsToast(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	rec := f.post(t, "closed-001", donorForm("500"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	got := toast(t, rec)
	assert.Equal(t, web.ToastWarning, got.Type)
	assert.Contains(t, got.Message, "no longer accepting donations")
}

func TestDonateUnknownCampaign(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	rec := f.post(t, "missing", donorForm("500"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, web.ToastWarning, toast(t, rec).Type)
}

func TestDonateForm(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/healthcare-002/donate", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<form"), "HTMX gets the bare form")
	for _, amount := range []string{"₹500", "₹1,000", "₹2,000", "₹5,000"} {
		assert.Contains(t, body, amount)
	}
}

func TestThankYouAnonymous(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/thank-you?amount=500&campaign=Plant+Trees", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "Thank you, friend!")
	assert.Contains(t, body, "Plant 10 trees")
	assert.Contains(t, body, `href="/causes"`)
}

func TestThankYouNeverShowsStoredDonorName(t *testing.T) {
	t.Parallel()
	f := newFixture(nil)

	d, err := f.svc.Submit(context.Background(), Input{
		CampaignID: "healthcare-002",
		Amount:     2000,
		DonorName:  "Asha Rao",
		DonorEmail: "asha@example.com",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/thank-you?txn="+d.TransactionID, nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "Asha Rao")
	assert.Contains(t, body, "Thank you, friend!")
	assert.Contains(t, body, "₹2,000", "stored amount is used")
	assert.Contains(t, body, "Emergency Medical Support")
}
