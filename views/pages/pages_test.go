package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/views/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func detail(ended bool) models.CampaignDetailView {
	return models.CampaignDetailView{
		Campaign: models.CampaignView{
			ID:           "education-001",
			URL:          "/campaigns/education-001",
			Title:        "Books & Bags for Rural Schools",
			Category:     "education",
			CategoryName: "Education",
			Location:     "Pune, Maharashtra",
			Organizer:    "Shiksha Trust",
			Raised:       "₹45,000",
			Goal:         "₹1,00,000",
			Percentage:   45,
			Donors:       "120",
			TimeLeft:     "Campaign ended",
			Created:      "Mar 1, 2025",
			Ended:        ended,
		},
		DescriptionHTML: "<p>Help <strong>children</strong> learn.</p>",
		Deadline:        "Apr 30, 2025",
		FormURL:         "/campaigns/education-001/donate",
	}
}

func TestCampaignPageEscapesTextAndKeepsDescriptionHTML(t *testing.T) {
	t.Parallel()

	body := render(t, CampaignPage(detail(false)))

	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, "<title>Books &amp; Bags for Rural Schools | HopeFund</title>")
	assert.Contains(t, body, "<h1>Books &amp; Bags for Rural Schools</h1>")
	assert.Contains(t, body, "<strong>children</strong>", "description is trusted HTML")
	assert.Contains(t, body, "Pune, Maharashtra &middot; by Shiksha Trust &middot; Mar 1, 2025")
	assert.Contains(t, body, `class="badge badge--education"`)
	assert.Contains(t, body, `style="width: 45%;"`)
	assert.Contains(t, body, `hx-get="/campaigns/education-001/donate"`)
	assert.NotContains(t, body, "This campaign has ended.")
}

func TestCampaignPageEndedHidesDonateForm(t *testing.T) {
	t.Parallel()

	body := render(t, CampaignPage(detail(true)))

	assert.Contains(t, body, "This campaign has ended.")
	assert.NotContains(t, body, `hx-get="/campaigns/education-001/donate"`)
}

func TestLayoutLinksContactPage(t *testing.T) {
	t.Parallel()

	body := render(t, NotFoundPage("Campaign not found"))

	assert.Contains(t, body, `<a href="/contact">Contact</a>`)
	assert.Contains(t, body, "<p>Campaign not found</p>")
	assert.Contains(t, body, `id="toast-container"`)
}

func TestContactPageScopesErrorsToFields(t *testing.T) {
	t.Parallel()

	body := render(t, ContactPage(models.ContactFormView{
		Action:  "/contact",
		Email:   "not-an-email",
		Subject: "other",
		Subjects: []models.OptionView{
			{Value: "general", Label: "General Inquiry"},
			{Value: "other", Label: "Other", Selected: true},
		},
		Errors: map[string]string{
			"name":  "Full Name is required",
			"email": "Please enter a valid email address",
		},
	}))

	assert.Contains(t, body, `<p id="contact-name-error" class="field__error">Full Name is required</p>`)
	assert.Contains(t, body, `<p id="contact-email-error" class="field__error">Please enter a valid email address</p>`)
	assert.Contains(t, body, `aria-describedby="contact-email-error"`)
	assert.NotContains(t, body, "contact-phone-error")
	assert.Contains(t, body, `<option value="other" selected>Other</option>`)
	assert.Contains(t, body, `value="not-an-email"`)
	assert.NotContains(t, body, "Thanks for reaching out")
}
