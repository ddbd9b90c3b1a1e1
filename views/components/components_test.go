package components

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

func TestCampaignCardLayouts(t *testing.T) {
	t.Parallel()

	c := models.CampaignView{
		ID:         "health-001",
		URL:        "/campaigns/health-001",
		Title:      "Emergency Medical Support",
		Category:   "healthcare",
		Percentage: 80,
		Donors:     "1,204",
		TimeLeft:   "Campaign ended",
		Urgent:     true,
		Ended:      true,
	}

	grid := render(t, CampaignCard(c, false))
	assert.True(t, strings.HasPrefix(grid, `<article class="campaign-card" data-campaign-id="health-001">`))
	assert.Contains(t, grid, `<span class="badge badge--urgent">Urgent</span>`)
	assert.Contains(t, grid, `<span class="ended">Campaign ended</span>`)
	assert.Contains(t, grid, `href="/campaigns/health-001#donate"`)
	assert.Contains(t, grid, "1,204 donors")

	list := render(t, CampaignCard(c, true))
	assert.True(t, strings.HasPrefix(list, `<article class="campaign-card campaign-card--list"`))
}

func TestDonationFormFieldErrors(t *testing.T) {
	t.Parallel()

	body := render(t, DonationForm(models.DonationFormView{
		Action:        "/campaigns/health-001/donate",
		CampaignTitle: "Emergency Medical Support",
		Presets:       []models.OptionView{{Value: "500", Label: "₹500", Selected: true}},
		Name:          "Asha Rao",
		Errors:        map[string]string{"amount": "Please select a donation amount", "email": "Please enter a valid email address"},
	}))

	assert.True(t, strings.HasPrefix(body, `<form id="donation-form"`))
	assert.Contains(t, body, `<input type="radio" name="amount" value="500" checked>`)
	assert.Contains(t, body, `<p id="donor-amount-error" class="field__error">Please select a donation amount</p>`)
	assert.Contains(t, body, `<div class="field field--error"><label for="donor-email">Email</label>`)
	assert.Contains(t, body, `<div class="field"><label for="donor-name">Full name</label>`)
	assert.Contains(t, body, `value="Asha Rao"`)
	assert.NotContains(t, body, "donor-phone-error")
}

func TestContactFormSent(t *testing.T) {
	t.Parallel()

	body := render(t, ContactForm(models.ContactFormView{Action: "/contact", Sent: true}))

	assert.True(t, strings.HasPrefix(body, `<form id="contact-form"`))
	assert.Contains(t, body, "Thanks for reaching out")
	assert.Contains(t, body, `hx-post="/contact"`)
	assert.NotContains(t, body, "field__error")
}
