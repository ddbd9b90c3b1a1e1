package donation

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"hopefund/internal/campaign"
	"hopefund/internal/format"
	"hopefund/internal/validate"
	"hopefund/internal/web"
	"hopefund/views/components"
	"hopefund/views/models"
	"hopefund/views/pages"
)

const (
	paymentFailedMessage = "Payment failed. Please try again."
	campaignEndedMessage = "This campaign has ended and is no longer accepting donations."
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// DonateForm handles GET /campaigns/{id}/donate. HTMX requests get the bare
// form; others get it wrapped in a page.
func (h *Handler) DonateForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.campaign(w, r)
	if !ok {
		return
	}
	view := formView(c, Input{}, nil)
	if web.IsHTMX(r) {
		components.DonationForm(view).Render(r.Context(), w)
		return
	}
	pages.DonatePage(view).Render(r.Context(), w)
}

// Donate handles POST /campaigns/{id}/donate
func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := ParseForm(r.PathValue("id"), r.PostForm)

	d, err := h.svc.Submit(r.Context(), in)

	var fieldErrs validate.Errors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		c, ok := h.campaign(w, r)
		if !ok {
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, formView(c, in, fieldErrs))
		return
	case errors.Is(err, campaign.ErrCampaignNotFound):
		h.notFound(w, r)
		return
	case errors.Is(err, ErrCampaignEnded):
		h.log.Info("donation to ended campaign rejected", "campaign", in.CampaignID)
		web.SetToast(w, web.NewToast(campaignEndedMessage, web.ToastWarning))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	case errors.Is(err, ErrCanceled):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, ErrPaymentFailed):
		h.log.Warn("payment failed", "campaign", in.CampaignID, "error", err)
		web.SetToast(w, web.NewToast(paymentFailedMessage, web.ToastError))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	default:
		h.log.Error("failed to process donation", "error", err)
		web.SetToast(w, web.NewToast("Something went wrong. Please try again.", web.ToastError))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	target := ThankYouURL(d)
	if web.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ThankYou handles GET /thank-you. Amount and campaign come from the stored
// transaction when it exists, otherwise from the query. The donor name is
// only ever taken from the query so a guessed txn reveals nothing personal.
func (h *Handler) ThankYou(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := thankYouFromQuery(q)

	if txn := q.Get("txn"); txn != "" {
		d, err := h.svc.Lookup(r.Context(), txn)
		switch {
		case err == nil:
			shown := *d
			shown.DonorName = q.Get("name")
			view = thankYouView(&shown)
		case errors.Is(err, ErrDonationNotFound):
		default:
			h.log.Warn("failed to look up donation", "transaction", txn, "error", err)
		}
	}

	pages.ThankYouPage(view).Render(r.Context(), w)
}

func (h *Handler) campaign(w http.ResponseWriter, r *http.Request) (*campaign.Campaign, bool) {
	c, err := h.svc.Campaign(r.Context(), r.PathValue("id"))
	if errors.Is(err, campaign.ErrCampaignNotFound) {
		h.notFound(w, r)
		return nil, false
	}
	if err != nil {
		h.log.Error("failed to get campaign", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if web.IsHTMX(r) {
		web.SetToast(w, web.NewToast("This campaign is no longer available.", web.ToastWarning))
	}
	w.WriteHeader(http.StatusNotFound)
	pages.NotFoundPage("We couldn't find that campaign.").Render(r.Context(), w)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, v models.DonationFormView) {
	if web.IsHTMX(r) {
		components.DonationForm(v).Render(r.Context(), w)
		return
	}
	pages.DonatePage(v).Render(r.Context(), w)
}

// ThankYouURL is where the donor lands after paying.
func ThankYouURL(d *Donation) string {
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(d.Amount, 10))
	q.Set("campaign", d.CampaignTitle)
	q.Set("campaign_id", d.CampaignID)
	q.Set("txn", d.TransactionID)
	if !d.Anonymous {
		q.Set("name", d.DonorName)
	}
	return "/thank-you?" + q.Encode()
}

// --- View model converters ---

func formView(c *campaign.Campaign, in Input, errs validate.Errors) models.DonationFormView {
	v := models.DonationFormView{
		CampaignID:    c.ID,
		CampaignTitle: c.Title,
		Action:        "/campaigns/" + url.PathEscape(c.ID) + "/donate",
		Name:          in.DonorName,
		Email:         in.DonorEmail,
		Phone:         in.DonorPhone,
		Anonymous:     in.Anonymous,
		Errors:        errs,
	}
	preset := false
	for _, amount := range PresetAmounts {
		selected := amount == in.Amount
		preset = preset || selected
		v.Presets = append(v.Presets, models.OptionView{
			Value:    strconv.FormatInt(amount, 10),
			Label:    format.Currency(float64(amount)),
			Selected: selected,
		})
	}
	if !preset && in.Amount > 0 {
		v.CustomAmount = strconv.FormatInt(in.Amount, 10)
	}
	return v
}

func thankYouView(d *Donation) models.ThankYouView {
	impact := Impact(d.Amount, d.CampaignTitle)
	name := d.DonorName
	if d.Anonymous || name == "" {
		name = "friend"
	}
	campaignURL := "/causes"
	if d.CampaignID != "" {
		campaignURL = "/campaigns/" + url.PathEscape(d.CampaignID)
	}
	return models.ThankYouView{
		DonorName:     name,
		Amount:        format.Currency(float64(d.Amount)),
		CampaignTitle: d.CampaignTitle,
		CampaignURL:   campaignURL,
		TransactionID: d.TransactionID,
		ImpactIcon:    impact.Icon,
		ImpactItems:   impact.Items,
	}
}

func thankYouFromQuery(q url.Values) models.ThankYouView {
	return thankYouView(&Donation{
		Amount:        parseAmount(q.Get("amount")),
		CampaignTitle: q.Get("campaign"),
		CampaignID:    q.Get("campaign_id"),
		DonorName:     q.Get("name"),
		TransactionID: q.Get("txn"),
	})
}
