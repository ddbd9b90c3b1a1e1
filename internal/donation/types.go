package donation

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PresetAmounts are the quick-pick buttons on the donation form, in rupees.
var PresetAmounts = []int64{500, 1000, 2000, 5000}

// Status of a stored donation.
type Status string

const (
	StatusCompleted Status = "completed"
)

// Donation is a confirmed gift to a campaign.
type Donation struct {
	ID            string    `bson:"_id" json:"id"`
	CampaignID    string    `bson:"campaign_id" json:"campaignId"`
	CampaignTitle string    `bson:"campaign_title" json:"campaignTitle"`
	Amount        int64     `bson:"amount" json:"amount"`
	DonorName     string    `bson:"donor_name" json:"donorName"`
	DonorEmail    string    `bson:"donor_email" json:"donorEmail"`
	DonorPhone    string    `bson:"donor_phone,omitempty" json:"donorPhone,omitempty"`
	Anonymous     bool      `bson:"anonymous" json:"anonymous"`
	TransactionID string    `bson:"transaction_id" json:"transactionId"`
	Status        Status    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// Input is a submitted donation form.
type Input struct {
	CampaignID   string
	Amount       int64
	DonorName    string
	DonorEmail   string
	DonorPhone   string
	Anonymous    bool
	PaymentToken string
}

// ParseForm reads the donation form. A non-empty custom amount overrides the
// selected preset; anything that is not a whole number of rupees reads as 0.
func ParseForm(campaignID string, form url.Values) Input {
	amount := parseAmount(form.Get("amount"))
	if custom := strings.TrimSpace(form.Get("custom_amount")); custom != "" {
		amount = parseAmount(custom)
	}
	return Input{
		CampaignID:   campaignID,
		Amount:       amount,
		DonorName:    strings.TrimSpace(form.Get("name")),
		DonorEmail:   strings.TrimSpace(form.Get("email")),
		DonorPhone:   strings.TrimSpace(form.Get("phone")),
		Anonymous:    form.Get("anonymous") == "on" || form.Get("anonymous") == "true",
		PaymentToken: form.Get("payment_token"),
	}
}

func parseAmount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Values renders in back into form values so a rejected form can be shown
// again with what the donor typed.
func (in Input) Values() url.Values {
	v := url.Values{}
	if in.Amount > 0 {
		v.Set("amount", strconv.FormatInt(in.Amount, 10))
	}
	v.Set("name", in.DonorName)
	v.Set("email", in.DonorEmail)
	v.Set("phone", in.DonorPhone)
	if in.Anonymous {
		v.Set("anonymous", "on")
	}
	return v
}
