package models

// CampaignView represents a campaign card for template rendering
type CampaignView struct {
	ID           string
	URL          string
	Title        string
	Excerpt      string
	Image        string
	Category     string
	CategoryName string
	Location     string
	Organizer    string
	Raised       string
	Goal         string
	Percentage   int
	Donors       string
	TimeLeft     string
	Created      string
	Urgent       bool
	Ended        bool
}

// CampaignDetailView is the campaign page
type CampaignDetailView struct {
	Campaign        CampaignView
	DescriptionHTML string
	Deadline        string
	FormURL         string
}

// OptionView is one entry of a select or button group. URL is set for
// options that are links.
type OptionView struct {
	Value    string
	Label    string
	URL      string
	Selected bool
}

// TagView is an active filter chip
type TagView struct {
	Label     string
	RemoveURL string
}

// ListingView is the filtered campaign list with its controls
type ListingView struct {
	Search      string
	Categories  []OptionView
	Sorts       []OptionView
	Views       []OptionView
	Tags        []TagView
	ClearURL    string
	Campaigns   []CampaignView
	ResultsText string
	ListLayout  bool
	HasMore     bool
	NextURL     string
	RetryURL    string
	Error       string
}

// StatsView holds formatted headline numbers
type StatsView struct {
	LivesImpacted    string
	TotalDonations   string
	ActiveCampaigns  string
	CountriesReached string
}

// HomeView is the landing page
type HomeView struct {
	Stats         StatsView
	Featured      []CampaignView
	FeaturedError string
}

// DonationFormView is the donation form with any values and field errors
type DonationFormView struct {
	CampaignID    string
	CampaignTitle string
	Action        string
	Presets       []OptionView
	CustomAmount  string
	Name          string
	Email         string
	Phone         string
	Anonymous     bool
	Errors        map[string]string
}

// ThankYouView is the page shown after a completed donation
type ThankYouView struct {
	DonorName     string
	Amount        string
	CampaignTitle string
	CampaignURL   string
	TransactionID string
	ImpactIcon    string
	ImpactItems   []string
}

// ContactFormView is the contact form with any values and field errors
type ContactFormView struct {
	Action   string
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Subjects []OptionView
	Errors   map[string]string
	Sent     bool
}
