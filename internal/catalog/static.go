package catalog

import (
	"context"
	"slices"
	"time"

	"hopefund/internal/campaign"
)

// Static serves a fixed campaign collection, optionally after a simulated delay.
type Static struct {
	campaigns []campaign.Campaign
	delay     time.Duration
}

// NewStatic returns a Static source over campaigns.
func NewStatic(campaigns []campaign.Campaign, delay time.Duration) *Static {
	return &Static{campaigns: campaigns, delay: delay}
}

// NewDemo returns a Static source over the embedded demo catalog.
func NewDemo(now time.Time, delay time.Duration) (*Static, error) {
	campaigns, err := Demo(now)
	if err != nil {
		return nil, err
	}
	return NewStatic(campaigns, delay), nil
}

// Campaigns returns a copy of the collection. The simulated delay stops early when
// ctx is cancelled.
func (s *Static) Campaigns(ctx context.Context) ([]campaign.Campaign, error) {
	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}
	return slices.Clone(s.campaigns), nil
}
