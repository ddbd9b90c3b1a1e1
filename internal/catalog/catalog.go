// Package catalog reads campaign collections from YAML, either embedded in the
// binary or from a file that is reloaded when it changes.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hopefund/internal/campaign"
)

//go:embed data/campaigns.yaml
var demoYAML []byte

var (
	ErrMissingID       = errors.New("campaign id is required")
	ErrDuplicateID     = errors.New("duplicate campaign id")
	ErrUnknownCategory = errors.New("unknown campaign category")
)

const day = 24 * time.Hour

// File is the on-disk document shape.
type File struct {
	Campaigns []Record `yaml:"campaigns"`
}

// Record is one campaign as written in YAML. Dates are either absolute or relative
// to load time; absolute dates win when both are present.
type Record struct {
	ID             string     `yaml:"id"`
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	Image          string     `yaml:"image"`
	Category       string     `yaml:"category"`
	Raised         Amount     `yaml:"raised"`
	Goal           Amount     `yaml:"goal"`
	DonorsCount    int        `yaml:"donors_count"`
	Deadline       *time.Time `yaml:"deadline"`
	DeadlineInDays int        `yaml:"deadline_in_days"`
	CreatedAt      *time.Time `yaml:"created_at"`
	CreatedDaysAgo int        `yaml:"created_days_ago"`
	Urgent         bool       `yaml:"urgent"`
	Location       string     `yaml:"location"`
	Organizer      string     `yaml:"organizer"`
}

// Amount is a money value that tolerates malformed input: anything that does not
// parse as a finite, non-negative number decodes as 0 so the campaign renders with
// no progress instead of failing the whole catalog.
type Amount float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	raw := strings.ReplaceAll(strings.TrimSpace(value.Value), ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// Parse decodes a YAML catalog, resolving relative dates against now.
func Parse(data []byte, now time.Time) ([]campaign.Campaign, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Campaigns))
	out := make([]campaign.Campaign, 0, len(f.Campaigns))
	for i, r := range f.Campaigns {
		c, err := r.toCampaign(now)
		if err != nil {
			return nil, fmt.Errorf("campaign %d: %w", i, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("campaign %q: %w", c.ID, ErrDuplicateID)
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out, nil
}

func (r Record) toCampaign(now time.Time) (campaign.Campaign, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return campaign.Campaign{}, ErrMissingID
	}
	cat := campaign.Category(strings.ToLower(strings.TrimSpace(r.Category)))
	if !cat.Valid() {
		return campaign.Campaign{}, fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}

	created := now.Add(-time.Duration(r.CreatedDaysAgo) * day)
	if r.CreatedAt != nil {
		created = *r.CreatedAt
	}
	deadline := now.Add(time.Duration(r.DeadlineInDays) * day)
	if r.Deadline != nil {
		deadline = *r.Deadline
	}

	return campaign.Campaign{
		ID:            id,
		Title:         strings.TrimSpace(r.Title),
		Description:   strings.TrimSpace(r.Description),
		Image:         r.Image,
		Category:      cat,
		Raised:        float64(r.Raised),
		Goal:          float64(r.Goal),
		DonorsCount:   max(r.DonorsCount, 0),
		Deadline:      deadline,
		Urgent:        r.Urgent,
		Location:      strings.TrimSpace(r.Location),
		OrganizerName: strings.TrimSpace(r.Organizer),
		CreatedAt:     created,
	}, nil
}

// Demo returns the embedded demo campaigns relative to now.
func Demo(now time.Time) ([]campaign.Campaign, error) {
	return Parse(demoYAML, now)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
