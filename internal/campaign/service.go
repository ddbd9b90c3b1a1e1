package campaign

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// finder is implemented by sources that can look a campaign up directly.
type finder interface {
	FindByID(ctx context.Context, id string) (*Campaign, error)
}

type Service struct {
	src     Source
	timeout time.Duration
	md      goldmark.Markdown
}

func NewService(src Source, timeout time.Duration) *Service {
	return &Service{
		src:     src,
		timeout: timeout,
		md:      goldmark.New(),
	}
}

// load fetches the collection under the configured timeout
func (s *Service) load(ctx context.Context) ([]Campaign, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	campaigns, err := s.src.Campaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	return campaigns, nil
}

// List computes the listing for a page state
func (s *Service) List(ctx context.Context, state State) (Listing, error) {
	campaigns, err := s.load(ctx)
	if err != nil {
		return Listing{State: state}, err
	}
	return Compute(campaigns, state), nil
}

// Featured returns up to n campaigns for the home page, urgent ones first
func (s *Service) Featured(ctx context.Context, n int) ([]Campaign, error) {
	campaigns, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	Sort(campaigns, SortUrgent)
	if n > 0 && len(campaigns) > n {
		campaigns = campaigns[:n]
	}
	return campaigns, nil
}

// Get retrieves a campaign by ID
func (s *Service) Get(ctx context.Context, id string) (*Campaign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCampaignNotFound
	}
	if f, ok := s.src.(finder); ok {
		return f.FindByID(ctx, id)
	}

	campaigns, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		if campaigns[i].ID == id {
			return &campaigns[i], nil
		}
	}
	return nil, ErrCampaignNotFound
}

// RenderMarkdown converts a campaign description to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return html.EscapeString(content)
	}
	return buf.String()
}
