// Package stats provides the platform-wide figures shown on the home page.
package stats

import (
	"context"
	"log/slog"
)

// Statistics are the headline counters.
type Statistics struct {
	LivesImpacted    int64 `json:"livesImpacted"`
	TotalDonations   int64 `json:"totalDonations"`
	ActiveCampaigns  int64 `json:"activeCampaigns"`
	CountriesReached int64 `json:"countriesReached"`
}

// Demo figures served until a real backend exists.
var Demo = Statistics{
	LivesImpacted:    12547,
	TotalDonations:   23456789,
	ActiveCampaigns:  156,
	CountriesReached: 89,
}

// Fallback is shown when loading fails.
var Fallback = Statistics{
	LivesImpacted:    10000,
	TotalDonations:   20000000,
	ActiveCampaigns:  100,
	CountriesReached: 50,
}

// Source loads statistics.
type Source interface {
	Load(ctx context.Context) (Statistics, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Statistics, error)

func (f SourceFunc) Load(ctx context.Context) (Statistics, error) {
	return f(ctx)
}

// Static always returns the same figures.
func Static(s Statistics) Source {
	return SourceFunc(func(context.Context) (Statistics, error) {
		return s, nil
	})
}

type Service struct {
	src Source
	log *slog.Logger
}

func NewService(src Source, log *slog.Logger) *Service {
	return &Service{src: src, log: log}
}

// Get never fails: a load error is logged and Fallback returned. The boolean
// reports whether the figures are live.
func (s *Service) Get(ctx context.Context) (Statistics, bool) {
	st, err := s.src.Load(ctx)
	if err != nil {
		s.log.Warn("failed to load statistics, using fallback", "error", err)
		return Fallback, false
	}
	return st, true
}
