// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package datasource

import (
	"context"

	"github.com/tomtom215/canarymap/internal/logging"
	"github.com/tomtom215/canarymap/internal/metrics"
	"github.com/tomtom215/canarymap/internal/models"
)

// Source is the infallible data access used by dashboard sessions.
// Implementations must honour ctx but never surface an error.
type Source interface {
	FetchDistribution(ctx context.Context) models.CountryDistribution
	FetchCanaryGroups(ctx context.Context, country string) []models.CanaryGroup
}

// FallbackSource serves backend data when available and synthetic data otherwise.
type FallbackSource struct {
	fetcher Fetcher
	synth   *Synthesizer
}

// NewFallbackSource creates a Source over fetcher. A nil fetcher serves
// synthetic data unconditionally.
func NewFallbackSource(fetcher Fetcher, synth *Synthesizer) *FallbackSource {
	return &FallbackSource{fetcher: fetcher, synth: synth}
}

// FetchDistribution returns the backend distribution, or a synthetic one on any failure.
func (s *FallbackSource) FetchDistribution(ctx context.Context) models.CountryDistribution {
	if s.fetcher != nil {
		d, err := s.fetcher.Countries(ctx)
		if err == nil {
			logging.Ctx(ctx).Debug().Int("countries", len(d.Countries)).Msg("Country distribution loaded")
			return d
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Backend unavailable, using synthetic country distribution")
	}
	metrics.RecordFallback(EndpointCountries)
	return s.synth.Distribution()
}

// FetchCanaryGroups returns the backend groups for country, or synthetic groups on any failure.
func (s *FallbackSource) FetchCanaryGroups(ctx context.Context, country string) []models.CanaryGroup {
	if s.fetcher != nil {
		groups, err := s.fetcher.CanaryGroups(ctx, country)
		if err == nil {
			logging.Ctx(ctx).Debug().Str("country", country).Int("groups", len(groups)).Msg("Canary groups loaded")
			return groups
		}
		logging.Ctx(ctx).Warn().Err(err).Str("country", country).Msg("Backend unavailable, using synthetic canary groups")
	}
	metrics.RecordFallback(EndpointCanaryGroups)
	return s.synth.CanaryGroups(country)
}
