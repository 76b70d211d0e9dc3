// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package datasource

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/canarymap/internal/aggregate"
	"github.com/tomtom215/canarymap/internal/models"
)

// checksPerDay is the number of canary probes per API per day (one every five minutes).
const checksPerDay = 288

// maxDailyFailures bounds the synthetic failed probes per day, exclusive.
const maxDailyFailures = 30

// SyntheticCountries are the countries present in a synthetic distribution.
var SyntheticCountries = []string{"United States of America", "Singapore", "Hong Kong", "Ireland"}

// SyntheticAPIs are the APIs every synthetic canary group reports on.
var SyntheticAPIs = []string{"Login", "Register", "GetData", "Update", "Delete"}

var syntheticGroupNames = map[string][]string{
	"Singapore":                {"sg-mobile-app", "sg-online-banking", "sg-payment-gateway"},
	"Hong Kong":                {"hk-mobile-app", "hk-wealth-management", "hk-trading-platform"},
	"United States of America": {"us-retail-banking", "us-credit-card", "us-investment-services"},
	"Ireland":                  {"ie-digital-banking", "ie-loan-services", "ie-customer-portal"},
	"Brazil":                   {"br-mobile-banking", "br-payment-services", "br-digital-wallet"},
	"India":                    {"in-retail-banking", "in-upi-services", "in-mobile-banking"},
}

var defaultGroupNames = []string{"default-service-1", "default-service-2", "default-service-3"}

// Synthesizer produces randomized but well-formed dashboard data. It backs
// both the fallback path and the development mock backend.
//
// Thread Safety: safe for concurrent use; the PRNG is guarded by a mutex.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer creates a Synthesizer drawing from src. Pass a seeded
// rand.NewPCG for reproducible output.
func NewSynthesizer(src rand.Source) *Synthesizer {
	return &Synthesizer{rng: rand.New(src)}
}

// NewRandomSynthesizer creates a Synthesizer with a randomly seeded source.
func NewRandomSynthesizer() *Synthesizer {
	return NewSynthesizer(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Distribution returns shares for SyntheticCountries. Each country draws a
// raw call volume in [200, 1200) and its share is volume/total*100 at two
// decimals, so the shares sum to 100 within rounding.
func (s *Synthesizer) Distribution() models.CountryDistribution {
	s.mu.Lock()
	raw := make([]float64, len(SyntheticCountries))
	var total float64
	for i := range raw {
		raw[i] = math.Floor(s.rng.Float64()*1000 + 200)
		total += raw[i]
	}
	s.mu.Unlock()

	shares := make([]models.CountryShare, len(SyntheticCountries))
	for i, c := range SyntheticCountries {
		shares[i] = models.CountryShare{Country: c, Percent: aggregate.Round2(raw[i] / total * 100)}
	}
	return models.CountryDistribution{Countries: shares}
}

// CanaryGroups returns three groups for country, each with every SyntheticAPI
// over the full series window. Countries without a known group list get
// generic service names.
func (s *Synthesizer) CanaryGroups(country string) []models.CanaryGroup {
	names, ok := syntheticGroupNames[country]
	if !ok {
		names = defaultGroupNames
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]models.CanaryGroup, len(names))
	for g, name := range names {
		apis := make([]models.APISeries, len(SyntheticAPIs))
		for a, api := range SyntheticAPIs {
			apis[a] = models.APISeries{API: api, Daily: s.dailySeries()}
		}
		groups[g] = models.CanaryGroup{Name: name, APIs: apis}
	}
	return groups
}

// dailySeries must be called with s.mu held.
func (s *Synthesizer) dailySeries() []float64 {
	daily := make([]float64, models.SeriesDays)
	for i := range daily {
		failed := s.rng.IntN(maxDailyFailures)
		daily[i] = aggregate.Round2(float64(checksPerDay-failed) / checksPerDay * 100)
	}
	return daily
}
