// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package datasource

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/models"
)

type stubFetcher struct {
	calls     atomic.Int32
	err       error
	countries models.CountryDistribution
	groups    []models.CanaryGroup
}

func (f *stubFetcher) Countries(context.Context) (models.CountryDistribution, error) {
	f.calls.Add(1)
	return f.countries, f.err
}

func (f *stubFetcher) CanaryGroups(context.Context, string) ([]models.CanaryGroup, error) {
	f.calls.Add(1)
	return f.groups, f.err
}

func TestFallbackSourceUsesBackend(t *testing.T) {
	t.Parallel()

	want := models.CountryDistribution{Countries: []models.CountryShare{{Country: "India", Percent: 100}}}
	src := NewFallbackSource(&stubFetcher{countries: want}, NewSynthesizer(rand.NewPCG(1, 2)))

	got := src.FetchDistribution(context.Background())
	if len(got.Countries) != 1 || got.Countries[0].Country != "India" {
		t.Errorf("FetchDistribution() = %+v, want backend data", got)
	}
}

func TestFallbackSourceSynthesizesOnError(t *testing.T) {
	t.Parallel()

	src := NewFallbackSource(&stubFetcher{err: errors.New("connection refused")}, NewSynthesizer(rand.NewPCG(1, 2)))

	d := src.FetchDistribution(context.Background())
	if len(d.Countries) != len(SyntheticCountries) {
		t.Errorf("fallback distribution has %d countries, want %d", len(d.Countries), len(SyntheticCountries))
	}

	groups := src.FetchCanaryGroups(context.Background(), "Singapore")
	if len(groups) != 3 || groups[2].Name != "sg-payment-gateway" {
		t.Errorf("fallback groups = %+v", groups)
	}
}

func TestFallbackSourceNilFetcher(t *testing.T) {
	t.Parallel()

	src := NewFallbackSource(nil, NewSynthesizer(rand.NewPCG(3, 4)))
	if groups := src.FetchCanaryGroups(context.Background(), "Brazil"); groups[0].Name != "br-mobile-banking" {
		t.Errorf("unexpected groups %+v", groups)
	}
}

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:      true,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// TestCircuitBreaker_OpensAfterFailures verifies the breaker opens and then
// rejects calls without reaching the backend.
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{err: errors.New("simulated backend failure")}
	cbc := NewCircuitBreakerClient(stub, testBreakerConfig())

	if cbc.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", cbc.State())
	}

	for i := 0; i < 3; i++ {
		if _, err := cbc.Countries(context.Background()); err == nil {
			t.Fatal("expected failure")
		}
	}
	if cbc.State() != gobreaker.StateOpen {
		t.Fatalf("state after 3/3 failures = %v, want open", cbc.State())
	}

	_, err := cbc.CanaryGroups(context.Background(), "Ireland")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error while open = %v, want ErrOpenState", err)
	}
	if n := stub.calls.Load(); n != 3 {
		t.Errorf("backend calls = %d, want 3 (open circuit must not call through)", n)
	}
}

func TestCircuitBreaker_IgnoresCanceledCalls(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{err: fmt.Errorf("fetch countries: %w", context.Canceled)}
	cbc := NewCircuitBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 5; i++ {
		if _, err := cbc.Countries(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: error = %v, want context.Canceled", i, err)
		}
	}
	if cbc.State() != gobreaker.StateClosed {
		t.Errorf("state after canceled calls = %v, want closed", cbc.State())
	}
	if n := stub.calls.Load(); n != 5 {
		t.Errorf("backend calls = %d, want 5", n)
	}
}

func TestCircuitBreakerPassesResults(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(rand.NewPCG(5, 6))
	stub := &stubFetcher{groups: synth.CanaryGroups("India")}
	cbc := NewCircuitBreakerClient(stub, testBreakerConfig())

	groups, err := cbc.CanaryGroups(context.Background(), "India")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 || groups[1].Name != "in-upi-services" {
		t.Errorf("unexpected groups %+v", groups)
	}
}

// TestEndToEndFallbackThroughBreaker wires the production stack against a
// failing backend and checks the dashboard still receives usable data.
func TestEndToEndFallbackThroughBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.DatasourceConfig{APIBaseURL: server.URL, Timeout: time.Second})
	src := NewFallbackSource(NewCircuitBreakerClient(client, testBreakerConfig()), NewSynthesizer(rand.NewPCG(7, 8)))

	for i := 0; i < 5; i++ {
		if groups := src.FetchCanaryGroups(context.Background(), "Singapore"); len(groups) != 3 {
			t.Fatalf("call %d: got %d groups, want 3 synthetic groups", i, len(groups))
		}
	}
	if n := hits.Load(); n != 3 {
		t.Errorf("backend hits = %d, want 3 before the breaker opened", n)
	}
}
