// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package aggregate

import (
	"errors"
	"testing"

	"github.com/tomtom215/canarymap/internal/models"
)

func constantSeries(api string, v float64) models.APISeries {
	daily := make([]float64, models.SeriesDays)
	for i := range daily {
		daily[i] = v
	}
	return models.APISeries{API: api, Daily: daily}
}

func TestOverallAvailability_Constant(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0, 90, 97.5, 99.9, 100} {
		groups := []models.CanaryGroup{
			{Name: "a", APIs: []models.APISeries{constantSeries("Login", v), constantSeries("Register", v)}},
			{Name: "b", APIs: []models.APISeries{constantSeries("GetData", v)}},
		}
		got, err := OverallAvailability(groups)
		if err != nil {
			t.Fatalf("OverallAvailability(%v): %v", v, err)
		}
		if got != v {
			t.Errorf("OverallAvailability of constant %v = %v", v, got)
		}
	}
}

func TestOverallAvailability_FlattensAllValues(t *testing.T) {
	t.Parallel()

	// 1 API at 100 and 3 at 96 → mean 97, not mean of group means.
	groups := []models.CanaryGroup{
		{Name: "a", APIs: []models.APISeries{constantSeries("Login", 100)}},
		{Name: "b", APIs: []models.APISeries{
			constantSeries("Login", 96), constantSeries("Update", 96), constantSeries("Delete", 96),
		}},
	}
	got, err := OverallAvailability(groups)
	if err != nil {
		t.Fatal(err)
	}
	if got != 97 {
		t.Errorf("OverallAvailability = %v, want 97", got)
	}
}

func TestDailyAverageAcrossAPIs(t *testing.T) {
	t.Parallel()

	a := constantSeries("Login", 98.0)
	b := constantSeries("Register", 100.0)
	group := models.CanaryGroup{Name: "g", APIs: []models.APISeries{a, b}}

	got, err := DailyAverageAcrossAPIs(group, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 99.0 {
		t.Errorf("DailyAverageAcrossAPIs day 0 = %v, want 99.0", got)
	}

	if _, err := DailyAverageAcrossAPIs(group, models.SeriesDays); !errors.Is(err, ErrDayOutOfRange) {
		t.Errorf("expected ErrDayOutOfRange, got %v", err)
	}
}

func TestTrendSeries(t *testing.T) {
	t.Parallel()

	a := constantSeries("Login", 99)
	b := constantSeries("Register", 98)
	a.Daily[7] = 90
	group := models.CanaryGroup{Name: "g", APIs: []models.APISeries{a, b}}

	trend, err := TrendSeries(group)
	if err != nil {
		t.Fatal(err)
	}
	if len(trend) != models.SeriesDays {
		t.Fatalf("len(trend) = %d, want %d", len(trend), models.SeriesDays)
	}
	if trend[0] != 98.5 {
		t.Errorf("trend[0] = %v, want 98.5", trend[0])
	}
	if trend[7] != 94 {
		t.Errorf("trend[7] = %v, want 94", trend[7])
	}
}

func TestAPIAverageRounding(t *testing.T) {
	t.Parallel()

	s := constantSeries("Login", 99)
	s.Daily[0] = 96.6 // mean 98.96
	got, err := APIAverage(s)
	if err != nil {
		t.Fatal(err)
	}
	if got != 99.0 {
		t.Errorf("APIAverage = %v, want 99.0", got)
	}
}

func TestEmptyInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"overall nil", func() error { _, err := OverallAvailability(nil); return err }},
		{"overall apis without days", func() error {
			_, err := OverallAvailability([]models.CanaryGroup{{Name: "x", APIs: []models.APISeries{{API: "Login"}}}})
			return err
		}},
		{"group no apis", func() error { _, err := GroupAvailability(models.CanaryGroup{Name: "x"}); return err }},
		{"daily no apis", func() error { _, err := DailyAverageAcrossAPIs(models.CanaryGroup{}, 0); return err }},
		{"trend no apis", func() error { _, err := TrendSeries(models.CanaryGroup{}); return err }},
		{"api empty", func() error { _, err := APIAverage(models.APISeries{API: "Login"}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.fn(); !errors.Is(err, ErrEmptySeries) {
				t.Errorf("expected ErrEmptySeries, got %v", err)
			}
		})
	}
}
