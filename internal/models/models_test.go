// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package models

import (
	"testing"
	"time"
)

func TestDayDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day  int
		want time.Time
	}{
		{0, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{30, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{31, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{SeriesDays - 1, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := DayDate(tt.day); !got.Equal(tt.want) {
			t.Errorf("DayDate(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestCountryDistributionShare(t *testing.T) {
	t.Parallel()

	d := CountriesPayload{
		Countries:   []string{"Singapore", "Ireland"},
		Percentages: []float64{60.5, 39.5},
	}.Distribution()

	if got, ok := d.Share("Singapore"); !ok || got != 60.5 {
		t.Errorf("Share(Singapore) = %v, %v; want 60.5, true", got, ok)
	}
	if _, ok := d.Share("Brazil"); ok {
		t.Error("Share(Brazil) should be absent")
	}
	if got := d.Total(); got != 100 {
		t.Errorf("Total() = %v, want 100", got)
	}

	back := d.Payload()
	if len(back.Countries) != 2 || back.Countries[1] != "Ireland" || back.Percentages[1] != 39.5 {
		t.Errorf("Payload() = %+v, want original arrays", back)
	}
}
