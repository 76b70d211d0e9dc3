// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package dashboard

import "testing"

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	m := &fakeWidget{id: "map"}
	sg0 := &fakeWidget{id: "sg0"}
	sgAPI := &fakeWidget{id: "sg-api"}
	hk0 := &fakeWidget{id: "hk0"}

	r.Set(MapKey(), m)
	r.Set(TrendKey("Singapore", 0), sg0)
	r.Set(APIKey("Singapore", 0, 1), sgAPI)
	r.Set(TrendKey("Hong Kong", 0), hk0)

	if !r.Has(TrendKey("Singapore", 0)) || r.Has(TrendKey("Singapore", 1)) {
		t.Error("Has reports wrong slots")
	}
	if w, ok := r.Get(APIKey("Singapore", 0, 1)); !ok || w.ID() != "sg-api" {
		t.Errorf("Get = %v, %v", w, ok)
	}

	// Set on an occupied slot destroys the previous widget.
	replacement := &fakeWidget{id: "hk0b"}
	r.Set(TrendKey("Hong Kong", 0), replacement)
	if !hk0.destroyed.Load() || replacement.destroyed.Load() {
		t.Error("Set should destroy only the replaced widget")
	}

	if n := r.DisposeCountry("Singapore"); n != 2 {
		t.Errorf("DisposeCountry = %d, want 2", n)
	}
	if !sg0.destroyed.Load() || !sgAPI.destroyed.Load() || m.destroyed.Load() {
		t.Error("DisposeCountry touched the wrong widgets")
	}

	if r.Dispose(TrendKey("Singapore", 0)) {
		t.Error("Dispose of an empty slot should report false")
	}

	if n := r.DisposeAll(); n != 2 || r.Len() != 0 {
		t.Errorf("DisposeAll = %d, Len = %d", n, r.Len())
	}
	if !m.destroyed.Load() || !replacement.destroyed.Load() {
		t.Error("DisposeAll left live widgets")
	}
}

func TestWidgetKeyString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  WidgetKey
		want string
	}{
		{MapKey(), "map"},
		{TrendKey("Ireland", 2), "trend/Ireland/2"},
		{APIKey("Ireland", 2, 4), "api/Ireland/2/4"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
