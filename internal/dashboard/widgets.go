// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package dashboard

import (
	"fmt"
	"sort"

	"github.com/tomtom215/canarymap/internal/metrics"
)

// WidgetKind identifies what a widget draws.
type WidgetKind int

const (
	KindMap WidgetKind = iota + 1
	KindTrend
	KindAPI
)

func (k WidgetKind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindTrend:
		return "trend"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// WidgetKey names a widget slot. Group and API are indices into the
// country's loaded groups; unused fields are -1.
type WidgetKey struct {
	Kind    WidgetKind
	Country string
	Group   int
	API     int
}

func (k WidgetKey) String() string {
	switch k.Kind {
	case KindMap:
		return "map"
	case KindTrend:
		return fmt.Sprintf("trend/%s/%d", k.Country, k.Group)
	default:
		return fmt.Sprintf("%s/%s/%d/%d", k.Kind, k.Country, k.Group, k.API)
	}
}

// MapKey is the slot of the single choropleth widget.
func MapKey() WidgetKey {
	return WidgetKey{Kind: KindMap, Group: -1, API: -1}
}

// TrendKey is the slot of group g's overall trend chart in country.
func TrendKey(country string, g int) WidgetKey {
	return WidgetKey{Kind: KindTrend, Country: country, Group: g, API: -1}
}

// APIKey is the slot of API a's chart inside group g.
func APIKey(country string, g, a int) WidgetKey {
	return WidgetKey{Kind: KindAPI, Country: country, Group: g, API: a}
}

// Widget is a live rendered element that must be destroyed when its view
// goes away.
type Widget interface {
	ID() string
	Destroy()
}

// Registry maps widget slots to live handles. It is owned by one session's
// event loop and is not safe for concurrent use.
type Registry struct {
	widgets map[WidgetKey]Widget
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{widgets: make(map[WidgetKey]Widget)}
}

// Has reports whether key holds a live widget.
func (r *Registry) Has(key WidgetKey) bool {
	_, ok := r.widgets[key]
	return ok
}

// Get returns the widget in key.
func (r *Registry) Get(key WidgetKey) (Widget, bool) {
	w, ok := r.widgets[key]
	return w, ok
}

// Set stores w in key, destroying any widget already there.
func (r *Registry) Set(key WidgetKey, w Widget) {
	r.Dispose(key)
	r.widgets[key] = w
	metrics.RecordWidgetBuilt(key.Kind.String())
}

// Dispose destroys the widget in key and reports whether there was one.
func (r *Registry) Dispose(key WidgetKey) bool {
	w, ok := r.widgets[key]
	if !ok {
		return false
	}
	delete(r.widgets, key)
	w.Destroy()
	metrics.RecordWidgetDisposed(key.Kind.String())
	return true
}

// DisposeCountry destroys every widget under country and returns the count.
func (r *Registry) DisposeCountry(country string) int {
	n := 0
	for _, key := range r.Keys() {
		if key.Kind != KindMap && key.Country == country {
			r.Dispose(key)
			n++
		}
	}
	return n
}

// DisposeAll destroys every widget.
func (r *Registry) DisposeAll() int {
	n := 0
	for _, key := range r.Keys() {
		r.Dispose(key)
		n++
	}
	return n
}

// Len returns the number of live widgets.
func (r *Registry) Len() int {
	return len(r.widgets)
}

// Keys returns the occupied slots in a stable order.
func (r *Registry) Keys() []WidgetKey {
	keys := make([]WidgetKey, 0, len(r.widgets))
	for k := range r.widgets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.API < b.API
	})
	return keys
}
