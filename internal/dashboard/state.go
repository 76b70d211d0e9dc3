// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package dashboard

import (
	"sort"

	"github.com/tomtom215/canarymap/internal/cache"
	"github.com/tomtom215/canarymap/internal/models"
)

// ViewKind is the screen a session is showing.
type ViewKind int

const (
	// ViewStarting is the state before the distribution has loaded.
	ViewStarting ViewKind = iota
	ViewMap
	ViewCountry
)

func (k ViewKind) String() string {
	switch k {
	case ViewMap:
		return "map"
	case ViewCountry:
		return "country"
	default:
		return "starting"
	}
}

// View is the active screen. Visit increases on every view entry, so two
// visits to the same country are distinguishable.
type View struct {
	Kind    ViewKind
	Country string
	Visit   uint64
}

// IsCountry reports whether v is the detail view of country at visit.
func (v View) IsCountry(country string, visit uint64) bool {
	return v.Kind == ViewCountry && v.Country == country && v.Visit == visit
}

type apiSlot struct {
	group int
	api   int
}

// ViewState is the navigation state of one session.
type ViewState struct {
	Current View

	// Groups is nil until the current country's groups have been rendered.
	Groups []models.CanaryGroup

	expandedGroups map[int]bool
	expandedAPIs   map[apiSlot]bool
	visits         uint64
}

func newViewState() ViewState {
	return ViewState{
		expandedGroups: make(map[int]bool),
		expandedAPIs:   make(map[apiSlot]bool),
	}
}

// enter switches to a new view with a fresh visit number.
func (s *ViewState) enter(kind ViewKind, country string) View {
	s.visits++
	s.Current = View{Kind: kind, Country: country, Visit: s.visits}
	return s.Current
}

// GroupExpanded reports whether group g is expanded.
func (s *ViewState) GroupExpanded(g int) bool {
	return s.expandedGroups[g]
}

// APIExpanded reports whether API a of group g is expanded.
func (s *ViewState) APIExpanded(g, a int) bool {
	return s.expandedAPIs[apiSlot{g, a}]
}

func (s *ViewState) setGroupExpanded(g int, expanded bool) {
	if expanded {
		s.expandedGroups[g] = true
	} else {
		delete(s.expandedGroups, g)
	}
}

func (s *ViewState) setAPIExpanded(g, a int, expanded bool) {
	if expanded {
		s.expandedAPIs[apiSlot{g, a}] = true
	} else {
		delete(s.expandedAPIs, apiSlot{g, a})
	}
}

func (s *ViewState) clearCountry() {
	s.Groups = nil
	clear(s.expandedGroups)
	clear(s.expandedAPIs)
}

// DashboardState is everything one session owns, plus the shared cache.
type DashboardState struct {
	Cache              *cache.CanaryCache
	Distribution       models.CountryDistribution
	DistributionLoaded bool
	View               ViewState
	Widgets            *Registry
}

// NewDashboardState creates the state of a fresh session.
func NewDashboardState(c *cache.CanaryCache) *DashboardState {
	return &DashboardState{
		Cache:   c,
		View:    newViewState(),
		Widgets: NewRegistry(),
	}
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	View               View
	DistributionLoaded bool
	GroupsLoaded       bool
	ExpandedGroups     []int
	ExpandedAPIs       [][2]int
	Widgets            []WidgetKey
}

func (s *DashboardState) snapshot() Snapshot {
	snap := Snapshot{
		View:               s.View.Current,
		DistributionLoaded: s.DistributionLoaded,
		GroupsLoaded:       s.View.Groups != nil,
		Widgets:            s.Widgets.Keys(),
	}
	for g := range s.View.expandedGroups {
		snap.ExpandedGroups = append(snap.ExpandedGroups, g)
	}
	sort.Ints(snap.ExpandedGroups)
	for slot := range s.View.expandedAPIs {
		snap.ExpandedAPIs = append(snap.ExpandedAPIs, [2]int{slot.group, slot.api})
	}
	sort.Slice(snap.ExpandedAPIs, func(i, j int) bool {
		a, b := snap.ExpandedAPIs[i], snap.ExpandedAPIs[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	return snap
}
