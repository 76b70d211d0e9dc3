// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package dashboard

import (
	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/geo"
)

// AvailabilityLabel captions every group badge.
const AvailabilityLabel = "Last 60 Days Availability"

// GroupView is one row of the country detail view.
type GroupView struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Availability float64 `json:"availability"`
	Label        string  `json:"label"`
}

// CountryView is the detail screen of one country.
type CountryView struct {
	Country string      `json:"country"`
	Title   string      `json:"title"`
	Groups  []GroupView `json:"groups"`
}

// APIRow is one API inside an expanded group.
type APIRow struct {
	Index   int     `json:"index"`
	API     string  `json:"api"`
	Average float64 `json:"average"`
}

// Renderer draws view state. Show and Set methods are fire-and-forget;
// methods that create widgets return an error when nothing was drawn.
//
// A Renderer is called only from its session's event loop.
type Renderer interface {
	ShowMap(m geo.Choropleth) (Widget, error)
	ShowMapWarning(message string)
	ShowLoading(country string)
	ShowCountry(v CountryView)
	ShowGroupBreakdown(group int, rows []APIRow)
	SetGroupExpanded(group int, expanded bool)
	SetAPIExpanded(group, api int, expanded bool)
	DrawLineChart(key WidgetKey, lc charts.LineChart) (Widget, error)
}
