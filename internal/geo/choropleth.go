// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package geo

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/tomtom215/canarymap/internal/models"
)

// Region is the styling and value of one map feature. The browser joins
// regions to geometry by Name.
type Region struct {
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Code        string  `json:"code,omitempty"`
	Value       float64 `json:"value"`
	Fill        string  `json:"fill"`
	Hover       string  `json:"hover"`
	Border      string  `json:"border"`
	BorderWidth float64 `json:"border_width"`
	Clickable   bool    `json:"clickable"`
	Tooltip     string  `json:"tooltip"`
	Geometry    string  `json:"geometry"`
}

// Marker is a clickable dot placed over a selectable country.
type Marker struct {
	Country string  `json:"country"`
	Code    string  `json:"code,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
}

// Choropleth is the complete map view model.
type Choropleth struct {
	Regions []Region `json:"regions"`
	Markers []Marker `json:"markers"`
}

// Tooltip formats the hover text for a map value.
func Tooltip(value float64) string {
	if value > 0 {
		return fmt.Sprintf("Overall API Calls: %.2f%%", value)
	}
	return "No data available"
}

// BuildChoropleth styles every feature of fc against the distribution and
// adds a marker for each selectable country.
func BuildChoropleth(fc *geojson.FeatureCollection, d models.CountryDistribution) Choropleth {
	out := Choropleth{}
	if fc != nil {
		out.Regions = make([]Region, 0, len(fc.Features))
		for _, f := range fc.Features {
			out.Regions = append(out.Regions, buildRegion(f, d))
		}
	}

	for _, c := range allowList {
		if !Selectable(d, c.Name) {
			continue
		}
		out.Markers = append(out.Markers, Marker{
			Country: c.Name,
			Code:    c.Code,
			X:       c.MarkerX,
			Y:       c.MarkerY,
			Color:   c.Fill,
		})
	}
	return out
}

func buildRegion(f *geojson.Feature, d models.CountryDistribution) Region {
	name := FeatureName(f)
	value := MapValue(d, name)

	r := Region{
		Name:        name,
		Label:       FeatureLabel(f),
		Value:       value,
		Fill:        neutralFill,
		Hover:       neutralHover,
		Border:      neutralBorder,
		BorderWidth: neutralBorderWidth,
		Tooltip:     Tooltip(value),
	}
	if f.Geometry != nil {
		r.Geometry = string(f.Geometry.Type)
	}

	if c, ok := Lookup(name); ok {
		r.Code = c.Code
		r.Fill = c.Fill
		r.Hover = c.Hover
		r.Border = activeBorder
		r.BorderWidth = activeBorderWidth
		r.Clickable = value > 0
	}
	return r
}
