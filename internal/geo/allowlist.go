// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package geo turns the world-map geometry and a country distribution into the
choropleth shown on the dashboard's map view.

Only six countries are interactive. Their names must match the GeoJSON
feature's "name" property exactly; every other feature is drawn in a neutral
colour with no value and cannot be selected.
*/
package geo

import (
	"github.com/biter777/countries"

	"github.com/tomtom215/canarymap/internal/models"
)

// DefaultShare is the map value of an allow-listed country that is missing
// from the distribution.
const DefaultShare = 25.0

// Neutral styling for countries outside the allow-list.
const (
	neutralFill        = "#e8e8e8"
	neutralHover       = "#d0d0d0"
	neutralBorder      = "#cccccc"
	neutralBorderWidth = 0.5
	activeBorder       = "#ffffff"
	activeBorderWidth  = 2.5
)

// Country is one allow-listed, selectable country.
type Country struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Fill  string `json:"fill"`
	Hover string `json:"hover"`

	// MarkerX and MarkerY place the clickable marker as fractions of the
	// rendered map width and height.
	MarkerX float64 `json:"marker_x"`
	MarkerY float64 `json:"marker_y"`
}

var allowList = []Country{
	{Name: "United States of America", Fill: "#2196F3", Hover: "#42A5F5", MarkerX: 0.175, MarkerY: 0.40},
	{Name: "Ireland", Fill: "#4CAF50", Hover: "#66BB6A", MarkerX: 0.465, MarkerY: 0.33},
	{Name: "Hong Kong", Fill: "#FF9800", Hover: "#FFB74D", MarkerX: 0.765, MarkerY: 0.49},
	{Name: "Singapore", Fill: "#9C27B0", Hover: "#AB47BC", MarkerX: 0.738, MarkerY: 0.555},
	{Name: "Brazil", Fill: "#00C853", Hover: "#69F0AE", MarkerX: 0.32, MarkerY: 0.65},
	{Name: "India", Fill: "#1565C0", Hover: "#42A5F5", MarkerX: 0.68, MarkerY: 0.47},
}

func init() {
	for i := range allowList {
		allowList[i].Code = isoCode(allowList[i].Name)
	}
}

// isoCode returns the ISO 3166-1 alpha-2 code for a country name, or "" if
// the name is not recognised.
func isoCode(name string) string {
	code := countries.ByName(name)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}

// AllowList returns a copy of the selectable countries in marker order.
func AllowList() []Country {
	out := make([]Country, len(allowList))
	copy(out, allowList)
	return out
}

// Lookup returns the allow-list entry for name.
func Lookup(name string) (Country, bool) {
	for _, c := range allowList {
		if c.Name == name {
			return c, true
		}
	}
	return Country{}, false
}

// IsAllowed reports whether name is one of the selectable countries.
func IsAllowed(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// MapValue is the value a country carries on the map: its distribution share,
// DefaultShare if it is allow-listed but absent, and 0 otherwise.
func MapValue(d models.CountryDistribution, name string) float64 {
	if !IsAllowed(name) {
		return 0
	}
	if v, ok := d.Share(name); ok {
		return v
	}
	return DefaultShare
}

// Selectable reports whether clicking name should open its detail view.
func Selectable(d models.CountryDistribution, name string) bool {
	return IsAllowed(name) && MapValue(d, name) > 0
}
