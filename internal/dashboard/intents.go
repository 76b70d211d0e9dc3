// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package dashboard

// Intent is a user action. Intents are applied one at a time by
// Coordinator.Dispatch.
type Intent interface {
	Name() string
}

// SelectCountry opens the detail view of a country on the map.
type SelectCountry struct {
	Country string
}

// ToggleGroup expands or collapses a canary group by index.
type ToggleGroup struct {
	Group int
}

// ToggleAPI expands or collapses one API inside an expanded group.
type ToggleAPI struct {
	Group int
	API   int
}

// NavigateBack leaves the detail view and returns to the map.
type NavigateBack struct{}

func (SelectCountry) Name() string { return "select_country" }
func (ToggleGroup) Name() string   { return "toggle_group" }
func (ToggleAPI) Name() string     { return "toggle_api" }
func (NavigateBack) Name() string  { return "back" }
