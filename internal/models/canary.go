// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package models

import "time"

// SeriesDays is the length of every APISeries window.
const SeriesDays = 60

// SeriesEpoch is the calendar date of day 0.
var SeriesEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// DayDate returns the calendar date of day index i.
func DayDate(i int) time.Time {
	return SeriesEpoch.AddDate(0, 0, i)
}

// APISeries is the daily success-rate history of a single API.
// Daily[i] is the percentage of successful calls on DayDate(i).
type APISeries struct {
	API   string    `json:"api" validate:"required"`
	Daily []float64 `json:"daily" validate:"len=60,dive,gte=0,lte=100"`
}

// CanaryGroup is a named set of API health series for one service in a country.
type CanaryGroup struct {
	Name string      `json:"name" validate:"required"`
	APIs []APISeries `json:"apis" validate:"required,min=1,dive"`
}
