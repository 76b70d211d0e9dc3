// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

// Package aggregate derives availability figures from canary group series.
//
// Every function is pure and recomputed on each render; nothing here is
// cached. Rounding follows the dashboard's display precision: availability
// badges carry one decimal, per-day trend points carry two.
//
// An empty input never yields 0 or NaN. It returns ErrEmptySeries so the
// caller can treat it as the invariant violation it is.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/canarymap/internal/models"
)

var (
	// ErrEmptySeries is returned when there are no values to average.
	ErrEmptySeries = errors.New("aggregate: empty series")

	// ErrDayOutOfRange is returned for a day index outside an API's series.
	ErrDayOutOfRange = errors.New("aggregate: day index out of range")
)

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// OverallAvailability is the mean of every daily value across every API of
// every group, rounded to one decimal.
func OverallAvailability(groups []models.CanaryGroup) (float64, error) {
	var sum float64
	var n int
	for _, g := range groups {
		for _, api := range g.APIs {
			for _, v := range api.Daily {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return 0, ErrEmptySeries
	}
	return Round1(sum / float64(n)), nil
}

// GroupAvailability is OverallAvailability restricted to a single group.
func GroupAvailability(group models.CanaryGroup) (float64, error) {
	return OverallAvailability([]models.CanaryGroup{group})
}

// DailyAverageAcrossAPIs is the mean of Daily[day] over the group's APIs,
// rounded to two decimals.
func DailyAverageAcrossAPIs(group models.CanaryGroup, day int) (float64, error) {
	if len(group.APIs) == 0 {
		return 0, ErrEmptySeries
	}
	var sum float64
	for _, api := range group.APIs {
		if day < 0 || day >= len(api.Daily) {
			return 0, fmt.Errorf("%w: day %d of %q (%d values)", ErrDayOutOfRange, day, api.API, len(api.Daily))
		}
		sum += api.Daily[day]
	}
	return Round2(sum / float64(len(group.APIs))), nil
}

// TrendSeries returns DailyAverageAcrossAPIs for every day of the window, in day order.
func TrendSeries(group models.CanaryGroup) ([]float64, error) {
	trend := make([]float64, models.SeriesDays)
	for day := range trend {
		v, err := DailyAverageAcrossAPIs(group, day)
		if err != nil {
			return nil, err
		}
		trend[day] = v
	}
	return trend, nil
}

// APIAverage is the mean of one API's daily values, rounded to one decimal.
func APIAverage(series models.APISeries) (float64, error) {
	if len(series.Daily) == 0 {
		return 0, ErrEmptySeries
	}
	var sum float64
	for _, v := range series.Daily {
		sum += v
	}
	return Round1(sum / float64(len(series.Daily))), nil
}
