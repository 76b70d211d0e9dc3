// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package charts

import (
	"fmt"

	"github.com/tomtom215/canarymap/internal/models"
)

// LabelEvery is the spacing of x-axis date labels.
const LabelEvery = 5

// Timeline returns x-axis labels and tooltip dates for n days starting at
// models.SeriesEpoch. Every LabelEvery-th label is "M/D"; the rest are empty.
// Every tooltip is a full date such as "Jan 2, 2026".
func Timeline(n int) (labels, tooltips []string) {
	labels = make([]string, n)
	tooltips = make([]string, n)
	for i := 0; i < n; i++ {
		d := models.DayDate(i)
		if i%LabelEvery == 0 {
			labels[i] = fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
		}
		tooltips[i] = d.Format("Jan 2, 2006")
	}
	return labels, tooltips
}
