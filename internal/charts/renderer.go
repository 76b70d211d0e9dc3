// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package charts draws dashboard line charts to PNG and keeps the rendered
images addressable by ID until their widget is destroyed.
*/
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/metrics"
)

// Y-axis bounds shared by every availability chart. The lower bound drops
// to fit series that dip below AxisMin.
const (
	AxisMin = 90.0
	AxisMax = 100.0
)

var (
	// ErrNoPoints is returned for a chart with fewer than two values.
	ErrNoPoints = errors.New("chart needs at least two points")

	// ErrLabelMismatch is returned when labels and values differ in length.
	ErrLabelMismatch = errors.New("chart labels and values differ in length")
)

var (
	lineColor = drawing.ColorFromHex("009639")
	fillColor = drawing.Color{R: 0, G: 150, B: 57, A: 26}
)

// LineChart is everything needed to draw one availability chart.
type LineChart struct {
	Title    string    `json:"title"`
	Dataset  string    `json:"dataset"`
	Labels   []string  `json:"labels"`
	Tooltips []string  `json:"tooltips"`
	Values   []float64 `json:"values"`
}

// Validate checks the chart can be drawn.
func (lc LineChart) Validate() error {
	if len(lc.Values) < 2 {
		return ErrNoPoints
	}
	if len(lc.Labels) != len(lc.Values) {
		return fmt.Errorf("%w: %d labels, %d values", ErrLabelMismatch, len(lc.Labels), len(lc.Values))
	}
	return nil
}

// axisMin returns AxisMin, or the floor of the lowest value if that is
// smaller, never below zero.
func axisMin(values []float64) float64 {
	lo := AxisMin
	for _, v := range values {
		lo = math.Min(lo, math.Floor(v))
	}
	return math.Max(lo, 0)
}

// Renderer draws LineCharts to PNG at a fixed size.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer using the configured image size.
func NewRenderer(cfg config.ChartsConfig) *Renderer {
	return &Renderer{width: cfg.Width, height: cfg.Height}
}

// Render draws lc and returns the encoded PNG.
func (r *Renderer) Render(lc LineChart) ([]byte, error) {
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.ChartRenderDuration.Observe(time.Since(start).Seconds())
	}()

	xs := make([]float64, len(lc.Values))
	for i := range xs {
		xs[i] = float64(i)
	}

	var ticks []chart.Tick
	for i, label := range lc.Labels {
		if label != "" {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
		}
	}

	ch := chart.Chart{
		Title:      lc.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Date",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(lc.Values) - 1)},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Availability (%)",
			Range: &chart.ContinuousRange{Min: axisMin(lc.Values), Max: AxisMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    lc.Dataset,
				XValues: xs,
				YValues: lc.Values,
				Style: chart.Style{
					StrokeWidth: 3,
					StrokeColor: lineColor,
					FillColor:   fillColor,
					DotWidth:    3,
					DotColor:    lineColor,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", lc.Title, err)
	}
	return buf.Bytes(), nil
}
