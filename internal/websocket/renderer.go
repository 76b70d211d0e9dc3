// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/dashboard"
	"github.com/tomtom215/canarymap/internal/geo"
)

// ErrSessionClosed is returned when a widget cannot be sent to the browser.
var ErrSessionClosed = errors.New("session closed")

// sessionRenderer turns render calls into messages for one client.
type sessionRenderer struct {
	client    *Client
	charts    *charts.Renderer
	store     *charts.Store
	chartPath string
}

func newSessionRenderer(c *Client, cfg SessionConfig) *sessionRenderer {
	path := cfg.ChartPath
	if path == "" {
		path = "/charts/"
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &sessionRenderer{client: c, charts: cfg.Charts, store: cfg.Store, chartPath: path}
}

func (r *sessionRenderer) ShowMap(m geo.Choropleth) (dashboard.Widget, error) {
	id := uuid.New().String()
	ok := r.client.deliver(Message{Type: MessageTypeMap, Data: MapData{
		WidgetID: id,
		Regions:  m.Regions,
		Markers:  m.Markers,
	}})
	if !ok {
		return nil, ErrSessionClosed
	}
	return &remoteWidget{id: id, client: r.client}, nil
}

func (r *sessionRenderer) ShowMapWarning(message string) {
	r.client.deliver(Message{Type: MessageTypeMapWarning, Data: WarningData{Message: message}})
}

func (r *sessionRenderer) ShowLoading(country string) {
	r.client.deliver(Message{Type: MessageTypeLoading, Data: LoadingData{Country: country}})
}

func (r *sessionRenderer) ShowCountry(v dashboard.CountryView) {
	r.client.deliver(Message{Type: MessageTypeCountry, Data: v})
}

func (r *sessionRenderer) ShowGroupBreakdown(group int, rows []dashboard.APIRow) {
	r.client.deliver(Message{Type: MessageTypeGroupBreakdown, Data: BreakdownData{Group: group, Rows: rows}})
}

func (r *sessionRenderer) SetGroupExpanded(group int, expanded bool) {
	r.client.deliver(Message{Type: MessageTypeGroupExpanded, Data: ExpandedData{Group: group, Expanded: expanded}})
}

func (r *sessionRenderer) SetAPIExpanded(group, api int, expanded bool) {
	r.client.deliver(Message{Type: MessageTypeAPIExpanded, Data: ExpandedData{Group: group, API: &api, Expanded: expanded}})
}

// DrawLineChart renders lc to PNG, stores it and tells the browser where
// to fetch it.
func (r *sessionRenderer) DrawLineChart(key dashboard.WidgetKey, lc charts.LineChart) (dashboard.Widget, error) {
	png, err := r.charts.Render(lc)
	if err != nil {
		return nil, err
	}
	id := r.store.Put(png)

	data := ChartData{
		WidgetID:  id,
		Kind:      key.Kind.String(),
		Group:     key.Group,
		URL:       r.chartPath + id + ".png",
		LineChart: lc,
	}
	if key.Kind == dashboard.KindAPI {
		api := key.API
		data.API = &api
	}

	if !r.client.deliver(Message{Type: MessageTypeChart, Data: data}) {
		r.store.Delete(id)
		return nil, ErrSessionClosed
	}
	return &remoteWidget{id: id, client: r.client, store: r.store}, nil
}

// remoteWidget is a widget living in the browser. Chart widgets also hold
// an image in the store.
type remoteWidget struct {
	id     string
	client *Client
	store  *charts.Store
}

func (w *remoteWidget) ID() string { return w.id }

func (w *remoteWidget) Destroy() {
	if w.store != nil {
		w.store.Delete(w.id)
	}
	w.client.deliver(Message{Type: MessageTypeDestroy, Data: DestroyData{WidgetID: w.id}})
}
