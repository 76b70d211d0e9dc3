// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package dashboard holds the navigation state of one dashboard session and
applies user intents to it.

Each session runs a Coordinator. Its Run method is the session's only
writer: intents, fetch completions and asset loads are all handled on that
one goroutine, so the state needs no locking. Slow work runs in separate
goroutines that post their results back to the loop. A result is applied
only if the view it was started for is still showing; otherwise it is
dropped.

Widgets (the map and every chart) are tracked in a Registry keyed by
WidgetKey. A chart is drawn at most once per country visit, and leaving the
country destroys its charts.
*/
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	geojson "github.com/paulmach/go.geojson"
	"github.com/rs/zerolog"

	"github.com/tomtom215/canarymap/internal/aggregate"
	"github.com/tomtom215/canarymap/internal/cache"
	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/datasource"
	"github.com/tomtom215/canarymap/internal/geo"
	"github.com/tomtom215/canarymap/internal/logging"
	"github.com/tomtom215/canarymap/internal/metrics"
	"github.com/tomtom215/canarymap/internal/models"
)

// ErrStopped is returned by Dispatch once the session loop has exited.
var ErrStopped = errors.New("dashboard session stopped")

// MapWarning is shown in place of the map when the geometry cannot be loaded.
const MapWarning = "Error loading world map data. Please refresh the page."

// TrendDataset labels every group trend chart.
const TrendDataset = "Overall Availability %"

// Deps are the collaborators of a Coordinator.
type Deps struct {
	SessionID string
	Cache     *cache.CanaryCache
	Source    datasource.Source
	Assets    geo.AssetLoader
	Renderer  Renderer
}

type request struct {
	intent Intent
	query  func()
	done   chan bool
}

type distributionLoaded struct {
	dist models.CountryDistribution
}

type assetLoaded struct {
	visit uint64
	fc    *geojson.FeatureCollection
	err   error
}

type groupsLoaded struct {
	country string
	visit   uint64
	groups  []models.CanaryGroup
}

// Coordinator applies intents and async results to one session's state.
type Coordinator struct {
	state    *DashboardState
	source   datasource.Source
	assets   geo.AssetLoader
	renderer Renderer
	logger   zerolog.Logger

	requests chan request
	events   chan any
	stopped  chan struct{}
}

// NewCoordinator creates a coordinator. Call Run to start the session.
func NewCoordinator(deps Deps) *Coordinator {
	return &Coordinator{
		state:    NewDashboardState(deps.Cache),
		source:   deps.Source,
		assets:   deps.Assets,
		renderer: deps.Renderer,
		logger: logging.WithComponent("dashboard").With().
			Str("session_id", deps.SessionID).Logger(),
		requests: make(chan request),
		events:   make(chan any, 8),
		stopped:  make(chan struct{}),
	}
}

// Run loads the map and then serves intents until ctx is cancelled. Every
// widget still alive is destroyed before Run returns.
func (c *Coordinator) Run(ctx context.Context) error {
	metrics.DashboardSessions.Inc()
	defer metrics.DashboardSessions.Dec()
	defer close(c.stopped)
	defer func() {
		n := c.state.Widgets.DisposeAll()
		c.logger.Debug().Int("widgets", n).Msg("Session ended")
	}()

	c.logger.Debug().Msg("Session started")
	c.spawn(ctx, func() any {
		return distributionLoaded{dist: c.source.FetchDistribution(ctx)}
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-c.requests:
			if req.query != nil {
				req.query()
				req.done <- true
				continue
			}
			applied := c.apply(ctx, req.intent)
			metrics.RecordIntent(req.intent.Name(), applied)
			req.done <- applied
		case ev := <-c.events:
			c.handle(ctx, ev)
		}
	}
}

// Dispatch applies intent on the session loop and returns once it has been
// applied. applied is false when the intent was not valid in the current
// state and nothing changed.
func (c *Coordinator) Dispatch(ctx context.Context, intent Intent) (applied bool, err error) {
	return c.submit(ctx, request{intent: intent, done: make(chan bool, 1)})
}

// Snapshot returns a copy of the session state taken on the loop.
func (c *Coordinator) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	_, err := c.submit(ctx, request{
		query: func() { snap = c.state.snapshot() },
		done:  make(chan bool, 1),
	})
	return snap, err
}

func (c *Coordinator) submit(ctx context.Context, req request) (bool, error) {
	select {
	case c.requests <- req:
	case <-c.stopped:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.done:
		return ok, nil
	case <-c.stopped:
		return false, ErrStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// spawn runs fn off the loop and posts its result back.
func (c *Coordinator) spawn(ctx context.Context, fn func() any) {
	go func() {
		ev := fn()
		if ev == nil {
			return
		}
		select {
		case c.events <- ev:
		case <-ctx.Done():
		}
	}()
}

func (c *Coordinator) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case distributionLoaded:
		c.state.Distribution = ev.dist
		c.state.DistributionLoaded = true
		c.enterMap(ctx)
	case assetLoaded:
		c.showMap(ev)
	case groupsLoaded:
		if !c.state.View.Current.IsCountry(ev.country, ev.visit) {
			metrics.DashboardStaleResults.Inc()
			c.logger.Debug().Str("country", ev.country).Uint64("visit", ev.visit).
				Msg("Discarding stale canary groups")
			return
		}
		c.renderCountry(ev.groups)
	default:
		c.logger.Error().Str("event", fmt.Sprintf("%T", ev)).Msg("Unknown session event")
	}
}

func (c *Coordinator) apply(ctx context.Context, intent Intent) bool {
	switch in := intent.(type) {
	case SelectCountry:
		return c.selectCountry(ctx, in.Country)
	case ToggleGroup:
		return c.toggleGroup(in.Group)
	case ToggleAPI:
		return c.toggleAPI(in.Group, in.API)
	case NavigateBack:
		return c.navigateBack(ctx)
	default:
		return false
	}
}

// enterMap switches to the map view and loads the geometry.
func (c *Coordinator) enterMap(ctx context.Context) {
	view := c.state.View.enter(ViewMap, "")
	c.spawn(ctx, func() any {
		fc, err := c.assets.Load(ctx)
		return assetLoaded{visit: view.Visit, fc: fc, err: err}
	})
}

func (c *Coordinator) showMap(ev assetLoaded) {
	cur := c.state.View.Current
	if cur.Kind != ViewMap || cur.Visit != ev.visit {
		return
	}

	c.state.Widgets.Dispose(MapKey())

	if ev.err != nil {
		metrics.MapAssetErrors.Inc()
		c.logger.Warn().Err(ev.err).Msg("Could not load world map")
		c.renderer.ShowMapWarning(MapWarning)
		return
	}

	w, err := c.renderer.ShowMap(geo.BuildChoropleth(ev.fc, c.state.Distribution))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create map widget")
		return
	}
	c.state.Widgets.Set(MapKey(), w)
}

func (c *Coordinator) selectCountry(ctx context.Context, country string) bool {
	st := c.state
	if st.View.Current.Kind != ViewMap || !st.DistributionLoaded {
		return false
	}
	if !geo.Selectable(st.Distribution, country) {
		return false
	}

	st.View.clearCountry()
	view := st.View.enter(ViewCountry, country)
	c.renderer.ShowLoading(country)

	if groups, ok := st.Cache.Get(country); ok {
		c.renderCountry(groups)
		return true
	}

	c.spawn(ctx, func() any {
		groups, ok := c.fetchGroups(ctx, country)
		if !ok {
			return nil
		}
		return groupsLoaded{country: country, visit: view.Visit, groups: groups}
	})
	return true
}

// fetchGroups returns the groups of country, fetching them only if no other
// session already is. ok is false if ctx ended while waiting.
//
// The leader's fetch outlives its session: the result goes into the shared
// cache, so it must not be the fallback for a request this session
// abandoned. The client's own timeout still bounds it.
func (c *Coordinator) fetchGroups(ctx context.Context, country string) ([]models.CanaryGroup, bool) {
	cc := c.state.Cache
	for {
		done, leader := cc.Acquire(country)
		if leader {
			groups, ok := cc.Get(country)
			if !ok {
				groups = c.source.FetchCanaryGroups(context.WithoutCancel(ctx), country)
				cc.Put(country, groups)
			}
			cc.Release(country)
			return groups, true
		}

		select {
		case <-done:
		case <-ctx.Done():
			return nil, false
		}
		if groups, ok := cc.Get(country); ok {
			return groups, true
		}
	}
}

func (c *Coordinator) renderCountry(groups []models.CanaryGroup) {
	country := c.state.View.Current.Country
	if groups == nil {
		groups = []models.CanaryGroup{}
	}
	c.state.View.Groups = groups

	view := CountryView{
		Country: country,
		Title:   "Canary Groups in " + country,
		Groups:  make([]GroupView, 0, len(groups)),
	}
	for i, g := range groups {
		avail, err := aggregate.GroupAvailability(g)
		if err != nil {
			c.logger.Error().Err(err).Str("country", country).Str("group", g.Name).
				Msg("Skipping group with invalid series")
			continue
		}
		view.Groups = append(view.Groups, GroupView{
			Index:        i,
			Name:         g.Name,
			Availability: avail,
			Label:        AvailabilityLabel,
		})
	}
	c.renderer.ShowCountry(view)
}

// group returns the loaded group at index g in the detail view.
func (c *Coordinator) group(g int) (models.CanaryGroup, bool) {
	st := c.state.View
	if st.Current.Kind != ViewCountry || st.Groups == nil {
		return models.CanaryGroup{}, false
	}
	if g < 0 || g >= len(st.Groups) {
		return models.CanaryGroup{}, false
	}
	return st.Groups[g], true
}

func (c *Coordinator) toggleGroup(g int) bool {
	group, ok := c.group(g)
	if !ok {
		return false
	}
	vs := &c.state.View
	country := vs.Current.Country

	if vs.GroupExpanded(g) {
		vs.setGroupExpanded(g, false)
		c.renderer.SetGroupExpanded(g, false)
		return true
	}

	key := TrendKey(country, g)
	if !c.state.Widgets.Has(key) {
		trend, err := aggregate.TrendSeries(group)
		if err != nil {
			c.logger.Error().Err(err).Str("country", country).Str("group", group.Name).
				Msg("Skipping group with invalid series")
			return false
		}
		c.renderer.ShowGroupBreakdown(g, c.apiRows(country, group))

		labels, tooltips := charts.Timeline(len(trend))
		c.buildChart(key, charts.LineChart{
			Title:    group.Name,
			Dataset:  TrendDataset,
			Labels:   labels,
			Tooltips: tooltips,
			Values:   trend,
		})
	}

	vs.setGroupExpanded(g, true)
	c.renderer.SetGroupExpanded(g, true)
	return true
}

func (c *Coordinator) apiRows(country string, group models.CanaryGroup) []APIRow {
	rows := make([]APIRow, 0, len(group.APIs))
	for i, api := range group.APIs {
		avg, err := aggregate.APIAverage(api)
		if err != nil {
			c.logger.Error().Err(err).Str("country", country).Str("group", group.Name).
				Str("api", api.API).Msg("Skipping API with invalid series")
			continue
		}
		rows = append(rows, APIRow{Index: i, API: api.API, Average: avg})
	}
	return rows
}

func (c *Coordinator) toggleAPI(g, a int) bool {
	group, ok := c.group(g)
	if !ok || a < 0 || a >= len(group.APIs) {
		return false
	}
	vs := &c.state.View
	if !vs.GroupExpanded(g) {
		return false
	}
	country := vs.Current.Country

	if vs.APIExpanded(g, a) {
		vs.setAPIExpanded(g, a, false)
		c.renderer.SetAPIExpanded(g, a, false)
		return true
	}

	key := APIKey(country, g, a)
	if !c.state.Widgets.Has(key) {
		api := group.APIs[a]
		labels, tooltips := charts.Timeline(len(api.Daily))
		c.buildChart(key, charts.LineChart{
			Title:    api.API,
			Dataset:  api.API + " Success Rate",
			Labels:   labels,
			Tooltips: tooltips,
			Values:   slices.Clone(api.Daily),
		})
	}

	vs.setAPIExpanded(g, a, true)
	c.renderer.SetAPIExpanded(g, a, true)
	return true
}

// buildChart draws lc and registers it under key. A failed draw is logged
// and leaves the slot empty so the next expand tries again.
func (c *Coordinator) buildChart(key WidgetKey, lc charts.LineChart) {
	w, err := c.renderer.DrawLineChart(key, lc)
	if err != nil {
		c.logger.Error().Err(err).Str("widget", key.String()).Msg("Failed to build chart widget")
		return
	}
	c.state.Widgets.Set(key, w)
}

func (c *Coordinator) navigateBack(ctx context.Context) bool {
	vs := &c.state.View
	if vs.Current.Kind != ViewCountry {
		return false
	}
	country := vs.Current.Country

	n := c.state.Widgets.DisposeCountry(country)
	c.logger.Debug().Str("country", country).Int("widgets", n).Msg("Leaving country")

	vs.clearCountry()
	c.enterMap(ctx)
	return true
}
