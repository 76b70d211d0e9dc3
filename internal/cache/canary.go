// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package cache

import (
	"sync"

	"github.com/tomtom215/canarymap/internal/metrics"
	"github.com/tomtom215/canarymap/internal/models"
)

// CanaryCache holds fetched canary groups per country for the lifetime of
// the process and guards against duplicate fetches of the same country.
//
// Entries are never evicted. The key space is bounded by the map allow-list,
// so the cache cannot grow beyond a handful of countries.
//
// Thread Safety:
//   - Safe for concurrent use by every dashboard session
//   - Stored slices are shared between readers and must not be mutated
type CanaryCache struct {
	mu       sync.RWMutex
	entries  map[string][]models.CanaryGroup
	inflight map[string]chan struct{}
	stats    CanaryStats
}

// CanaryStats is a point-in-time snapshot of cache activity.
type CanaryStats struct {
	Hits          int64
	Misses        int64
	InflightJoins int64
	Entries       int
	Inflight      int
}

// NewCanaryCache creates an empty cache.
func NewCanaryCache() *CanaryCache {
	return &CanaryCache{
		entries:  make(map[string][]models.CanaryGroup),
		inflight: make(map[string]chan struct{}),
	}
}

// Get returns the cached groups for country.
//
// Returns:
//   - []models.CanaryGroup: the stored groups, shared with every other reader
//   - bool: false when the country has never been stored
func (c *CanaryCache) Get(country string) ([]models.CanaryGroup, bool) {
	c.mu.Lock()
	groups, ok := c.entries[country]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	if ok {
		metrics.CanaryCacheHits.Inc()
	} else {
		metrics.CanaryCacheMisses.Inc()
	}
	return groups, ok
}

// Put stores groups for country, overwriting any previous entry.
// Storing the same value twice leaves the cache unchanged.
func (c *CanaryCache) Put(country string, groups []models.CanaryGroup) {
	c.mu.Lock()
	c.entries[country] = groups
	n := len(c.entries)
	c.mu.Unlock()

	metrics.CanaryCacheEntries.Set(float64(n))
}

// Acquire registers interest in fetching country.
//
// Exactly one caller per outstanding fetch becomes the leader (leader=true)
// and is responsible for fetching, calling Put, then Release. Every other
// caller receives the same done channel, which closes on Release, and must
// re-read the cache afterwards.
//
// Example:
//
//	done, leader := c.Acquire(country)
//	if leader {
//	    c.Put(country, fetch(ctx, country))
//	    c.Release(country)
//	}
//	<-done
//	groups, _ := c.Get(country)
func (c *CanaryCache) Acquire(country string) (done <-chan struct{}, leader bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.inflight[country]; ok {
		c.stats.InflightJoins++
		metrics.CanaryCacheInflightJoins.Inc()
		return ch, false
	}

	ch := make(chan struct{})
	c.inflight[country] = ch
	return ch, true
}

// Release clears the in-flight marker for country and wakes all waiters.
// Calling Release without a matching Acquire is a no-op.
func (c *CanaryCache) Release(country string) {
	c.mu.Lock()
	ch, ok := c.inflight[country]
	delete(c.inflight, country)
	c.mu.Unlock()

	if ok {
		close(ch)
	}
}

// InFlight reports whether a fetch for country is outstanding.
func (c *CanaryCache) InFlight(country string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inflight[country]
	return ok
}

// Stats returns a snapshot of cache activity.
func (c *CanaryCache) Stats() CanaryStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Entries = len(c.entries)
	s.Inflight = len(c.inflight)
	return s
}
