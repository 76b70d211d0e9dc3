// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package cache holds canary groups per country for the life of the process.

CanaryCache is shared by every dashboard session. Entries are never evicted
or expired; the key space is the country allow-list, so memory is bounded.

# In-flight guard

Acquire makes exactly one caller the leader for an uncached country. The
leader fetches, stores the result with Put and then calls Release. Every
other caller gets the same done channel and reads the cache once it closes:

	done, leader := c.Acquire(country)
	if leader {
	    c.Put(country, fetch(country))
	    c.Release(country)
	} else {
	    <-done
	}
	groups, _ := c.Get(country)

Release without Put is allowed; followers then miss and may lead a new fetch.

Hits, misses, joins and the entry count are exported as Prometheus metrics.
*/
package cache
