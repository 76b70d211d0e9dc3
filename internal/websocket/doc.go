// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package websocket carries dashboard sessions over gorilla/websocket.

Every connection is one dashboard session. The client sends intents
(select a country, expand a group, go back) and the server answers with
render operations that the browser applies to the page.

Key Components:

  - Hub: tracks connected clients and closes them all on shutdown
  - Client: one connection with its read and write goroutines, plus the
    dashboard.Coordinator that owns the session state
  - Message: the JSON envelope used in both directions

Each client has three goroutines:
  - readPump: decodes client messages and dispatches intents in order
  - writePump: writes queued messages and keep-alive pings
  - the session loop (dashboard.Coordinator.Run)

Client messages:

	{"type":"select_country","data":{"country":"Singapore"}}
	{"type":"toggle_group","data":{"group":0}}
	{"type":"toggle_api","data":{"group":0,"api":2}}
	{"type":"back"}
	{"type":"ping"}

Server messages: map, map_warning, loading, country, group_breakdown,
group_expanded, api_expanded, chart, destroy, pong, error.

Chart images are not sent inline. A chart message carries the URL of a PNG
held in the shared chart store; the destroy message for that widget means
the URL is gone.
*/
package websocket
