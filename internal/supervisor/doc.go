// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package supervisor runs Canarymap's long-lived services under a suture v4 tree.

	"canarymap"
	├── "messaging-layer"
	│   └── session-hub
	└── "api-layer"
	    └── http-server

The layers restart independently: a failing HTTP listener does not close
open dashboard sessions, and a hub restart does not drop the listener.
Supervisor events are logged through sutureslog and the zerolog slog
adapter from internal/logging.

Usage in main:

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), cfg.Supervisor)
	tree.AddMessagingService(services.NewSessionHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Supervisor.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
