// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package services adapts Canarymap's long-running components to suture.Service.

	HTTPServerService   wraps *http.Server (ListenAndServe / Shutdown)
	SessionHubService   wraps the dashboard session hub (RunWithContext)

Every wrapper returns ctx.Err() on a requested shutdown so suture does not
count it as a failure, and implements fmt.Stringer for supervisor events.
*/
package services
