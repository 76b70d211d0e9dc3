// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package services

import "context"

// SessionHub is satisfied by *websocket.Hub.
type SessionHub interface {
	RunWithContext(ctx context.Context) error
}

// SessionHubService runs the dashboard session hub. On shutdown the hub
// closes every session, which destroys their widgets.
type SessionHubService struct {
	hub SessionHub
}

// NewSessionHubService wraps hub.
func NewSessionHubService(hub SessionHub) *SessionHubService {
	return &SessionHubService{hub: hub}
}

// Serve implements suture.Service.
func (s *SessionHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

func (s *SessionHubService) String() string {
	return "session-hub"
}
