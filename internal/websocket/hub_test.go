// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/canarymap/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// createTestClient creates a client with no connection or session.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), sessionID: "test", hub: hub, send: make(chan Message, 4)}
}

// startHub runs hub until the test ends.
func startHub(t *testing.T, hub *Hub) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func isClosed(ch chan Message) bool {
	select {
	case _, ok := <-ch:
		return !ok
	default:
		return false
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	startHub(t, hub)

	a, b := createTestClient(hub), createTestClient(hub)
	hub.Register <- a
	hub.Register <- b
	waitForCount(t, hub, 2)

	hub.Unregister <- a
	waitForCount(t, hub, 1)
	if !isClosed(a.send) {
		t.Error("unregistered client's send channel should be closed")
	}
	if a.deliver(Message{Type: MessageTypePong}) {
		t.Error("deliver to a closed client should fail")
	}

	// Unregistering twice is harmless.
	hub.Unregister <- a
	waitForCount(t, hub, 1)
}

func TestHub_RunWithContextClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	clients := []*Client{createTestClient(hub), createTestClient(hub), createTestClient(hub)}
	for _, c := range clients {
		hub.Register <- c
	}
	waitForCount(t, hub, 3)

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("clients after shutdown = %d", n)
	}
	for i, c := range clients {
		if !isClosed(c.send) {
			t.Errorf("client %d not closed", i)
		}
	}
}

func TestHub_UnregisterWithoutLoop(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	c := createTestClient(hub)
	hub.add(c)

	hub.unregister(c)
	if hub.GetClientCount() != 0 || !isClosed(c.send) {
		t.Error("unregister should remove the client when the hub loop is not running")
	}
}

func TestClient_DeliverBufferFull(t *testing.T) {
	t.Parallel()

	c := createTestClient(NewHub())
	for i := 0; i < cap(c.send); i++ {
		if !c.deliver(Message{Type: MessageTypePong}) {
			t.Fatalf("deliver %d failed early", i)
		}
	}
	if c.deliver(Message{Type: MessageTypePong}) {
		t.Error("deliver to a full buffer should fail")
	}
	c.closeSend()
	c.closeSend()
}

func TestGetShutdownReason(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled = %q", got)
	}

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline = %q", got)
	}
}
