// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/canarymap/internal/cache"
	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/dashboard"
	"github.com/tomtom215/canarymap/internal/datasource"
	"github.com/tomtom215/canarymap/internal/geo"
	"github.com/tomtom215/canarymap/internal/logging"
	"github.com/tomtom215/canarymap/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
	dispatchWait   = 30 * time.Second
)

// clientIDCounter gives clients a stable ordering for shutdown.
var clientIDCounter atomic.Uint64

// SessionConfig holds the shared services every session uses.
type SessionConfig struct {
	Cache  *cache.CanaryCache
	Source datasource.Source
	Assets geo.AssetLoader
	Charts *charts.Renderer
	Store  *charts.Store

	// ChartPath is the URL prefix chart images are served under.
	ChartPath string
}

// Client is one dashboard session on one websocket connection.
type Client struct {
	id        uint64
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan Message

	mu     sync.Mutex
	closed bool

	coord *dashboard.Coordinator
}

// NewClient creates a client and its session coordinator.
func NewClient(hub *Hub, conn *websocket.Conn, cfg SessionConfig) *Client {
	c := &Client{
		id:        clientIDCounter.Add(1),
		sessionID: logging.GenerateSessionID(),
		hub:       hub,
		conn:      conn,
		send:      make(chan Message, sendBuffer),
	}
	c.coord = dashboard.NewCoordinator(dashboard.Deps{
		SessionID: c.sessionID,
		Cache:     cfg.Cache,
		Source:    cfg.Source,
		Assets:    cfg.Assets,
		Renderer:  newSessionRenderer(c, cfg),
	})
	return c
}

// ID returns the client's ordering key.
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID returns the dashboard session identifier used in logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Start runs the session and both pumps. The session ends when the
// connection closes.
func (c *Client) Start() {
	ctx := logging.ContextWithSessionID(context.Background(), c.sessionID)
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.coord.Run(ctx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("dashboard session failed")
		}
	}()

	go c.writePump()
	go c.readPump(ctx, func() {
		cancel()
		<-done
	})
}

// deliver queues msg for writing. It reports false if the client is closed
// or too far behind.
func (c *Client) deliver(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		logging.Warn().Str("session_id", c.sessionID).Str("message_type", msg.Type).
			Msg("send buffer full, dropping message")
		return false
	}
}

// closeSend closes the send channel once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump decodes client messages and dispatches them in arrival order.
// stop ends the session and waits for its widgets to be destroyed.
func (c *Client) readPump(ctx context.Context, stop func()) {
	defer func() {
		stop()
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log := logging.Ctx(ctx)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				log.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		msgType, intent, err := ParseMessage(raw)
		if err != nil {
			metrics.WSErrors.WithLabelValues("invalid_message").Inc()
			log.Debug().Err(err).Str("message_type", msgType).Msg("rejected client message")
			c.deliver(errorMessage(err))
			continue
		}
		if intent == nil {
			c.deliver(Message{Type: MessageTypePong})
			continue
		}

		dctx, cancel := context.WithTimeout(ctx, dispatchWait)
		applied, err := c.coord.Dispatch(dctx, intent)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("intent", intent.Name()).Msg("intent not dispatched")
			return
		}
		log.Debug().Str("intent", intent.Name()).Bool("applied", applied).Msg("intent handled")
	}
}

// writePump writes queued messages and keep-alive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logging.Debug().Err(err).Msg("failed to write close message")
				}
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("encode").Inc()
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Error().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
