// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package websocket

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/canarymap/internal/cache"
	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/dashboard"
	"github.com/tomtom215/canarymap/internal/datasource"
	"github.com/tomtom215/canarymap/internal/geo"
)

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// setupSessionServer starts a hub and an httptest server that runs a
// dashboard session on every websocket connection.
func setupSessionServer(t *testing.T, assets geo.AssetLoader) (*httptest.Server, *Hub, *charts.Store) {
	t.Helper()

	hub := NewHub()
	startHub(t, hub)

	store := charts.NewStore()
	cfg := SessionConfig{
		Cache:  cache.NewCanaryCache(),
		Source: datasource.NewFallbackSource(nil, datasource.NewSynthesizer(rand.NewPCG(7, 11))),
		Assets: assets,
		Charts: charts.NewRenderer(config.ChartsConfig{Width: 400, Height: 200}),
		Store:  store,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, cfg)
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server, hub, store
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write %s: %v", raw, err)
	}
}

// readUntil reads messages until one of type msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", msgType, err)
		}
		var msg received
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if msg.Type == msgType {
			return msg.Data
		}
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestSession_EndToEnd(t *testing.T) {
	t.Parallel()

	server, hub, store := setupSessionServer(t, geo.FileAsset{Path: filepath.Join("..", "geo", "testdata", "world.json")})
	conn := dialWebSocket(t, server)
	defer conn.Close()

	m := decode[MapData](t, readUntil(t, conn, MessageTypeMap))
	if len(m.Regions) != 4 || m.WidgetID == "" {
		t.Fatalf("map = %+v", m)
	}

	send(t, conn, `{"type":"select_country","data":{"country":"Singapore"}}`)
	if l := decode[LoadingData](t, readUntil(t, conn, MessageTypeLoading)); l.Country != "Singapore" {
		t.Errorf("loading = %+v", l)
	}
	cv := decode[dashboard.CountryView](t, readUntil(t, conn, MessageTypeCountry))
	if cv.Title != "Canary Groups in Singapore" || len(cv.Groups) == 0 {
		t.Fatalf("country = %+v", cv)
	}

	send(t, conn, `{"type":"toggle_group","data":{"group":0}}`)
	bd := decode[BreakdownData](t, readUntil(t, conn, MessageTypeGroupBreakdown))
	if len(bd.Rows) != len(datasource.SyntheticAPIs) {
		t.Errorf("breakdown rows = %d, want %d", len(bd.Rows), len(datasource.SyntheticAPIs))
	}
	ch := decode[ChartData](t, readUntil(t, conn, MessageTypeChart))
	if ch.Kind != "trend" || ch.URL != "/charts/"+ch.WidgetID+".png" || ch.Dataset != dashboard.TrendDataset {
		t.Errorf("chart = %+v", ch)
	}
	if _, ok := store.Get(ch.WidgetID); !ok {
		t.Fatal("chart image not stored")
	}
	if ex := decode[ExpandedData](t, readUntil(t, conn, MessageTypeGroupExpanded)); !ex.Expanded {
		t.Errorf("group_expanded = %+v", ex)
	}

	send(t, conn, `{"type":"back"}`)
	if d := decode[DestroyData](t, readUntil(t, conn, MessageTypeDestroy)); d.WidgetID != ch.WidgetID {
		t.Errorf("destroyed %q, want chart %q", d.WidgetID, ch.WidgetID)
	}
	if _, ok := store.Get(ch.WidgetID); ok {
		t.Error("chart image should be removed on back")
	}
	if m2 := decode[MapData](t, readUntil(t, conn, MessageTypeMap)); m2.WidgetID == m.WidgetID {
		t.Error("re-entering the map should create a new widget")
	}

	send(t, conn, `{"type":"ping"}`)
	readUntil(t, conn, MessageTypePong)

	send(t, conn, `{"type":"toggle_group","data":{}}`)
	if e := decode[ErrorData](t, readUntil(t, conn, MessageTypeError)); e.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v", e)
	}

	_ = conn.Close()
	waitForCount(t, hub, 0)
	if n := store.Len(); n != 0 {
		t.Errorf("store holds %d images after disconnect", n)
	}
}

func TestSession_MapWarning(t *testing.T) {
	t.Parallel()

	server, _, _ := setupSessionServer(t, geo.FileAsset{Path: filepath.Join("testdata", "missing.json")})
	conn := dialWebSocket(t, server)
	defer conn.Close()

	w := decode[WarningData](t, readUntil(t, conn, MessageTypeMapWarning))
	if w.Message != dashboard.MapWarning {
		t.Errorf("warning = %q", w.Message)
	}

	// The detail view still works without geometry.
	send(t, conn, `{"type":"select_country","data":{"country":"Ireland"}}`)
	readUntil(t, conn, MessageTypeCountry)
}
