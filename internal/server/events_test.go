package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/kalam/internal/app"
)

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, hub.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()
	defer hub.Close()

	first := dialHub(t, ts.URL)
	second := dialHub(t, ts.URL)
	waitForClients(t, hub, 2)

	hub.Publish(app.Event{ID: "e1", Type: app.EventTrained, Letter: "a", Examples: 2, Time: time.Now()})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}

		var ev app.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		if ev.Type != app.EventTrained || ev.Letter != "a" || ev.Examples != 2 {
			t.Errorf("unexpected event: %+v", ev)
		}
	}
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	conn := dialHub(t, ts.URL)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing with nobody listening is a no-op.
	hub.Publish(app.Event{Type: app.EventCleared})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	conn := dialHub(t, ts.URL)
	waitForClients(t, hub, 1)

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("expected no clients after Close, got %d", hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}

	// A closed hub refuses new clients.
	late := dialHub(t, ts.URL)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Error("expected late client to be disconnected")
	}
}

func TestHub_ThroughAccessLog(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ts := httptest.NewServer(accessLog(New(Config{Events: hub})))
	defer ts.Close()

	dialHub(t, ts.URL)
	waitForClients(t, hub, 1)
}
