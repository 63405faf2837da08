package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitForClients(t, hub, 1)
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsPrediction(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialHub(t, hub)

	hub.BroadcastPrediction(map[string]string{"predicted_winner": "Boston Celtics"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if event.Type != EventTypePrediction {
		t.Errorf("event type = %q, want %q", event.Type, EventTypePrediction)
	}
	if event.Timestamp.IsZero() {
		t.Error("broadcast should stamp the event")
	}
}

func TestHubUnsubscribeFiltersEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialHub(t, hub)

	unsub := map[string]interface{}{"type": "unsubscribe", "events": []string{"status"}}
	if err := conn.WriteJSON(unsub); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// Give the read pump a moment to apply the subscription change.
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastStatus(map[string]string{"state": "draining"})
	hub.BroadcastPrediction(map[string]string{"predicted_winner": "Denver Nuggets"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if event.Type != EventTypePrediction {
		t.Errorf("unsubscribed status event leaked through: %q", event.Type)
	}
}

func TestHubClientCountTracksDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialHub(t, hub)
	conn.Close()

	waitForClients(t, hub, 0)
}
