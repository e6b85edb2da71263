package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/critters/game"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) game.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "frame" || msg.Frame == nil {
		t.Fatalf("message: got %+v, want a frame", msg)
	}
	return *msg.Frame
}

func TestHubBroadcastsEveryNthTick(t *testing.T) {
	hub := NewHub(2)
	conn := dial(t, hub)

	for tick := 1; tick <= 4; tick++ {
		if err := hub.Render(game.Frame{Generation: 3, Tick: tick}); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}

	for _, want := range []int{2, 4} {
		f := readFrame(t, conn)
		if f.Tick != want || f.Generation != 3 {
			t.Errorf("frame: got gen %d tick %d, want gen 3 tick %d", f.Generation, f.Tick, want)
		}
	}
}

func TestHubAlwaysSendsFinalFrame(t *testing.T) {
	hub := NewHub(100)
	conn := dial(t, hub)

	if err := hub.Render(game.Frame{Tick: 7, Ended: true, Agents: []game.AgentView{{ID: 9}}}); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	if !f.Ended || len(f.Agents) != 1 || f.Agents[0].ID != 9 {
		t.Errorf("final frame: got %+v", f)
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	hub := NewHub(1)
	if err := hub.Render(game.Frame{Tick: 5}); err != nil {
		t.Fatal(err)
	}
	conn := dial(t, hub)

	if f := readFrame(t, conn); f.Tick != 5 {
		t.Errorf("catch-up frame: got tick %d, want 5", f.Tick)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(1)
	conn := dial(t, hub)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := hub.Render(game.Frame{Tick: 1}); err != nil {
		t.Errorf("Render with no clients: %v", err)
	}
}
