package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tenpin/tenpin/server/internal/lane"
	wsHub "github.com/tenpin/tenpin/server/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
// Returns the ws:// URL, the hub, and a cancel function.
func startHub(t *testing.T, l *lane.Lane, interval time.Duration) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(l, interval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads and decodes one message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m wsHub.Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, data)
	}
	return m
}

// waitFor reads messages until one satisfies ok or the deadline passes.
func waitFor(t *testing.T, conn *websocket.Conn, ok func(wsHub.Message) bool) wsHub.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m := readMessage(t, conn); ok(m) {
			return m
		}
	}
	t.Fatal("timed out waiting for matching message")
	return wsHub.Message{}
}

// waitCount polls hub.Count until it equals want.
func waitCount(t *testing.T, hub *wsHub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Count: got %d, want %d", hub.Count(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateSnapshot(t *testing.T) {
	l := lane.New()
	if _, err := l.Roll(10); err != nil {
		t.Fatal(err)
	}
	wsURL, _, _ := startHub(t, l, time.Hour)

	m := readMessage(t, dial(t, wsURL))
	if m.Event != wsHub.EventSnapshot {
		t.Errorf("event: got %q, want snapshot", m.Event)
	}
	if m.Data.GameID != l.Snapshot().GameID {
		t.Errorf("game_id: got %q, want %q", m.Data.GameID, l.Snapshot().GameID)
	}
	if len(m.Data.Rolls) != 1 || m.Data.Rolls[0] != 10 {
		t.Errorf("rolls: got %v, want [10]", m.Data.Rolls)
	}
}

func TestHub_PushesOnRoll(t *testing.T) {
	l := lane.New()
	// Heartbeat effectively disabled: only changes produce messages.
	wsURL, _, _ := startHub(t, l, time.Hour)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate snapshot (empty game)

	for _, p := range []int{5, 5, 7} {
		if _, err := l.Roll(p); err != nil {
			t.Fatal(err)
		}
	}

	m := waitFor(t, conn, func(m wsHub.Message) bool { return len(m.Data.Rolls) == 3 })
	if m.Data.Score != 17 {
		t.Errorf("score: got %d, want 17", m.Data.Score)
	}
}

func TestHub_PushesOnReset(t *testing.T) {
	l := lane.New()
	wsURL, _, _ := startHub(t, l, time.Hour)

	conn := dial(t, wsURL)
	first := readMessage(t, conn)

	next := l.Reset()
	m := waitFor(t, conn, func(m wsHub.Message) bool { return m.Data.GameID != first.Data.GameID })
	if m.Data.GameID != next.GameID {
		t.Errorf("game_id: got %q, want %q", m.Data.GameID, next.GameID)
	}
}

func TestHub_ReceivesHeartbeatOnTick(t *testing.T) {
	wsURL, _, _ := startHub(t, lane.New(), testInterval)

	conn := dial(t, wsURL)
	first := readMessage(t, conn)

	// Nothing changes; the next message comes from the ticker.
	m := readMessage(t, conn)
	if m.Data.GameID != first.Data.GameID || m.Data.Version != first.Data.Version {
		t.Errorf("heartbeat = %+v, want same game as %+v", m.Data, first.Data)
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, lane.New(), time.Hour)

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}
	waitCount(t, hub, 3)
}

func TestHub_CountClients_DecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _ := startHub(t, lane.New(), time.Hour)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	waitCount(t, hub, 1)

	conn.Close()
	waitCount(t, hub, 0)
}

func TestHub_AllClientsReceiveBroadcast(t *testing.T) {
	l := lane.New()
	wsURL, hub, _ := startHub(t, l, time.Hour)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, wsURL)
		readMessage(t, conns[i])
	}
	waitCount(t, hub, 3)

	if _, err := l.Roll(9); err != nil {
		t.Fatal(err)
	}
	for i, conn := range conns {
		m := waitFor(t, conn, func(m wsHub.Message) bool { return len(m.Data.Rolls) == 1 })
		if m.Data.Rolls[0] != 9 {
			t.Errorf("client %d: rolls %v, want [9]", i, m.Data.Rolls)
		}
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, cancel := startHub(t, lane.New(), time.Hour)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	waitCount(t, hub, 1)

	cancel() // signal shutdown
	waitCount(t, hub, 0)

	// The server sends a close frame; the next read fails.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage after shutdown: got nil error, want close")
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(lane.New(), testInterval)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	// Plain HTTP GET without WebSocket upgrade headers gets 400.
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
