package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, ts *httptest.Server, roomID, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/" + roomID
	if playerID != "" {
		url += "?player_id=" + playerID
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// rawEvent mirrors wsEvent but keeps the payload undecoded so each test
// can unmarshal it into the shape it expects.
type rawEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) rawEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var event rawEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode event: %v payload=%s", err, payload)
	}
	return event
}

// waitForEvent discards events until one of the wanted type arrives.
func waitForEvent(t *testing.T, conn *websocket.Conn, eventType string) rawEvent {
	t.Helper()
	for i := 0; i < 10; i++ {
		event := readEvent(t, conn)
		if event.Type == eventType {
			return event
		}
	}
	t.Fatalf("no %s event within 10 messages", eventType)
	return rawEvent{}
}

func TestWebsocketInitialSnapshot(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada")

	conn := dialRoom(t, ts, room.ID, "a-player")
	event := readEvent(t, conn)
	if event.Type != eventGameUpdate {
		t.Fatalf("expected first event %q, got %q", eventGameUpdate, event.Type)
	}
	var state map[string]any
	if err := json.Unmarshal(event.Data, &state); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if state["id"] != room.ID {
		t.Fatalf("expected room %q in snapshot, got %v", room.ID, state["id"])
	}
}

func TestWebsocketUnknownRoomRejected(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/000000"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected dial to an unknown room to fail")
	}
}

func TestWebsocketBroadcastsJoins(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada")

	conn := dialRoom(t, ts, room.ID, "a-player")
	readEvent(t, conn) // initial snapshot

	if _, err := srv.joinRoom(room.ID, Player{ID: "b-player", Name: "Ben"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	event := waitForEvent(t, conn, eventPlayerJoined)
	var joined Player
	if err := json.Unmarshal(event.Data, &joined); err != nil {
		t.Fatalf("decode player: %v", err)
	}
	if joined.ID != "b-player" {
		t.Fatalf("expected b-player joined, got %q", joined.ID)
	}

	update := waitForEvent(t, conn, eventGameUpdate)
	var state map[string]any
	if err := json.Unmarshal(update.Data, &state); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	players, _ := state["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("expected 2 players in update, got %d", len(players))
	}
}

func TestWebsocketDrawingPassthrough(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada", "Ben")

	drawer := dialRoom(t, ts, room.ID, "a-player")
	viewer := dialRoom(t, ts, room.ID, "b-player")
	readEvent(t, drawer)
	readEvent(t, viewer)

	stroke := `{"type":"drawing","data":{"points":[[1,2],[3,4]],"color":"#000"}}`
	if err := drawer.WriteMessage(websocket.TextMessage, []byte(stroke)); err != nil {
		t.Fatalf("send stroke: %v", err)
	}

	event := waitForEvent(t, viewer, eventDrawing)
	var payload map[string]any
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatalf("decode stroke: %v", err)
	}
	if payload["color"] != "#000" {
		t.Fatalf("expected stroke forwarded untouched, got %v", payload)
	}

	room2, _ := srv.store.GetRoom(room.ID)
	if len(room2.Messages) != 0 {
		t.Fatal("drawing traffic must not land in the message log")
	}
}

// collectEvents reads everything a connection receives until the window
// elapses. Used for negative assertions, where waiting for a specific
// event would block forever.
func collectEvents(conn *websocket.Conn, window time.Duration) []rawEvent {
	deadline := time.Now().Add(window)
	var events []rawEvent
	for {
		conn.SetReadDeadline(deadline)
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return events
		}
		var event rawEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}
		events = append(events, event)
	}
}

func TestDrawerReceivesWordOnStart(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada", "Ben")

	conns := map[string]*websocket.Conn{
		"a-player": dialRoom(t, ts, room.ID, "a-player"),
		"b-player": dialRoom(t, ts, room.ID, "b-player"),
	}
	for _, conn := range conns {
		readEvent(t, conn) // initial snapshot
	}

	started, err := srv.startGame(room.ID, room.HostID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	t.Cleanup(func() { srv.cancelRoundTimer(room.ID) })

	drawerID := started.DrawingPlayerID
	guesserID := "a-player"
	if drawerID == "a-player" {
		guesserID = "b-player"
	}

	event := waitForEvent(t, conns[drawerID], eventWordAssigned)
	var assigned struct {
		Word  string `json:"word"`
		Round int    `json:"round"`
	}
	if err := json.Unmarshal(event.Data, &assigned); err != nil {
		t.Fatalf("decode word event: %v", err)
	}
	if assigned.Word != started.CurrentWord {
		t.Fatalf("expected drawer told %q, got %q", started.CurrentWord, assigned.Word)
	}
	if assigned.Round != 1 {
		t.Fatalf("expected round 1, got %d", assigned.Round)
	}

	for _, event := range collectEvents(conns[guesserID], 500*time.Millisecond) {
		if event.Type == eventWordAssigned {
			t.Fatal("guesser must not receive the word event")
		}
		if strings.Contains(string(event.Data), started.CurrentWord) {
			t.Fatalf("word leaked to guesser in %s event: %s", event.Type, event.Data)
		}
	}
}

func TestDrawerReconnectGetsWordMidRound(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada", "Ben")

	started, err := srv.startGame(room.ID, room.HostID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	t.Cleanup(func() { srv.cancelRoundTimer(room.ID) })

	conn := dialRoom(t, ts, room.ID, started.DrawingPlayerID)
	if event := readEvent(t, conn); event.Type != eventGameUpdate {
		t.Fatalf("expected snapshot first, got %q", event.Type)
	}
	event := waitForEvent(t, conn, eventWordAssigned)
	var assigned struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(event.Data, &assigned); err != nil {
		t.Fatalf("decode word event: %v", err)
	}
	if assigned.Word != started.CurrentWord {
		t.Fatalf("expected reconnecting drawer told %q, got %q", started.CurrentWord, assigned.Word)
	}

	guesser := dialRoom(t, ts, room.ID, "")
	for _, event := range collectEvents(guesser, 500*time.Millisecond) {
		if event.Type == eventWordAssigned {
			t.Fatal("spectator must not receive the word event")
		}
	}
}

func TestWebsocketDisconnectMarksPlayerGone(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	room := newRoomWithPlayers(t, srv, "Ada", "Ben")

	conn := dialRoom(t, ts, room.ID, "b-player")
	readEvent(t, conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		current, ok := srv.store.GetRoom(room.ID)
		if !ok {
			t.Fatal("room unexpectedly removed")
		}
		player, found := srv.store.FindPlayer(current, "b-player")
		if found && !player.IsConnected {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("player never marked disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
