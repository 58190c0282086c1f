package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsHub fans events out to every connection subscribed to a room.
// Broadcasts happen on the command path after each store update, so
// members observe events in the order the transitions were applied.
// Connections are tagged with their player id so an event can be
// addressed to a single member.
type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]string
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]string),
	}
}

func (h *wsHub) Add(roomID string, conn *websocket.Conn, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomID]
	if group == nil {
		group = make(map[*websocket.Conn]string)
		h.groups[roomID] = group
	}
	group[conn] = playerID
}

func (h *wsHub) Remove(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(roomID string, payload any) {
	h.mu.Lock()
	group := h.groups[roomID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomID, conn)
		}
	}
}

// SendTo delivers a payload to every connection a single player holds in
// the room, and to nobody else.
func (h *wsHub) SendTo(roomID, playerID string, payload any) {
	if playerID == "" {
		return
	}
	h.mu.Lock()
	group := h.groups[roomID]
	conns := make([]*websocket.Conn, 0, 1)
	for conn, id := range group {
		if id == playerID {
			conns = append(conns, conn)
		}
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomID, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	room, exists := s.store.GetRoom(roomID)
	if !exists {
		http.NotFound(w, r)
		return
	}
	playerID := r.URL.Query().Get("player_id")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room_id=%s player_id=%s remote=%s", roomID, playerID, r.RemoteAddr)
	s.ws.Add(roomID, conn, playerID)
	s.ws.Send(conn, wsEvent{Type: eventGameUpdate, Data: snapshot(room)})
	// A drawer reconnecting mid-round gets their word back; the initial
	// snapshot only carries the mask.
	if playerID != "" && room.Status == statusPlaying && room.DrawingPlayerID == playerID {
		s.ws.Send(conn, drawerWordEvent(room.CurrentWord, room.CurrentRound))
	}
	go s.readWS(roomID, playerID, conn)
}

func drawerWordEvent(word string, round int) wsEvent {
	return wsEvent{Type: eventWordAssigned, Data: map[string]any{
		"word":  word,
		"round": round,
	}}
}

// sendDrawerWord tells the drawing player, and only the drawing player,
// what to draw this round. Everyone else sees the mask until the reveal
// in roundEnded.
func (s *Server) sendDrawerWord(roomID, drawerID, word string, round int) {
	if s.ws == nil || drawerID == "" || word == "" {
		return
	}
	s.ws.SendTo(roomID, drawerID, drawerWordEvent(word, round))
}

// readWS pumps inbound messages. Drawing stroke batches are rebroadcast to
// the room untouched and never persisted; everything else is ignored. A
// read error means the client is gone: mark them disconnected and give the
// reaper a chance to collect the room.
func (s *Server) readWS(roomID, playerID string, conn *websocket.Conn) {
	defer s.ws.Remove(roomID, conn)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected room_id=%s player_id=%s error=%v", roomID, playerID, err)
			if playerID != "" {
				if err := s.leaveRoom(roomID, playerID); err != nil {
					log.Printf("ws leave failed room_id=%s player_id=%s error=%v", roomID, playerID, err)
				}
			}
			s.sweepRooms()
			return
		}
		var event wsEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}
		if event.Type == eventDrawing {
			s.ws.Broadcast(roomID, event)
		}
	}
}

func (s *Server) broadcastEvent(roomID, eventType string, data any) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(roomID, wsEvent{Type: eventType, Data: data})
}

func (s *Server) broadcastRoomUpdate(room *Room) {
	if s.ws == nil || room == nil {
		return
	}
	s.ws.Broadcast(room.ID, wsEvent{Type: eventGameUpdate, Data: snapshot(room)})
}
