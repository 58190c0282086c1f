package server

import (
	"net/http"
)

type createRoomRequest struct {
	HostID   string    `json:"host_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Settings *Settings `json:"settings"`
}

type joinRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type leaveRequest struct {
	PlayerID string `json:"player_id"`
}

type startRequest struct {
	PlayerID string `json:"player_id"`
}

type messageRequest struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Text     string `json:"text"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hostID, err := validatePlayerID(req.HostID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	settings := validateSettings(req.Settings, s.defaultSettings())
	room := s.createRoom(hostID, settings)
	if _, err := s.joinRoom(room.ID, Player{ID: hostID, Name: name, Avatar: req.Avatar}); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"room_id": room.ID,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	summaries := make([]map[string]any, 0)
	for _, summary := range s.store.ListRoomSummaries() {
		summaries = append(summaries, map[string]any{
			"id":      summary.ID,
			"status":  summary.Status,
			"players": summary.Players,
			"round":   summary.Round,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": summaries,
	})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	roomID, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet && action == "" {
		s.handleGetRoom(w, r, roomID)
		return
	}
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	switch action {
	case "join":
		s.handleJoinRoom(w, r, roomID)
	case "leave":
		s.handleLeaveRoom(w, r, roomID)
	case "start":
		s.handleStartGame(w, r, roomID)
	case "messages":
		s.handleSendMessage(w, r, roomID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	room, ok := s.store.GetRoom(roomID)
	if !ok {
		writeError(w, http.StatusNotFound, errRoomNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room))
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerID, err := validatePlayerID(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := s.joinRoom(roomID, Player{ID: playerID, Name: name, Avatar: req.Avatar})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room))
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	var req leaveRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerID, err := validatePlayerID(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.leaveRoom(roomID, playerID); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"ok": true,
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request, roomID string) {
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := s.startGame(roomID, req.PlayerID)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(room))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, roomID string) {
	var req messageRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerID, err := validatePlayerID(req.PlayerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	text, err := validateMessageText(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := s.recordMessage(roomID, ChatMessage{
		ID:   req.ID,
		User: Player{ID: playerID},
		Text: text,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"is_correct": msg.IsCorrect,
	})
}
