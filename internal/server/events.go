package server

// Event types published to room members over the websocket.
const (
	eventGameUpdate   = "gameUpdate"
	eventPlayerJoined = "playerJoined"
	eventPlayerLeft   = "playerLeft"
	eventNewMessage   = "newMessage"
	eventGameStarted  = "gameStarted"
	eventRoundEnded   = "roundEnded"
	eventTimerUpdate  = "timerUpdate"
	eventDrawing      = "drawing"
	// wordAssigned is addressed to the drawing player alone, never
	// broadcast.
	eventWordAssigned = "wordAssigned"
)

type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventPayload is the structured payload mirrored to the events table.
type EventPayload struct {
	RoomID     string `json:"room_id,omitempty"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player,omitempty"`
	Round      int    `json:"round,omitempty"`
	Status     string `json:"status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Count      int    `json:"count,omitempty"`
}
