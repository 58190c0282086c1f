package server

import (
	"encoding/json"
	"log"

	"sketchparty/internal/db"
)

// RestoreRooms reloads mirrored rooms after a process restart. Restored
// rooms come back in the waiting state with every player disconnected;
// round timers do not survive a restart, and the reaper collects any room
// nobody returns to. Best-effort: failures are logged, never fatal.
func (s *Server) RestoreRooms() int {
	if s.db == nil {
		return 0
	}
	var records []db.Room
	if err := s.db.Where("status <> ?", "closed").Find(&records).Error; err != nil {
		log.Printf("room restore query failed error=%v", err)
		return 0
	}
	restored := 0
	for _, record := range records {
		room, err := roomFromRecord(record)
		if err != nil {
			log.Printf("room restore skipped room_code=%s error=%v", record.Code, err)
			continue
		}
		if err := s.store.RestoreRoom(room); err != nil {
			continue
		}
		restored++
	}
	if restored > 0 {
		log.Printf("rooms restored count=%d", restored)
	}
	return restored
}

func roomFromRecord(record db.Room) (*Room, error) {
	var room Room
	if len(record.Snapshot) > 0 {
		if err := json.Unmarshal(record.Snapshot, &room); err != nil {
			return nil, err
		}
	}
	room.ID = record.Code
	room.DBID = record.ID
	room.Status = statusWaiting
	room.CurrentRound = 0
	room.CurrentWord = ""
	room.DrawingPlayerID = ""
	room.RoundTimeLeft = 0
	room.CorrectGuessers = make(map[string]struct{})
	if room.CreatedAt.IsZero() {
		room.CreatedAt = record.CreatedAt
	}
	for i := range room.Players {
		room.Players[i].IsConnected = false
		room.Players[i].IsDrawing = false
	}
	return &room, nil
}
