package server

import (
	"encoding/json"
	"log"

	"sketchparty/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The durable mirror is write-behind and best-effort: every failure is
// logged and swallowed so gameplay never blocks on storage.

func (s *Server) mirrorRoom(room *Room) {
	if s.db == nil || room == nil {
		return
	}
	if err := s.persistRoom(room); err != nil {
		log.Printf("room mirror failed room_id=%s error=%v", room.ID, err)
	}
}

func (s *Server) mirrorMessage(room *Room, msg ChatMessage) {
	if s.db == nil || room == nil {
		return
	}
	if err := s.persistMessage(room, msg); err != nil {
		log.Printf("message mirror failed room_id=%s message_id=%s error=%v", room.ID, msg.ID, err)
	}
}

func (s *Server) mirrorRoomClosed(room *Room) {
	if s.db == nil || room == nil {
		return
	}
	if err := s.persistRoomClosed(room); err != nil {
		log.Printf("room close mirror failed room_id=%s error=%v", room.ID, err)
	}
}

func (s *Server) persistRoom(room *Room) error {
	doc, err := json.Marshal(room)
	if err != nil {
		return err
	}
	if room.DBID == 0 {
		if err := s.ensureRoomDBID(room); err != nil {
			return err
		}
	}
	if room.DBID == 0 {
		record := db.Room{
			Code:     room.ID,
			HostID:   room.HostID,
			Status:   room.Status,
			Round:    room.CurrentRound,
			Snapshot: datatypes.JSON(doc),
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
			return err
		}
		if record.ID == 0 {
			if err := s.ensureRoomDBID(room); err != nil {
				return err
			}
		} else {
			room.DBID = record.ID
			s.cacheRoomDBID(room.ID, record.ID)
		}
		return s.persistEvent(room, "room_created", EventPayload{
			RoomID: room.ID,
		})
	}
	updates := map[string]any{
		"host_id":  room.HostID,
		"status":   room.Status,
		"round":    room.CurrentRound,
		"snapshot": datatypes.JSON(doc),
	}
	return s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error
}

func (s *Server) persistMessage(room *Room, msg ChatMessage) error {
	if room.DBID == 0 {
		if err := s.ensureRoomDBID(room); err != nil {
			return err
		}
	}
	if room.DBID == 0 {
		return errRoomNotFound
	}
	record := db.Message{
		RoomID:     room.DBID,
		MessageID:  msg.ID,
		PlayerID:   msg.User.ID,
		PlayerName: msg.User.Name,
		Text:       msg.Text,
		IsCorrect:  msg.IsCorrect,
		CreatedAt:  msg.Timestamp,
	}
	return s.db.Create(&record).Error
}

func (s *Server) persistRoomClosed(room *Room) error {
	if room.DBID == 0 {
		if err := s.ensureRoomDBID(room); err != nil {
			return err
		}
	}
	if room.DBID == 0 {
		return nil
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Update("status", "closed").Error; err != nil {
		return err
	}
	return s.persistEvent(room, "room_removed", EventPayload{
		RoomID: room.ID,
	})
}

func (s *Server) persistEvent(room *Room, eventType string, payload EventPayload) error {
	if room.DBID == 0 {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomID:  room.DBID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) ensureRoomDBID(room *Room) error {
	if s.db == nil || room.DBID != 0 {
		return nil
	}
	var record db.Room
	if err := s.db.Where("code = ?", room.ID).First(&record).Error; err != nil {
		return nil
	}
	room.DBID = record.ID
	s.cacheRoomDBID(room.ID, record.ID)
	return nil
}

// cacheRoomDBID copies a freshly learned row id back onto the live room so
// later mirror writes skip the lookup. Mirror writes operate on detached
// copies, so the id has to travel back through the store. A no-op when the
// room has already been removed.
func (s *Server) cacheRoomDBID(code string, dbid uint) {
	if dbid == 0 {
		return
	}
	_, _ = s.store.UpdateRoom(code, func(room *Room) error {
		if room.DBID == 0 {
			room.DBID = dbid
		}
		return nil
	})
}
