package server

import (
	"log"
	"time"
)

// StartReaper runs sweepRooms once immediately and then on a fixed
// interval. The returned func stops the loop.
func (s *Server) StartReaper() func() {
	interval := time.Duration(s.cfg.ReaperIntervalMinutes) * time.Minute
	stop := make(chan struct{})
	s.sweepRooms()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sweepRooms()
			}
		}
	}()
	return func() {
		close(stop)
	}
}

// sweepRooms evicts rooms with no connected players and rooms older than
// the configured ceiling regardless of connection state. Deletions are
// reported in aggregate.
func (s *Server) sweepRooms() int {
	ttl := time.Duration(s.cfg.RoomTTLHours) * time.Hour
	cutoff := timeNowUTC().Add(-ttl)
	removed := 0
	for _, id := range s.store.RoomIDs() {
		room, ok := s.store.RemoveRoomIf(id, func(room *Room) bool {
			if len(connectedPlayers(room)) == 0 {
				return true
			}
			return room.CreatedAt.Before(cutoff)
		})
		if !ok {
			continue
		}
		s.cancelRoundTimer(id)
		s.mirrorRoomClosed(room)
		removed++
	}
	if removed > 0 {
		log.Printf("reaper swept rooms removed=%d", removed)
	}
	return removed
}
