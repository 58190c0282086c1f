package server

import (
	"sort"
	"sync"
)

// Store is the authoritative in-memory registry of live rooms. Every
// mutation of a Room goes through UpdateRoom so that each logical
// transition is a single read-modify-write step under the lock. Rooms
// handed back to callers are detached copies: snapshots, broadcasts, and
// mirror writes happen on the copy and never race a later update.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// cloneRoom deep-copies a room. Player and ChatMessage are value types, so
// copying the slices and the guesser set detaches the result completely.
func cloneRoom(room *Room) *Room {
	clone := *room
	clone.Players = append([]Player(nil), room.Players...)
	clone.Messages = append([]ChatMessage(nil), room.Messages...)
	clone.CorrectGuessers = make(map[string]struct{}, len(room.CorrectGuessers))
	for id := range room.CorrectGuessers {
		clone.CorrectGuessers[id] = struct{}{}
	}
	return &clone
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom allocates a room in the waiting state. Room codes are not
// checked for collisions; a duplicate code replaces the older room.
func (s *Store) CreateRoom(hostID string, settings Settings) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := &Room{
		ID:              newRoomCode(),
		HostID:          hostID,
		Settings:        settings,
		Players:         make([]Player, 0, settings.MaxPlayers),
		Messages:        make([]ChatMessage, 0),
		Status:          statusWaiting,
		CorrectGuessers: make(map[string]struct{}),
		CreatedAt:       timeNowUTC(),
	}
	s.rooms[room.ID] = room
	return cloneRoom(room)
}

func (s *Store) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return cloneRoom(room), true
}

// UpdateRoom applies update to the live room under the lock and returns a
// detached copy of the result.
func (s *Store) UpdateRoom(id string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, errRoomNotFound
	}
	if err := update(room); err != nil {
		return nil, err
	}
	return cloneRoom(room), nil
}

func (s *Store) RemoveRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	delete(s.rooms, id)
	return cloneRoom(room), true
}

// RemoveRoomIf deletes the room only when cond holds, as one atomic step,
// so a sweep cannot race a command that just revived the room.
func (s *Store) RemoveRoomIf(id string, cond func(room *Room) bool) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	if !cond(room) {
		return nil, false
	}
	delete(s.rooms, id)
	return cloneRoom(room), true
}

func (s *Store) RoomIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RestoreRoom re-registers a room recovered from the durable mirror.
func (s *Store) RestoreRoom(room *Room) error {
	if room == nil || room.ID == "" {
		return errRoomNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return errGameInProgress
	}
	if room.CorrectGuessers == nil {
		room.CorrectGuessers = make(map[string]struct{})
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			ID:      room.ID,
			Status:  room.Status,
			Players: len(connectedPlayers(room)),
			Round:   room.CurrentRound,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *Store) FindPlayer(room *Room, playerID string) (*Player, bool) {
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return &room.Players[i], true
		}
	}
	return nil, false
}
