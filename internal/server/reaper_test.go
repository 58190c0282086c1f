package server

import (
	"testing"
	"time"
)

func TestSweepRemovesEmptyRooms(t *testing.T) {
	srv := newTestServer(t)
	empty := srv.createRoom("a-player", srv.defaultSettings())
	occupied := newRoomWithPlayers(t, srv, "Ada")

	removed := srv.sweepRooms()
	if removed != 1 {
		t.Fatalf("expected 1 room removed, got %d", removed)
	}
	if _, ok := srv.store.GetRoom(empty.ID); ok {
		t.Fatal("expected empty room swept")
	}
	if _, ok := srv.store.GetRoom(occupied.ID); !ok {
		t.Fatal("expected occupied room kept")
	}
}

func TestSweepRemovesExpiredRooms(t *testing.T) {
	srv := newTestServer(t)
	room := newRoomWithPlayers(t, srv, "Ada")
	if _, err := srv.store.UpdateRoom(room.ID, func(room *Room) error {
		room.CreatedAt = timeNowUTC().Add(-7 * time.Hour)
		return nil
	}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	if removed := srv.sweepRooms(); removed != 1 {
		t.Fatalf("expected 1 room removed, got %d", removed)
	}
	if _, ok := srv.store.GetRoom(room.ID); ok {
		t.Fatal("expected expired room swept despite connected player")
	}
}

func TestSweepCancelsTimers(t *testing.T) {
	srv := newTestServer(t)
	room := newRoomWithPlayers(t, srv, "Ada", "Ben")
	if _, err := srv.startGame(room.ID, room.HostID); err != nil {
		t.Fatalf("start game: %v", err)
	}
	if _, err := srv.store.UpdateRoom(room.ID, func(room *Room) error {
		room.CreatedAt = timeNowUTC().Add(-7 * time.Hour)
		return nil
	}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	if removed := srv.sweepRooms(); removed != 1 {
		t.Fatalf("expected 1 room removed, got %d", removed)
	}
	srv.timersMu.Lock()
	defer srv.timersMu.Unlock()
	if len(srv.timers) != 0 {
		t.Fatalf("expected timer cancelled for swept room, got %d", len(srv.timers))
	}
}

func TestSweepLeavesFreshRoomsAlone(t *testing.T) {
	srv := newTestServer(t)
	newRoomWithPlayers(t, srv, "Ada", "Ben")
	if removed := srv.sweepRooms(); removed != 0 {
		t.Fatalf("expected nothing swept, got %d", removed)
	}
}
